package main

import (
	"fmt"
	"sync"
)

// Progress is an updating progress meter for a long-running test.
type Progress struct {
	sync.Mutex
	Tag   string
	N     int
	Total int
}

func NewProgress(tag string, total int) *Progress { return &Progress{Tag: tag, Total: total} }

func (p *Progress) Add(delta int) {
	p.Lock()
	defer p.Unlock()
	p1 := percent(p.N, p.Total)
	p.N += delta
	p2 := percent(p.N, p.Total)
	// only print every 20%
	if int(p1)/20 < int(p2)/20 {
		fmt.Printf("%s: %d/%d loops (%.0f%%)\n", p.Tag, p.N, p.Total, p2)
	}
}

func percent(n, d int) float64 {
	return float64(n) / float64(d) * 100
}
