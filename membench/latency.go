// Pointer-chase latency: a random cyclic linked list embedded in the buffer itself, dereferenced
// single-threaded so each load's latency is fully exposed (no overlap between accesses).

package membench

import (
	"fmt"
	"math/rand"
)

// LatencyStride is the default byte distance between chain nodes. 128 bytes keeps neighboring nodes off
// the pair of lines an adjacent-line prefetcher fetches together.
const LatencyStride = 128

// SetupLatencyChain embeds a random single-cycle linked list in buf: the word at each node's offset holds
// the byte offset of the next node, with nodes spaced stride bytes apart. Walking the chain from any node
// visits every node exactly once before returning to the start. Returns the node count. Fewer than 2
// nodes is a hard error; a 1-node chain would just re-read one line forever and measure nothing.
func SetupLatencyChain(buf []byte, stride int, rng *rand.Rand) (int, error) {
	if stride < wordSize {
		return 0, fmt.Errorf("latency stride %d is smaller than one %d-byte pointer", stride, wordSize)
	}
	nodes := len(buf) / stride
	if nodes < 2 {
		return 0, fmt.Errorf("buffer of %d bytes holds %d chain node(s) at stride %d; need at least 2",
			len(buf), nodes, stride)
	}

	// Sattolo's algorithm: a uniformly random permutation with exactly one cycle.
	next := make([]int, nodes)
	for i := range next {
		next[i] = i
	}
	for i := nodes - 1; i > 0; i-- {
		j := rng.Intn(i)
		next[i], next[j] = next[j], next[i]
	}
	for i, n := range next {
		storeWord(buf, i*stride, uint64(n*stride))
	}
	return nodes, nil
}

// RunLatencyTest dereferences the chain embedded in buf count times and returns the total elapsed
// nanoseconds. The chain must have been built with SetupLatencyChain first. A non-positive count returns
// the sentinel 0 (no measurement performed).
func RunLatencyTest(buf []byte, count int, timer *Stopwatch) int64 {
	if count <= 0 {
		return 0
	}
	timer.Start()
	chaseSink = chase(buf, 0, count)
	return timer.StopNs()
}

// RunLatencyTestSampled splits count accesses into sampleCount equal sub-runs, times each sub-run
// independently, and returns per-sample nanoseconds-per-access alongside the total elapsed nanoseconds.
// The samples feed percentile analysis. Every sample performs at least one access, even when count is
// smaller than sampleCount. The chase resumes each sample from where the previous one stopped, so the
// samples together form one continuous walk.
func RunLatencyTestSampled(buf []byte, count, sampleCount int, timer *Stopwatch) ([]float64, int64) {
	if count <= 0 || sampleCount <= 0 {
		return nil, 0
	}
	perSample := count / sampleCount
	if perSample < 1 {
		perSample = 1
	}
	samples := make([]float64, sampleCount)
	var cur uint64
	var total int64
	for i := range samples {
		timer.Start()
		cur = chase(buf, cur, perSample)
		ns := timer.StopNs()
		total += ns
		samples[i] = float64(ns) / float64(perSample)
	}
	chaseSink = cur
	return samples, total
}

// chaseSink keeps the chase result alive so the walk cannot be optimized out.
var chaseSink uint64
