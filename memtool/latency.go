package main

import (
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/timoheimonen/macOS-memory-benchmark-sub000/membench"
)

func init() {
	commandsByName["latency"] = command{
		description: "measure memory access latency by pointer chasing",
		fn:          latency,
	}
}

func latency(args []string) {
	flags := flag.NewFlagSet("memtool latency", flag.ExitOnError)
	sizeMB := flags.Int("size-mb", 512, "buffer size in MB")
	count := flags.Int("count", 20e6, "chain dereferences per measurement")
	samples := flags.Int("samples", 0, "split each measurement into this many timed sub-runs (0 disables)")
	stride := flags.Int("stride", membench.LatencyStride, "byte distance between chain nodes")
	loops := flags.Int("loops", 5, "measurements to aggregate")
	flags.Parse(args)

	if *sizeMB <= 0 {
		fatalln("-size-mb must be > 0")
	}
	buf, err := membench.AllocateBuffer(*sizeMB << 20)
	if err != nil {
		fatalln(err)
	}
	defer buf.Close()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	nodes, err := membench.SetupLatencyChain(buf.Bytes(), *stride, rng)
	if err != nil {
		fatalln(err)
	}
	fmt.Printf("latency: %s buffer, %s chain nodes at stride %d, %s accesses per loop\n",
		formatBytes(buf.Size()), formatCount(nodes), *stride, formatCount(*count))

	var values, allSamples []float64
	for i := 0; i < *loops; i++ {
		timer := new(membench.Stopwatch)
		if *samples > 0 {
			perLoop, _ := membench.RunLatencyTestSampled(buf.Bytes(), *count, *samples, timer)
			allSamples = append(allSamples, perLoop...)
			values = append(values, membench.Summarize(perLoop).Mean)
		} else {
			ns := membench.RunLatencyTest(buf.Bytes(), *count, timer)
			values = append(values, float64(ns)/float64(*count))
		}
	}
	printSummary("ns/access", membench.Summarize(values))
	if len(allSamples) > 0 {
		fmt.Println("sub-run distribution:")
		printSummary("ns/access", membench.Summarize(allSamples))
	}
}
