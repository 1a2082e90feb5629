package main

import (
	"flag"
	"fmt"

	"github.com/timoheimonen/macOS-memory-benchmark-sub000/membench"
)

func init() {
	commandsByName["cache"] = command{
		description: "sweep read/write bandwidth at L1, L2, and an optional custom working-set size",
		fn:          cache,
	}
}

// targetTraffic is how many bytes each cache-level measurement should move in total. Small working sets
// get proportionally more iterations so the measurement isn't dominated by timer resolution.
const targetTraffic = 4 << 30

func cache(args []string) {
	flags := flag.NewFlagSet("memtool cache", flag.ExitOnError)
	customKB := flags.Int("size-kb", 0, "additional custom working-set size in KB (0 for none)")
	threads := flags.Int("threads", 1, "worker threads; cache level tests default to one")
	loops := flags.Int("loops", 5, "measurements to aggregate per size")
	flags.Parse(args)

	info, err := membench.GatherSystemInfo()
	if err != nil {
		fatalln(err)
	}

	type level struct {
		name string
		size int
	}
	levels := []level{
		{"L1", info.L1CacheBytes / 2},
		{"L2", info.L2CacheBytes / 2},
	}
	if *customKB > 0 {
		levels = append(levels, level{"custom", *customKB << 10})
	}

	for _, lvl := range levels {
		buf, err := membench.AllocateBuffer(lvl.size)
		if err != nil {
			fmt.Printf("skipping %s sweep: %s\n", lvl.name, err)
			continue
		}
		buf.Fill(membench.FillPattern, *threads)

		iterations := targetTraffic / lvl.size
		if iterations < 1 {
			iterations = 1
		}
		fmt.Printf("%s (%s buffer, %d iterations):\n", lvl.name, formatBytes(lvl.size), iterations)

		read := bandwidthLoops("read", "GB/s", *loops, func() (float64, error) {
			var checksum uint64
			elapsed, err := membench.RunReadTest(buf.Bytes(), iterations, *threads, &checksum,
				new(membench.Stopwatch), membench.TestOptions{})
			return membench.BandwidthGBs(lvl.size, iterations, elapsed), err
		})
		fmt.Print("  read:  ")
		printSummaryLine(read.Unit, read.Summary)

		write := bandwidthLoops("write", "GB/s", *loops, func() (float64, error) {
			elapsed, err := membench.RunWriteTest(buf.Bytes(), iterations, *threads,
				new(membench.Stopwatch), membench.TestOptions{})
			return membench.BandwidthGBs(lvl.size, iterations, elapsed), err
		})
		fmt.Print("  write: ")
		printSummaryLine(write.Unit, write.Summary)

		buf.Close()
	}
}
