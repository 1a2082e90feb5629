package main

import (
	"flag"
	"fmt"

	"github.com/timoheimonen/macOS-memory-benchmark-sub000/membench"
)

func init() {
	commandsByName["bandwidth"] = command{
		description: "run a single bandwidth test with explicit parameters",
		fn:          bandwidth,
	}
}

func bandwidth(args []string) {
	flags := flag.NewFlagSet("memtool bandwidth", flag.ExitOnError)
	op := flags.String("op", "read", "operation: read, write, or copy")
	sizeMB := flags.Int("size-mb", 512, "buffer size in MB")
	iterations := flags.Int("iterations", 3, "passes over the buffer per measurement")
	loops := flags.Int("loops", 5, "measurements to aggregate")
	threads := flags.Int("threads", 0, "worker threads; 0 means one per physical core")
	patternName := flags.String("pattern", "sequential", "access pattern: sequential, reverse, strided, random")
	stride := flags.Int("stride", 4*membench.AccessUnit, "byte stride for the strided pattern")
	flags.Parse(args)

	if *sizeMB <= 0 {
		fatalln("-size-mb must be > 0")
	}
	pattern, err := membench.ParsePattern(*patternName)
	if err != nil {
		fatalln(err)
	}
	info, err := membench.GatherSystemInfo()
	if err != nil {
		fatalln(err)
	}
	if *threads == 0 {
		*threads = info.DefaultThreads()
	}
	opts := membench.TestOptions{Pattern: pattern, Stride: *stride}

	size := *sizeMB << 20
	buf, err := membench.AllocateBuffer(size)
	if err != nil {
		fatalln(err)
	}
	defer buf.Close()
	buf.Fill(membench.FillPattern, *threads)

	var dst *membench.Buffer
	if *op == "copy" {
		dst, err = membench.AllocateBuffer(size)
		if err != nil {
			fatalln(err)
		}
		defer dst.Close()
		dst.Fill(0, *threads)
	}

	result := bandwidthLoops(*op, "GB/s", *loops, func() (float64, error) {
		timer := new(membench.Stopwatch)
		switch *op {
		case "read":
			var checksum uint64
			elapsed, err := membench.RunReadTest(buf.Bytes(), *iterations, *threads, &checksum, timer, opts)
			return membench.BandwidthGBs(size, *iterations, elapsed), err
		case "write":
			elapsed, err := membench.RunWriteTest(buf.Bytes(), *iterations, *threads, timer, opts)
			return membench.BandwidthGBs(size, *iterations, elapsed), err
		case "copy":
			elapsed, err := membench.RunCopyTest(dst.Bytes(), buf.Bytes(), *iterations, *threads, timer, opts)
			return membench.CopyBandwidthGBs(size, *iterations, elapsed), err
		}
		return 0, fmt.Errorf("unknown operation %q", *op)
	})
	if result.Skipped != "" {
		fatalln("test skipped:", result.Skipped)
	}
	fmt.Printf("%s %s (%s pattern, %d threads):\n", *op, formatBytes(size), pattern, *threads)
	printSummary(result.Unit, result.Summary)
}
