package main

import (
	"flag"
	"fmt"
	"math/rand"
	"time"

	"github.com/timoheimonen/macOS-memory-benchmark-sub000/internal/config"
	"github.com/timoheimonen/macOS-memory-benchmark-sub000/membench"
)

func init() {
	commandsByName["run"] = command{
		description: "run the full benchmark suite (read/write/copy/latency)",
		fn:          run,
	}
}

func run(args []string) {
	flags := flag.NewFlagSet("memtool run", flag.ExitOnError)
	configPath := flags.String("config", "", "TOML config file; defaults apply if omitted")
	jsonPath := flags.String("json", "", "write the report as JSON to this file (overrides config)")
	flags.Parse(args)

	conf := config.Default()
	if *configPath != "" {
		var err error
		conf, err = config.Load(*configPath)
		if err != nil {
			fatalln("loading config:", err)
		}
	}
	if *jsonPath != "" {
		conf.JSONOutput = *jsonPath
	}

	report, err := runSuite(conf)
	if err != nil {
		fatalln(err)
	}
	printReport(report)
	if conf.JSONOutput != "" {
		if err := writeJSONReport(conf.JSONOutput, report); err != nil {
			fatalln("writing JSON report:", err)
		}
		fmt.Printf("\nJSON report written to %s\n", conf.JSONOutput)
	}
}

// A TestResult is one test's values across all loops plus their summary. A skipped test carries the skip
// reason and no values.
type TestResult struct {
	Name    string            `json:"name"`
	Unit    string            `json:"unit"`
	Values  []float64         `json:"values,omitempty"`
	Summary membench.Summary  `json:"summary"`
	Samples *membench.Summary `json:"samples,omitempty"` // latency sub-run distribution, if requested
	Skipped string            `json:"skipped,omitempty"`
}

type RunReport struct {
	Timestamp time.Time            `json:"timestamp"`
	System    *membench.SystemInfo `json:"system"`
	Config    *config.Config       `json:"config"`
	Results   []TestResult         `json:"results"`
}

func runSuite(conf *config.Config) (*RunReport, error) {
	info, err := membench.GatherSystemInfo()
	if err != nil {
		return nil, err
	}

	threads := conf.Threads
	if threads == 0 {
		threads = info.DefaultThreads()
	}
	if threads > info.LogicalCores {
		fmt.Printf("note: capping threads at the %d logical cores available\n", info.LogicalCores)
		threads = info.LogicalCores
	}
	pattern, err := membench.ParsePattern(conf.Pattern)
	if err != nil {
		return nil, err
	}
	opts := membench.TestOptions{Pattern: pattern, Stride: conf.StrideBytes}

	size := conf.BufferSizeMB << 20
	if neededMB := bufferMBNeeded(conf.Tests, conf.BufferSizeMB); neededMB > info.AvailableMB {
		fmt.Printf("warning: %d MB of buffers against %d MB available; expect swapping\n",
			neededMB, info.AvailableMB)
	}

	// A failed main allocation is the one hard error that aborts the whole run.
	buf, err := membench.AllocateBuffer(size)
	if err != nil {
		return nil, err
	}
	defer buf.Close()
	buf.Fill(membench.FillPattern, threads)

	report := &RunReport{
		Timestamp: time.Now(),
		System:    info,
		Config:    conf,
		Results:   make([]TestResult, 0, len(conf.Tests)),
	}

	for _, name := range conf.Tests {
		var result TestResult
		switch name {
		case "read":
			result = bandwidthLoops("read", "GB/s", conf.Loops, func() (float64, error) {
				var checksum uint64
				elapsed, err := membench.RunReadTest(buf.Bytes(), conf.Iterations, threads,
					&checksum, new(membench.Stopwatch), opts)
				return membench.BandwidthGBs(buf.Size(), conf.Iterations, elapsed), err
			})
		case "write":
			result = bandwidthLoops("write", "GB/s", conf.Loops, func() (float64, error) {
				elapsed, err := membench.RunWriteTest(buf.Bytes(), conf.Iterations, threads,
					new(membench.Stopwatch), opts)
				return membench.BandwidthGBs(buf.Size(), conf.Iterations, elapsed), err
			})
		case "copy":
			result = runCopy(buf, conf, threads, opts)
		case "latency":
			result = runLatency(buf, conf)
			// Chain setup overwrote the fill; restore it for any bandwidth test ordered after this one.
			buf.Fill(membench.FillPattern, threads)
		}
		if result.Skipped != "" {
			fmt.Printf("skipping %s test: %s\n", name, result.Skipped)
		}
		report.Results = append(report.Results, result)
	}
	return report, nil
}

// bufferMBNeeded is the total buffer memory the selected tests allocate: the main buffer, plus a copy
// destination of the same size when a copy test is in the list.
func bufferMBNeeded(tests []string, sizeMB int) uint64 {
	for _, name := range tests {
		if name == "copy" {
			return uint64(2 * sizeMB)
		}
	}
	return uint64(sizeMB)
}

// bandwidthLoops runs one bandwidth test loops times and aggregates. An error from the driver is a
// configuration-class problem (e.g. stride out of range) that would fail every loop the same way, so the
// test is marked skipped on the first one.
func bandwidthLoops(name, unit string, loops int, fn func() (float64, error)) TestResult {
	result := TestResult{Name: name, Unit: unit}
	progress := NewProgress(name, loops)
	for i := 0; i < loops; i++ {
		value, err := fn()
		if err != nil {
			return TestResult{Name: name, Unit: unit, Skipped: err.Error()}
		}
		result.Values = append(result.Values, value)
		progress.Add(1)
	}
	result.Summary = membench.Summarize(result.Values)
	return result
}

func runCopy(src *membench.Buffer, conf *config.Config, threads int, opts membench.TestOptions) TestResult {
	dst, err := membench.AllocateBuffer(src.Size())
	if err != nil {
		return TestResult{Name: "copy", Unit: "GB/s", Skipped: err.Error()}
	}
	defer dst.Close()
	dst.Fill(0, threads)

	return bandwidthLoops("copy", "GB/s", conf.Loops, func() (float64, error) {
		elapsed, err := membench.RunCopyTest(dst.Bytes(), src.Bytes(), conf.Iterations, threads,
			new(membench.Stopwatch), opts)
		return membench.CopyBandwidthGBs(src.Size(), conf.Iterations, elapsed), err
	})
}

func runLatency(buf *membench.Buffer, conf *config.Config) TestResult {
	result := TestResult{Name: "latency", Unit: "ns/access"}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	if _, err := membench.SetupLatencyChain(buf.Bytes(), membench.LatencyStride, rng); err != nil {
		return TestResult{Name: "latency", Unit: "ns/access", Skipped: err.Error()}
	}

	count := conf.LatencyCount
	if count == 0 {
		count = config.Default().LatencyCount
	}
	var allSamples []float64
	progress := NewProgress("latency", conf.Loops)
	for i := 0; i < conf.Loops; i++ {
		timer := new(membench.Stopwatch)
		if conf.LatencySamples > 0 {
			samples, _ := membench.RunLatencyTestSampled(buf.Bytes(), count, conf.LatencySamples, timer)
			allSamples = append(allSamples, samples...)
			result.Values = append(result.Values, membench.Summarize(samples).Mean)
		} else {
			ns := membench.RunLatencyTest(buf.Bytes(), count, timer)
			result.Values = append(result.Values, float64(ns)/float64(count))
		}
		progress.Add(1)
	}
	result.Summary = membench.Summarize(result.Values)
	if len(allSamples) > 0 {
		samples := membench.Summarize(allSamples)
		result.Samples = &samples
	}
	return result
}
