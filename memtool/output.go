package main

import (
	"encoding/json"
	"fmt"
	"os"

	humanize "github.com/dustin/go-humanize"

	"github.com/timoheimonen/macOS-memory-benchmark-sub000/membench"
)

func printReport(report *RunReport) {
	fmt.Println()
	fmt.Printf("memtool run on %d logical / %d physical cores, %s buffer\n",
		report.System.LogicalCores, report.System.PhysicalCores,
		formatBytes(report.Config.BufferSizeMB<<20))
	fmt.Println()
	for _, result := range report.Results {
		if result.Skipped != "" {
			fmt.Printf("%-8s skipped: %s\n", result.Name, result.Skipped)
			continue
		}
		fmt.Printf("%-8s", result.Name)
		printSummaryLine(result.Unit, result.Summary)
		if result.Samples != nil {
			fmt.Printf("%-8s", "")
			fmt.Print("sub-runs: ")
			printSummaryLine(result.Unit, *result.Samples)
		}
	}
}

func printSummary(unit string, s membench.Summary) {
	fmt.Printf("  mean %.2f %s over %d loops\n", s.Mean, unit, s.N)
	fmt.Printf("  min %.2f / p50 %.2f / p95 %.2f / p99 %.2f / max %.2f\n",
		s.Min, s.P50, s.P95, s.P99, s.Max)
}

func printSummaryLine(unit string, s membench.Summary) {
	fmt.Printf("mean %8.2f %s  (min %.2f, p50 %.2f, p95 %.2f, max %.2f, n=%d)\n",
		s.Mean, unit, s.Min, s.P50, s.P95, s.Max, s.N)
}

func writeJSONReport(filename string, report *RunReport) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}

func formatBytes(n int) string { return humanize.IBytes(uint64(n)) }

func formatCount(n int) string { return humanize.Comma(int64(n)) }
