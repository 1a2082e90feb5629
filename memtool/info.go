package main

import (
	"fmt"

	"github.com/timoheimonen/macOS-memory-benchmark-sub000/membench"
)

func init() {
	commandsByName["info"] = command{
		description: "print the host topology the benchmark sizes itself from",
		fn:          printInfo,
	}
}

func printInfo(args []string) {
	info, err := membench.GatherSystemInfo()
	if err != nil {
		fatalln(err)
	}
	fmt.Printf("logical cores:    %d\n", info.LogicalCores)
	fmt.Printf("physical cores:   %d\n", info.PhysicalCores)
	fmt.Printf("available memory: %d MB\n", info.AvailableMB)
	fmt.Printf("L1 data cache:    %s\n", formatBytes(info.L1CacheBytes))
	fmt.Printf("L2 cache:         %s\n", formatBytes(info.L2CacheBytes))
	fmt.Printf("default threads:  %d\n", info.DefaultThreads())
}
