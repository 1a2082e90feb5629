package membench

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// SystemInfo is a one-shot snapshot of the host details the benchmark sizes itself from: thread-count
// defaults, buffer-size sanity checks, and cache-sweep sizes. It is gathered once before a run; nothing
// re-queries it mid-test.
type SystemInfo struct {
	LogicalCores  int
	PhysicalCores int
	AvailableMB   uint64
	L1CacheBytes  int
	L2CacheBytes  int
}

// Fallback cache sizes for platforms that expose no cache topology. Deliberately small so a cache-level
// test buffer still fits inside the corresponding level on any machine from the last decade.
const (
	defaultL1Bytes = 32 << 10
	defaultL2Bytes = 256 << 10
)

func GatherSystemInfo() (*SystemInfo, error) {
	logical, err := cpu.Counts(true)
	if err != nil {
		return nil, fmt.Errorf("counting logical cores: %s", err)
	}
	physical, err := cpu.Counts(false)
	if err != nil || physical <= 0 {
		physical = logical
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil, fmt.Errorf("reading memory stats: %s", err)
	}

	info := &SystemInfo{
		LogicalCores:  logical,
		PhysicalCores: physical,
		AvailableMB:   vm.Available >> 20,
		L1CacheBytes:  defaultL1Bytes,
		L2CacheBytes:  defaultL2Bytes,
	}
	if size, ok := sysfsCacheSize(1); ok {
		info.L1CacheBytes = size
	}
	if size, ok := sysfsCacheSize(2); ok {
		info.L2CacheBytes = size
	}
	return info, nil
}

// DefaultThreads is the worker count used when the user doesn't pick one: one per physical core. Using
// logical cores instead tends to understate per-core bandwidth on SMT machines.
func (s *SystemInfo) DefaultThreads() int {
	if s.PhysicalCores > 0 {
		return s.PhysicalCores
	}
	return 1
}

// sysfsCacheSize reads the data-cache size for the given level from Linux sysfs. On other platforms the
// files don't exist and the fallback defaults stand.
func sysfsCacheSize(level int) (int, bool) {
	indexes, err := filepath.Glob("/sys/devices/system/cpu/cpu0/cache/index*")
	if err != nil || len(indexes) == 0 {
		return 0, false
	}
	for _, dir := range indexes {
		if readSysfsInt(filepath.Join(dir, "level")) != level {
			continue
		}
		typ := readSysfsString(filepath.Join(dir, "type"))
		if typ != "Data" && typ != "Unified" {
			continue
		}
		if size, ok := parseCacheSize(readSysfsString(filepath.Join(dir, "size"))); ok {
			return size, true
		}
	}
	return 0, false
}

func readSysfsString(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}

func readSysfsInt(path string) int {
	n, err := strconv.Atoi(readSysfsString(path))
	if err != nil {
		return -1
	}
	return n
}

// parseCacheSize understands the sysfs size spelling: a number with an optional K or M suffix.
func parseCacheSize(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	mult := 1
	switch {
	case strings.HasSuffix(s, "K"):
		mult = 1 << 10
		s = strings.TrimSuffix(s, "K")
	case strings.HasSuffix(s, "M"):
		mult = 1 << 20
		s = strings.TrimSuffix(s, "M")
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n * mult, true
}
