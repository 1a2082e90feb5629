// Bandwidth test drivers. Each driver partitions the buffer, binds the requested access pattern's kernel
// into a WorkFunc, and hands both to the launcher. Drivers return elapsed seconds; the GB/s conversions
// live in the helpers at the bottom so callers aggregating across loops can keep the raw times.

package membench

import (
	"fmt"
	"math/bits"
	"math/rand"
	"sync/atomic"
)

// Pattern selects the memory access order of a bandwidth test.
type Pattern int

const (
	PatternSequential Pattern = iota
	PatternReverse
	PatternStrided
	PatternRandom
)

func (p Pattern) String() string {
	switch p {
	case PatternSequential:
		return "sequential"
	case PatternReverse:
		return "reverse"
	case PatternStrided:
		return "strided"
	case PatternRandom:
		return "random"
	}
	return fmt.Sprintf("Pattern(%d)", int(p))
}

// ParsePattern maps the CLI/config spelling of a pattern to its value.
func ParsePattern(s string) (Pattern, error) {
	switch s {
	case "sequential", "":
		return PatternSequential, nil
	case "reverse":
		return PatternReverse, nil
	case "strided":
		return PatternStrided, nil
	case "random":
		return PatternRandom, nil
	}
	return 0, fmt.Errorf("unknown access pattern %q", s)
}

// TestOptions carries the per-test knobs beyond buffer/iterations/threads. The zero value requests a
// sequential forward pass.
type TestOptions struct {
	Pattern Pattern
	Stride  int   // strided pattern only; must be in [AccessUnit, buffer size]
	Seed    int64 // random pattern offset shuffle; 0 means a fixed default seed
}

// writePattern is the word written by all write and fill kernels. The value itself is arbitrary; it just
// shouldn't be zero, so stores are distinguishable from untouched pages.
const writePattern uint64 = 0x5aa5f00dcafe1234

const defaultSeed int64 = 0x6d656d62656e6368

func (o TestOptions) seed() int64 {
	if o.Seed != 0 {
		return o.Seed
	}
	return defaultSeed
}

func (o TestOptions) validate(size int) error {
	switch o.Pattern {
	case PatternSequential, PatternReverse, PatternRandom:
	case PatternStrided:
		if o.Stride < AccessUnit || o.Stride > size {
			return fmt.Errorf("stride %d outside valid range [%d, %d]", o.Stride, AccessUnit, size)
		}
	default:
		return fmt.Errorf("unknown access pattern %d", int(o.Pattern))
	}
	return nil
}

// offsetTables precomputes the shuffled offset list for each chunk of a random-pattern test, keyed by
// chunk offset. Generating them before launch keeps the shuffle out of the timed region; deriving each
// chunk's seed from the base seed and the chunk offset keeps a run reproducible at any thread count.
func offsetTables(chunks []Chunk, seed int64) map[int][]int {
	tables := make(map[int][]int, len(chunks))
	for _, chunk := range chunks {
		rng := rand.New(rand.NewSource(seed ^ int64(chunk.Offset)))
		tables[chunk.Offset] = randomOffsets(chunk.Length, rng)
	}
	return tables
}

// RunReadTest reads buf iterations times across threadCount workers and returns the elapsed seconds (the
// sentinel 0 when no work ran). The combined fingerprint of everything read is stored through checksum
// when it is non-nil; it is identical for any thread count over the same buffer contents. Per-iteration
// fingerprints are combined with a rotate-then-XOR fold rather than plain XOR so repeated passes over an
// unchanged buffer can't cancel each other out to zero (rotation distributes over XOR, which is what
// keeps the fold thread-count independent).
func RunReadTest(buf []byte, iterations, threadCount int, checksum *uint64, timer *Stopwatch, opts TestOptions) (float64, error) {
	if err := opts.validate(len(buf)); err != nil {
		return 0, err
	}
	chunks := alignChunks(partitionChunks(len(buf), threadCount))

	var fn WorkFunc
	switch opts.Pattern {
	case PatternSequential:
		fn = func(offset, length, iterations int) uint64 {
			region := buf[offset : offset+length]
			var sum uint64
			for i := 0; i < iterations; i++ {
				sum = bits.RotateLeft64(sum, 1) ^ readRegion(region)
			}
			return sum
		}
	case PatternReverse:
		fn = func(offset, length, iterations int) uint64 {
			region := buf[offset : offset+length]
			var sum uint64
			for i := 0; i < iterations; i++ {
				sum = bits.RotateLeft64(sum, 1) ^ readReverse(region)
			}
			return sum
		}
	case PatternStrided:
		stride := opts.Stride
		fn = func(offset, length, iterations int) uint64 {
			region := buf[offset : offset+length]
			var sum uint64
			for i := 0; i < iterations; i++ {
				sum = bits.RotateLeft64(sum, 1) ^ readStrided(region, stride)
			}
			return sum
		}
	case PatternRandom:
		tables := offsetTables(chunks, opts.seed())
		fn = func(offset, length, iterations int) uint64 {
			region := buf[offset : offset+length]
			offsets := tables[offset]
			var sum uint64
			for i := 0; i < iterations; i++ {
				sum = bits.RotateLeft64(sum, 1) ^ readRandom(region, offsets)
			}
			return sum
		}
	}

	var acc atomic.Uint64
	elapsed := runChunks(chunks, iterations, fn, &acc, timer)
	if checksum != nil {
		*checksum = acc.Load()
	}
	return elapsed, nil
}

// RunWriteTest writes over buf iterations times across threadCount workers and returns the elapsed
// seconds (sentinel 0 when no work ran). Writes produce no fingerprint; the stores are to real mapped
// memory, which is enough to keep them from being elided.
func RunWriteTest(buf []byte, iterations, threadCount int, timer *Stopwatch, opts TestOptions) (float64, error) {
	if err := opts.validate(len(buf)); err != nil {
		return 0, err
	}
	chunks := alignChunks(partitionChunks(len(buf), threadCount))

	var fn WorkFunc
	switch opts.Pattern {
	case PatternSequential:
		fn = func(offset, length, iterations int) uint64 {
			region := buf[offset : offset+length]
			for i := 0; i < iterations; i++ {
				writeRegion(region, writePattern)
			}
			return 0
		}
	case PatternReverse:
		fn = func(offset, length, iterations int) uint64 {
			region := buf[offset : offset+length]
			for i := 0; i < iterations; i++ {
				writeReverse(region, writePattern)
			}
			return 0
		}
	case PatternStrided:
		stride := opts.Stride
		fn = func(offset, length, iterations int) uint64 {
			region := buf[offset : offset+length]
			for i := 0; i < iterations; i++ {
				writeStrided(region, stride, writePattern)
			}
			return 0
		}
	case PatternRandom:
		tables := offsetTables(chunks, opts.seed())
		fn = func(offset, length, iterations int) uint64 {
			region := buf[offset : offset+length]
			offsets := tables[offset]
			for i := 0; i < iterations; i++ {
				writeRandom(region, offsets, writePattern)
			}
			return 0
		}
	}

	return runChunks(chunks, iterations, fn, nil, timer), nil
}

// RunCopyTest copies src into dst iterations times across threadCount workers and returns the elapsed
// seconds (sentinel 0 when no work ran). Source and destination share one chunk set, so src[i] lands in
// dst[i] for every i even after the alignment pass; whatever shift alignment applies to a destination
// chunk applies identically to its source chunk.
func RunCopyTest(dst, src []byte, iterations, threadCount int, timer *Stopwatch, opts TestOptions) (float64, error) {
	if len(dst) != len(src) {
		return 0, fmt.Errorf("copy buffers differ in size: dst %d vs src %d", len(dst), len(src))
	}
	if err := opts.validate(len(dst)); err != nil {
		return 0, err
	}
	chunks := alignChunks(partitionChunks(len(dst), threadCount))

	var fn WorkFunc
	switch opts.Pattern {
	case PatternSequential, PatternReverse:
		// Reverse order doesn't change what memmove does, so both map to the same kernel.
		fn = func(offset, length, iterations int) uint64 {
			d, s := dst[offset:offset+length], src[offset:offset+length]
			for i := 0; i < iterations; i++ {
				copyRegion(d, s)
			}
			return 0
		}
	case PatternStrided:
		stride := opts.Stride
		fn = func(offset, length, iterations int) uint64 {
			d, s := dst[offset:offset+length], src[offset:offset+length]
			for i := 0; i < iterations; i++ {
				copyStrided(d, s, stride)
			}
			return 0
		}
	case PatternRandom:
		tables := offsetTables(chunks, opts.seed())
		fn = func(offset, length, iterations int) uint64 {
			d, s := dst[offset:offset+length], src[offset:offset+length]
			offsets := tables[offset]
			for i := 0; i < iterations; i++ {
				copyRandom(d, s, offsets)
			}
			return 0
		}
	}

	return runChunks(chunks, iterations, fn, nil, timer), nil
}

// BandwidthGBs converts a read or write test's elapsed time into GB/s. The no-work sentinel (and any
// other non-positive elapsed) maps to 0 so callers can't divide by it by accident.
func BandwidthGBs(bytes, iterations int, elapsed float64) float64 {
	if elapsed <= 0 {
		return 0
	}
	return float64(bytes) * float64(iterations) / elapsed / 1e9
}

// CopyBandwidthGBs counts both the read of the source and the write of the destination.
func CopyBandwidthGBs(bytes, iterations int, elapsed float64) float64 {
	return 2 * BandwidthGBs(bytes, iterations, elapsed)
}
