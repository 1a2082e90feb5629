// The synchronized launcher: one short-lived worker per chunk, a shared start gate so timing begins before
// any worker touches memory, and a single XOR merge point for per-worker fingerprints.

package membench

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// A WorkFunc is one access pattern's kernel, closed over the fixed parameters of a single test. It
// processes length bytes starting at offset, iterations times over, and returns an XOR fingerprint of the
// data it read (0 for write-only patterns). The partitioner and launcher are agnostic to which pattern is
// plugged in.
type WorkFunc func(offset, length, iterations int) uint64

// runChunks spawns one worker per chunk, releases them simultaneously, and returns the wall time for all
// of them to finish. Every worker parks on the start gate before touching memory; the timer starts
// strictly before the gate opens, so worker startup cost is charged to the measurement (conservative with
// respect to bandwidth) rather than excluded from it. Workers are spawned, not confirmed parked, when the
// gate opens; a straggler that reaches the gate late simply finds it already open. The timer stops only
// after every worker has been joined, so the elapsed time covers the slowest worker.
//
// Each worker accumulates its fingerprint locally across all iterations and merges it into checksum
// exactly once, at exit. XOR is commutative and associative, so the merge order across workers cannot
// change the result.
//
// The sentinel return value 0 means no worker ran at all; callers must treat it as "no measurement
// performed" and exclude it from statistics rather than deriving a rate from it.
func runChunks(chunks []Chunk, iterations int, fn WorkFunc, checksum *atomic.Uint64, timer *Stopwatch) float64 {
	if len(chunks) == 0 || iterations <= 0 {
		Log.Printf("nothing to run (%d chunks, %d iterations); reporting no measurement", len(chunks), iterations)
		return 0
	}

	gate := make(chan struct{})
	var wg sync.WaitGroup
	for _, chunk := range chunks {
		wg.Add(1)
		go func(chunk Chunk) {
			defer wg.Done()
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
			if err := elevateThreadPriority(); err != nil {
				Log.Printf("could not raise worker thread priority (continuing at default): %s", err)
			}

			<-gate
			local := fn(chunk.Offset, chunk.Length, iterations)
			if checksum != nil {
				mergeChecksum(checksum, local)
			}
		}(chunk)
	}

	timer.Start()
	close(gate)
	wg.Wait()
	return timer.Stop()
}

// mergeChecksum XORs local into the shared accumulator. Relaxed ordering would do here since the value is
// only read after the join barrier, but Go's atomics don't come weaker than sequentially consistent; one
// CAS loop per worker is still far too rare to contend.
func mergeChecksum(checksum *atomic.Uint64, local uint64) {
	for {
		old := checksum.Load()
		if checksum.CompareAndSwap(old, old^local) {
			return
		}
	}
}
