// Memory access kernels. Each one touches a region of a buffer in a fixed pattern. Read kernels fold
// every word they load into an XOR fingerprint and return it, which is what keeps the compiler from
// deleting the loads. All kernels move 8-byte words; a region tail shorter than a word is handled
// byte-wise.

package membench

import (
	"math/rand"
	"unsafe"
)

const (
	wordSize = 8

	// AccessUnit is the number of bytes touched at each strided or random access position.
	AccessUnit = 32
)

func loadWord(b []byte, off int) uint64 {
	return *(*uint64)(unsafe.Pointer(&b[off]))
}

func storeWord(b []byte, off int, v uint64) {
	*(*uint64)(unsafe.Pointer(&b[off])) = v
}

func readRegion(b []byte) uint64 {
	var sum uint64
	n := len(b)
	i := 0
	for ; i+wordSize <= n; i += wordSize {
		sum ^= loadWord(b, i)
	}
	for ; i < n; i++ {
		sum ^= uint64(b[i])
	}
	return sum
}

func readReverse(b []byte) uint64 {
	// Word boundaries are the same as readRegion's (multiples of wordSize from the start), so forward and
	// reverse scans fold identical terms: the sub-word tail goes byte-wise first, then words walk down.
	var sum uint64
	n := len(b)
	last := n - n%wordSize
	for i := n - 1; i >= last; i-- {
		sum ^= uint64(b[i])
	}
	for i := last - wordSize; i >= 0; i -= wordSize {
		sum ^= loadWord(b, i)
	}
	return sum
}

func writeRegion(b []byte, pattern uint64) {
	n := len(b)
	i := 0
	for ; i+wordSize <= n; i += wordSize {
		storeWord(b, i, pattern)
	}
	for ; i < n; i++ {
		b[i] = byte(pattern)
	}
}

func writeReverse(b []byte, pattern uint64) {
	i := len(b)
	for ; i >= wordSize; i -= wordSize {
		storeWord(b, i-wordSize, pattern)
	}
	for i > 0 {
		i--
		b[i] = byte(pattern)
	}
}

// copyRegion is the builtin copy, which the runtime implements as an optimized memmove.
func copyRegion(dst, src []byte) {
	copy(dst, src)
}

// strideAccessCount is the number of access-unit touches one strided pass over n bytes makes:
// ceil(n/stride).
func strideAccessCount(n, stride int) int {
	if n <= 0 || stride <= 0 {
		return 0
	}
	return (n + stride - 1) / stride
}

func readStrided(b []byte, stride int) uint64 {
	var sum uint64
	for off := 0; off < len(b); off += stride {
		end := off + AccessUnit
		if end > len(b) {
			end = len(b)
		}
		sum ^= readRegion(b[off:end])
	}
	return sum
}

func writeStrided(b []byte, stride int, pattern uint64) {
	for off := 0; off < len(b); off += stride {
		end := off + AccessUnit
		if end > len(b) {
			end = len(b)
		}
		writeRegion(b[off:end], pattern)
	}
}

func copyStrided(dst, src []byte, stride int) {
	for off := 0; off < len(dst); off += stride {
		end := off + AccessUnit
		if end > len(dst) {
			end = len(dst)
		}
		copy(dst[off:end], src[off:end])
	}
}

// randomOffsets returns a shuffled list of access-unit-aligned offsets into a region of n bytes, one per
// unit, so a full pass touches each unit exactly once in random order.
func randomOffsets(n int, rng *rand.Rand) []int {
	offsets := make([]int, n/AccessUnit)
	for i := range offsets {
		offsets[i] = i * AccessUnit
	}
	rng.Shuffle(len(offsets), func(i, j int) { offsets[i], offsets[j] = offsets[j], offsets[i] })
	return offsets
}

func readRandom(b []byte, offsets []int) uint64 {
	var sum uint64
	for _, off := range offsets {
		sum ^= readRegion(b[off : off+AccessUnit])
	}
	return sum
}

func writeRandom(b []byte, offsets []int, pattern uint64) {
	for _, off := range offsets {
		writeRegion(b[off:off+AccessUnit], pattern)
	}
}

func copyRandom(dst, src []byte, offsets []int) {
	for _, off := range offsets {
		copy(dst[off:off+AccessUnit], src[off:off+AccessUnit])
	}
}

// chase follows the offset chain embedded in b for count hops, starting at the node at byte offset start.
// It returns the final offset, both so a caller can resume where it left off and so the loads have a
// visible result.
func chase(b []byte, start uint64, count int) uint64 {
	cur := start
	for i := 0; i < count; i++ {
		cur = loadWord(b, int(cur))
	}
	return cur
}
