package membench

import (
	"math/rand"
	"testing"
	"unsafe"

	. "github.com/cespare/a"
)

func TestAllocateBuffer(t *testing.T) {
	buf, err := AllocateBuffer(1 << 20)
	Assert(t, err, IsNil)
	defer buf.Close()

	Assert(t, buf.Size(), Equals, 1<<20)
	Assert(t, len(buf.Bytes()), Equals, 1<<20)
	// The partitioner's offset arithmetic assumes mappings start on a cache line; pages are much bigger
	// than lines, so this holds whenever the mapping is page-aligned.
	base := uintptr(unsafe.Pointer(&buf.Bytes()[0]))
	Assert(t, base%CacheLine, Equals, uintptr(0))
}

func TestAllocateBufferRejectsBadSizes(t *testing.T) {
	_, err := AllocateBuffer(0)
	Assert(t, err, NotNil)
	_, err = AllocateBuffer(-5)
	Assert(t, err, NotNil)
}

func TestBufferFill(t *testing.T) {
	buf, err := AllocateBuffer(256*1024 + 9)
	Assert(t, err, IsNil)
	defer buf.Close()

	buf.Fill(^uint64(0), 4)
	b := buf.Bytes()
	for i, v := range b {
		if v != 0xff {
			t.Fatalf("byte %d not filled", i)
		}
	}
}

func TestFillRestoresPatternAfterChainSetup(t *testing.T) {
	// Chain setup scribbles offsets over the buffer; refilling must leave no chain word behind, so a
	// bandwidth test run after a latency test sees only the fill.
	buf, err := AllocateBuffer(1 << 16)
	Assert(t, err, IsNil)
	defer buf.Close()

	buf.Fill(FillPattern, 2)
	_, err = SetupLatencyChain(buf.Bytes(), LatencyStride, rand.New(rand.NewSource(1)))
	Assert(t, err, IsNil)

	buf.Fill(FillPattern, 2)
	b := buf.Bytes()
	for i := 0; i+wordSize <= len(b); i += wordSize {
		if loadWord(b, i) != FillPattern {
			t.Fatalf("word at %d not restored after refill", i)
		}
	}
}
