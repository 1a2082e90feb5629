package membench

import (
	"math"
	"math/bits"
	"testing"

	. "github.com/cespare/a"
)

func TestRunReadTestChecksumThreadCountInvariant(t *testing.T) {
	buf := randomBytes(256*1024+13, 99)
	var want uint64
	_, err := RunReadTest(buf, 2, 1, &want, new(Stopwatch), TestOptions{})
	Assert(t, err, IsNil)
	// Two passes over an unchanged buffer must not cancel to zero; the fold rotates between passes.
	Assert(t, want != 0, IsTrue)
	whole := readRegion(buf)
	Assert(t, want, Equals, bits.RotateLeft64(whole, 1)^whole)

	for _, threads := range []int{2, 3, 8} {
		var got uint64
		_, err := RunReadTest(buf, 2, threads, &got, new(Stopwatch), TestOptions{})
		Assert(t, err, IsNil)
		Assert(t, got, Equals, want)
	}
}

func TestReversePatternChecksumThreadCountInvariant(t *testing.T) {
	// A buffer whose size isn't a word multiple leaves a sub-word tail; its fingerprint must still be the
	// same at any thread count, and equal to the forward scan's.
	buf := randomBytes(64*1024+13, 44)
	var want uint64
	_, err := RunReadTest(buf, 1, 1, &want, new(Stopwatch), TestOptions{Pattern: PatternReverse})
	Assert(t, err, IsNil)
	Assert(t, want, Equals, readRegion(buf))

	for _, threads := range []int{2, 4, 7} {
		var got uint64
		_, err := RunReadTest(buf, 1, threads, &got, new(Stopwatch), TestOptions{Pattern: PatternReverse})
		Assert(t, err, IsNil)
		Assert(t, got, Equals, want)
	}
}

func TestRunReadTestPatterns(t *testing.T) {
	buf := randomBytes(64*1024, 5)
	for _, opts := range []TestOptions{
		{Pattern: PatternSequential},
		{Pattern: PatternReverse},
		{Pattern: PatternStrided, Stride: 128},
		{Pattern: PatternRandom},
	} {
		var checksum uint64
		elapsed, err := RunReadTest(buf, 1, 4, &checksum, new(Stopwatch), opts)
		Assert(t, err, IsNil, opts.Pattern.String())
		Assert(t, elapsed > 0, IsTrue)
	}
}

func TestReadUnalignedBackingRegion(t *testing.T) {
	// A region whose base address sits off a cache line boundary must still have every byte (first and
	// last included) folded into the fingerprint exactly once.
	backing := randomBytes(4096, 21)
	region := backing[5 : 5+2000]
	var checksum uint64
	_, err := RunReadTest(region, 1, 4, &checksum, new(Stopwatch), TestOptions{})
	Assert(t, err, IsNil)
	Assert(t, checksum, Equals, readRegion(region))
}

func TestRunReadTestStrideValidation(t *testing.T) {
	buf := make([]byte, 4096)
	_, err := RunReadTest(buf, 1, 2, nil, new(Stopwatch), TestOptions{Pattern: PatternStrided, Stride: 8})
	Assert(t, err, NotNil, "stride below the access unit must be rejected")
	_, err = RunReadTest(buf, 1, 2, nil, new(Stopwatch), TestOptions{Pattern: PatternStrided, Stride: 8192})
	Assert(t, err, NotNil, "stride beyond the buffer must be rejected")
	_, err = RunReadTest(buf, 1, 2, nil, new(Stopwatch), TestOptions{Pattern: PatternStrided, Stride: AccessUnit})
	Assert(t, err, IsNil)
}

func TestRunWriteTestWritesEveryByte(t *testing.T) {
	buf := make([]byte, 100*1024+7)
	elapsed, err := RunWriteTest(buf, 1, 5, new(Stopwatch), TestOptions{})
	Assert(t, err, IsNil)
	Assert(t, elapsed > 0, IsTrue)
	for i, v := range buf {
		if v == 0 {
			t.Fatalf("byte %d not written", i)
		}
	}
}

func TestRunWriteTestNoWork(t *testing.T) {
	elapsed, err := RunWriteTest(nil, 1, 4, new(Stopwatch), TestOptions{})
	Assert(t, err, IsNil)
	Assert(t, elapsed, Equals, 0.0)

	elapsed, err = RunWriteTest(make([]byte, 1024), 1, 0, new(Stopwatch), TestOptions{})
	Assert(t, err, IsNil)
	Assert(t, elapsed, Equals, 0.0)
}

func TestRunCopyTestCorrectness(t *testing.T) {
	const size = 1 << 20
	src := randomBytes(size, 123)
	dst := make([]byte, size)

	elapsed, err := RunCopyTest(dst, src, 1, 4, new(Stopwatch), TestOptions{})
	Assert(t, err, IsNil)
	Assert(t, elapsed > 0, IsTrue)

	bw := CopyBandwidthGBs(size, 1, elapsed)
	Assert(t, bw > 0, IsTrue)
	Assert(t, math.IsInf(bw, 0), IsFalse)
	Assert(t, math.IsNaN(bw), IsFalse)

	// Functional correctness, not just timing: spot-check correspondence across the buffer including both
	// ends and the chunk seams.
	for _, i := range []int{0, 1, 63, 64, size / 4, size / 2, size - 2, size - 1} {
		if dst[i] != src[i] {
			t.Fatalf("dst[%d] = %#x, want %#x", i, dst[i], src[i])
		}
	}
}

func TestRunCopyTestSizeMismatch(t *testing.T) {
	_, err := RunCopyTest(make([]byte, 100), make([]byte, 200), 1, 2, new(Stopwatch), TestOptions{})
	Assert(t, err, NotNil)
}

func TestBandwidthConversionSentinel(t *testing.T) {
	Assert(t, BandwidthGBs(1<<20, 3, 0), Equals, 0.0)
	Assert(t, BandwidthGBs(1<<20, 3, -1), Equals, 0.0)
	Assert(t, CopyBandwidthGBs(1<<20, 3, 0), Equals, 0.0)

	bw := BandwidthGBs(1e9, 2, 1.0)
	Assert(t, bw, Equals, 2.0)
	Assert(t, CopyBandwidthGBs(1e9, 2, 1.0), Equals, 4.0)
}

func TestReadTestIdempotence(t *testing.T) {
	// Two identical runs should land within an order of magnitude of each other; anything else points at
	// gross non-determinism in the harness.
	buf := randomBytes(1<<20, 77)
	run := func() float64 {
		elapsed, err := RunReadTest(buf, 4, 4, nil, new(Stopwatch), TestOptions{})
		Assert(t, err, IsNil)
		Assert(t, elapsed > 0, IsTrue)
		return elapsed
	}
	first := run()
	second := run()
	ratio := first / second
	if ratio < 0.1 || ratio > 10 {
		t.Fatalf("elapsed times differ wildly across identical runs: %g vs %g", first, second)
	}
}
