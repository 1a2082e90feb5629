package membench

import (
	"fmt"

	"github.com/cespare/wait"
	mmap "github.com/edsrzf/mmap-go"
)

// A Buffer is a page-aligned anonymous memory mapping. The test drivers only ever borrow its bytes; the
// Buffer owns the mapping and releases it in Close.
type Buffer struct {
	m mmap.MMap
}

// AllocateBuffer maps size bytes of anonymous memory. Mappings are page-aligned, so a byte offset into
// the buffer is cache-line aligned exactly when the offset itself is; the chunk partitioner relies on
// this.
func AllocateBuffer(size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("buffer size must be positive; got %d", size)
	}
	m, err := mmap.MapRegion(nil, size, mmap.RDWR, mmap.ANON, 0)
	if err != nil {
		return nil, fmt.Errorf("mapping %d anonymous bytes: %s", size, err)
	}
	return &Buffer{m: m}, nil
}

func (b *Buffer) Bytes() []byte { return b.m }
func (b *Buffer) Size() int     { return len(b.m) }

// Close unmaps the buffer. The bytes must not be touched afterwards.
func (b *Buffer) Close() error { return b.m.Unmap() }

// Fill writes pattern over the whole buffer using parallelism workers. Running it once before a timed
// test faults every page in, so page-fault cost doesn't land inside a measurement.
func (b *Buffer) Fill(pattern uint64, parallelism int) {
	chunks := alignChunks(partitionChunks(len(b.m), parallelism))
	var group wait.Group
	for _, chunk := range chunks {
		region := b.m[chunk.Offset : chunk.Offset+chunk.Length]
		group.Go(func(quit <-chan struct{}) error {
			writeRegion(region, pattern)
			return nil
		})
	}
	group.Wait()
}

// FillPattern is the default Fill value used by the CLI before read tests.
const FillPattern = writePattern
