// Chunk arithmetic: splitting a buffer among worker threads without gaps, overlaps, or false sharing at
// the seams.

package membench

// CacheLine is the assumed cache line size in bytes. 64 is right for effectively every current x86 and
// ARM part.
const CacheLine = 64

// A Chunk is one worker's assigned sub-range of a buffer.
type Chunk struct {
	Offset int
	Length int
}

// partitionChunks divides totalSize bytes among threadCount workers using integer division. The first
// totalSize%threadCount chunks are one byte longer than the rest, so the chunk lengths always sum to
// exactly totalSize and the skew is deterministic. Degenerate inputs (nothing to process, or no workers)
// yield nil, which the launcher reports as "no work". Zero-length chunks (threadCount > totalSize) are
// omitted rather than treated as errors.
func partitionChunks(totalSize, threadCount int) []Chunk {
	if totalSize <= 0 || threadCount <= 0 {
		return nil
	}
	base := totalSize / threadCount
	remainder := totalSize % threadCount
	chunks := make([]Chunk, 0, threadCount)
	offset := 0
	for i := 0; i < threadCount; i++ {
		length := base
		if i < remainder {
			length++
		}
		if length == 0 {
			continue
		}
		chunks = append(chunks, Chunk{Offset: offset, Length: length})
		offset += length
	}
	return chunks
}

// alignChunks rounds each chunk's start up to the next cache line boundary so that two workers never share
// a line at a seam, and folds the skipped-over gap bytes into the previous chunk so that every byte of the
// original range stays covered exactly once. The first chunk keeps its start as-is: the buffer allocator
// hands out page-aligned regions, so offset alignment is address alignment and offset 0 is already on a
// line boundary. A chunk whose aligned start would land at or past its end keeps its unaligned start
// instead; alignment must never empty a chunk that had bytes to process.
func alignChunks(chunks []Chunk) []Chunk {
	for i := 1; i < len(chunks); i++ {
		end := chunks[i].Offset + chunks[i].Length
		aligned := roundUp(chunks[i].Offset, CacheLine)
		if aligned >= end {
			continue
		}
		gap := aligned - chunks[i].Offset
		chunks[i-1].Length += gap
		chunks[i].Offset = aligned
		chunks[i].Length -= gap
	}
	return chunks
}

func roundUp(n, multiple int) int {
	return (n + multiple - 1) / multiple * multiple
}
