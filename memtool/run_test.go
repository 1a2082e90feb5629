package main

import (
	"testing"

	. "github.com/cespare/a"
)

func TestBufferMBNeeded(t *testing.T) {
	// Only a copy test allocates a second buffer.
	Assert(t, bufferMBNeeded([]string{"read", "write", "latency"}, 512), Equals, uint64(512))
	Assert(t, bufferMBNeeded([]string{"read", "copy"}, 512), Equals, uint64(1024))
	Assert(t, bufferMBNeeded([]string{"copy"}, 256), Equals, uint64(512))
	Assert(t, bufferMBNeeded(nil, 256), Equals, uint64(256))
}
