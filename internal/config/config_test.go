package config

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/cespare/a"
)

const completeConfig = `
buffer_size_mb = 256
iterations = 2
loops = 3
threads = 4
tests = ["read", "copy"]
pattern = "sequential"
stride_bytes = 128
latency_count = 1000000
latency_samples = 0
json_output = ""
`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "memtool.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCompleteConfig(t *testing.T) {
	conf, err := Load(writeConfig(t, completeConfig))
	Assert(t, err, IsNil)
	Assert(t, conf.BufferSizeMB, Equals, 256)
	Assert(t, conf.Threads, Equals, 4)
	Assert(t, conf.Tests, DeepEquals, []string{"read", "copy"})
}

func TestLoadRejectsMissingField(t *testing.T) {
	// Drop buffer_size_mb: absent must be an error, not a silent zero.
	const noBufferSize = `
iterations = 2
loops = 3
threads = 4
tests = ["read"]
pattern = "sequential"
stride_bytes = 128
latency_count = 1000000
latency_samples = 0
json_output = ""
`
	_, err := Load(writeConfig(t, noBufferSize))
	Assert(t, err, NotNil)
	Assert(t, err.Error(), StringContains, "buffer_size_mb")
}

func TestLoadRejectsUnknownField(t *testing.T) {
	_, err := Load(writeConfig(t, completeConfig+"\nbufer_size = 3\n"))
	Assert(t, err, NotNil)
	Assert(t, err.Error(), StringContains, "bufer_size")
}

func TestValidate(t *testing.T) {
	conf := Default()
	Assert(t, conf.Validate(), IsNil)

	bad := *conf
	bad.BufferSizeMB = 0
	Assert(t, bad.Validate(), NotNil)

	bad = *conf
	bad.Tests = []string{"read", "scribble"}
	Assert(t, bad.Validate(), NotNil)

	bad = *conf
	bad.Tests = nil
	Assert(t, bad.Validate(), NotNil)

	bad = *conf
	bad.Loops = -1
	Assert(t, bad.Validate(), NotNil)
}
