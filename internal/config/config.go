// Package config loads and validates the TOML configuration for a benchmark run.
package config

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config describes one full benchmark run.
type Config struct {
	BufferSizeMB   int      `toml:"buffer_size_mb"`
	Iterations     int      `toml:"iterations"`
	Loops          int      `toml:"loops"`
	Threads        int      `toml:"threads"` // 0 picks one thread per physical core
	Tests          []string `toml:"tests"`
	Pattern        string   `toml:"pattern"`
	StrideBytes    int      `toml:"stride_bytes"`
	LatencyCount   int      `toml:"latency_count"`
	LatencySamples int      `toml:"latency_samples"` // 0 disables per-sample timing
	JSONOutput     string   `toml:"json_output"`     // empty disables the JSON report
}

var knownTests = map[string]bool{
	"read":    true,
	"write":   true,
	"copy":    true,
	"latency": true,
}

func (c *Config) Validate() error {
	if c.BufferSizeMB <= 0 {
		return errors.New("buffer_size_mb must be > 0")
	}
	if c.Iterations <= 0 {
		return errors.New("iterations must be > 0")
	}
	if c.Loops <= 0 {
		return errors.New("loops must be > 0")
	}
	if c.Threads < 0 {
		return errors.New("threads must be >= 0")
	}
	if len(c.Tests) == 0 {
		return errors.New("must list at least one test to run")
	}
	for _, name := range c.Tests {
		if !knownTests[name] {
			return fmt.Errorf("unknown test %q in tests list", name)
		}
	}
	if c.LatencyCount < 0 || c.LatencySamples < 0 {
		return errors.New("latency_count and latency_samples must be >= 0")
	}
	return nil
}

// Load reads filename and rejects both fields we don't recognize and fields the file leaves out, so a
// typoed key fails loudly instead of silently running with a default.
func Load(filename string) (*Config, error) {
	conf := new(Config)
	meta, err := toml.DecodeFile(filename, conf)
	if err != nil {
		return nil, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unrecognized config field %q", undecoded[0])
	}
	if err := checkUndefinedFields(meta, conf); err != nil {
		return nil, err
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// Default is the configuration used when no config file is given.
func Default() *Config {
	return &Config{
		BufferSizeMB: 512,
		Iterations:   3,
		Loops:        5,
		Tests:        []string{"read", "write", "copy", "latency"},
		Pattern:      "sequential",
		LatencyCount: 20e6,
	}
}
