package membench

// This file defines an interface for a simple logger that is a subset of log.Logger. This is so that tests
// can install a dummy logger that doesn't print anything while the benchmark exercises degenerate inputs.

import (
	"log"
	"os"
)

type Logger interface {
	Print(v ...interface{})
	Printf(format string, v ...interface{})
	Println(v ...interface{})
}

// Log is the package-wide logger. Swap it out before calling into the package if stderr isn't where
// messages should go.
var Log Logger = log.New(os.Stderr, "[membench] ", log.Lshortfile)

type nopLogger struct{}

func (nopLogger) Print(v ...interface{})                 {}
func (nopLogger) Printf(format string, v ...interface{}) {}
func (nopLogger) Println(v ...interface{})               {}
