// memtool is the command-line harness around the membench package: it sizes buffers from the host's
// topology, runs the requested tests, and reports bandwidth/latency numbers on the console and optionally
// as JSON.
package main

import (
	"fmt"
	"os"
	"sort"
)

type command struct {
	description string
	fn          func(args []string)
}

var commandsByName = make(map[string]command)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}
	cmd, ok := commandsByName[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}
	cmd.fn(os.Args[2:])
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s command [options]\n\ncommands:\n", os.Args[0])
	var names []string
	for name := range commandsByName {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %-10s %s\n", name, commandsByName[name].description)
	}
}

func fatalln(args ...interface{}) {
	fmt.Fprintln(os.Stderr, args...)
	os.Exit(1)
}
