// Package main provides the pagesim command line tool.
package main

import (
	"fmt"
	"io"
	"os"
)

// Output streams, swapped by tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func main() {
	exitCode := run(os.Args)
	os.Exit(exitCode)
}

// run executes the CLI and returns an exit code.
func run(args []string) int {
	if len(args) < 2 {
		printUsage(stdout)
		return 1
	}

	switch args[1] {
	case "run":
		return runCmd(args[2:])
	case "compare":
		return compareCmd(args[2:])
	case "export":
		return exportCmd(args[2:])
	case "serve":
		return serveCmd(args[2:])
	case "repl":
		return replCmd(args[2:])
	case "version":
		return versionCmd(args[2:])
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", args[1])
		fmt.Fprintln(stderr, "Run 'pagesim help' for usage.")
		return 1
	}
}
