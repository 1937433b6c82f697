package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage information to the given writer.
func printUsage(w io.Writer) {
	fmt.Fprint(w, `pagesim - page replacement simulator

Usage:
  pagesim <command> [options]

Commands:
  run         Simulate one algorithm and print its trace
  compare     Run FIFO, LRU and the predictive engine side by side
  export      Write a compressed trace archive
  serve       Start the HTTP API
  repl        Interactive simulator prompt
  version     Show version information

Use "pagesim <command> -h" for more information about a command.
`)
}

func printRunUsage(w io.Writer) {
	fmt.Fprint(w, `Simulate one algorithm and print its trace

Usage:
  pagesim run -ref <pages> [options]

Options:
  -ref string
        Comma-separated reference string, e.g. "7,0,1,2,0,3"
  -frames int
        Number of physical frames (default from config)
  -algorithm string
        fifo, lru, predictive, arc or 2q (default "fifo")
  -lookahead int
        Forecast length of the predictive engine (default from config)
  -training string
        omniscient or online (default from config)
  -config string
        Path to configuration file
  -json
        Print the result as JSON
`)
}

func printCompareUsage(w io.Writer) {
	fmt.Fprint(w, `Run FIFO, LRU and the predictive engine side by side

Usage:
  pagesim compare -ref <pages> [options]

Options:
  -ref string
        Comma-separated reference string
  -frames int
        Number of physical frames (default from config)
  -lookahead int
        Forecast length of the predictive engine (default from config)
  -training string
        omniscient or online (default from config)
  -config string
        Path to configuration file
  -json
        Print the comparison as JSON
`)
}

func printExportUsage(w io.Writer) {
	fmt.Fprint(w, `Write a compressed trace archive for one run

Usage:
  pagesim export -ref <pages> -o <file> [options]

Options:
  -ref string
        Comma-separated reference string
  -o string
        Output file
  -frames int
        Number of physical frames (default from config)
  -algorithm string
        fifo, lru, predictive, arc or 2q (default "fifo")
  -compression string
        none, lz4, snappy or auto (default from config)
  -config string
        Path to configuration file
`)
}

func printServeUsage(w io.Writer) {
	fmt.Fprint(w, `Start the HTTP API

Usage:
  pagesim serve [options]

Options:
  -config string
        Path to configuration file
  -addr string
        Listen address (overrides config, default ":8000")
`)
}

func printReplUsage(w io.Writer) {
	fmt.Fprint(w, `Interactive simulator prompt

Usage:
  pagesim repl [options]

Options:
  -config string
        Path to configuration file
  -history string
        History file (overrides config)
`)
}

func printReplHelp(w io.Writer) {
	fmt.Fprint(w, `Commands:
  run <pages>         simulate the current algorithm, e.g. run 1,2,3,1
  compare <pages>     run all three algorithms
  frames <n>          set the number of frames
  algo <name>         set the algorithm (fifo, lru, predictive, arc, 2q)
  lookahead <n>       set the predictive lookahead
  training <mode>     set training mode (omniscient, online)
  show                print current settings
  help                this message
  quit                leave
`)
}

func printVersionUsage(w io.Writer) {
	fmt.Fprint(w, `Show version information

Usage:
  pagesim version [options]

Options:
  -short
        Show only version number
`)
}
