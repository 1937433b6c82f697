package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/sibexico/pagesim/paging"
)

// outputWidth returns the terminal width of stdout, or 0 when stdout is
// not a terminal and lines should not be truncated.
func outputWidth() int {
	f, ok := stdout.(*os.File)
	if !ok {
		return 0
	}
	if w, ok := terminalWidth(int(f.Fd())); ok {
		return w
	}
	return 0
}

// formatFrames renders resident pages left to right, padding empty frames.
func formatFrames(pages []paging.Page, frames int) string {
	cells := make([]string, 0, frames)
	for _, p := range pages {
		cells = append(cells, strconv.FormatInt(int64(p), 10))
	}
	for len(cells) < frames {
		cells = append(cells, "-")
	}
	return "[" + strings.Join(cells, " ") + "]"
}

func printTrace(w io.Writer, r *paging.Result, frames, width int) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s with %d frames\n", r.Algorithm, frames)

	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Step\tPage\tFrames\tResult")
	for i, s := range r.Steps {
		outcome := "Hit"
		if s.Fault {
			outcome = "Fault"
		}
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\n", i+1, s.Page, formatFrames(s.Frames, frames), outcome)
	}
	tw.Flush()

	fmt.Fprintf(&buf, "Faults: %d  Hits: %d  Fault rate: %.2f%%\n", r.Faults, r.Hits, r.FaultRate*100)
	writeTruncated(w, buf.Bytes(), width)
}

func printComparison(w io.Writer, cmp *paging.Comparison) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Algorithm\tFaults\tHits\tFault rate")
	for _, r := range cmp.Results() {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f%%\n", r.Algorithm, r.Faults, r.Hits, r.FaultRate*100)
	}
	tw.Flush()
	fmt.Fprintf(w, "Recommendation: %s\n", cmp.Recommendation)
}

// writeTruncated cuts each line to width columns; width <= 0 disables it.
func writeTruncated(w io.Writer, text []byte, width int) {
	if width <= 0 {
		w.Write(text)
		return
	}
	for _, line := range strings.SplitAfter(string(text), "\n") {
		if line == "" {
			continue
		}
		body := strings.TrimSuffix(line, "\n")
		if len(body) > width {
			if width > 1 {
				body = body[:width-1] + "~"
			} else {
				body = body[:width]
			}
		}
		io.WriteString(w, body)
		if strings.HasSuffix(line, "\n") {
			io.WriteString(w, "\n")
		}
	}
}
