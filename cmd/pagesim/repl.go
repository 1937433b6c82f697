package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/sibexico/pagesim/paging"
)

// session holds the REPL's mutable settings between commands.
type session struct {
	cfg       *paging.Config
	algorithm string
	frames    int
	out       io.Writer
	width     int
}

func newSession(cfg *paging.Config, out io.Writer) *session {
	return &session{
		cfg:       cfg,
		algorithm: paging.AlgorithmFIFO,
		frames:    cfg.DefaultFrames,
		out:       out,
	}
}

// exec runs one input line and reports whether the session should end.
func (s *session) exec(line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd := strings.ToLower(fields[0])
	arg := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), fields[0]))

	switch cmd {
	case "quit", "exit", "q":
		return true
	case "help", "?":
		printReplHelp(s.out)
	case "show":
		fmt.Fprintf(s.out, "algorithm=%s frames=%d lookahead=%d training=%s\n",
			s.algorithm, s.frames, s.cfg.Lookahead, s.cfg.TrainingMode)
	case "frames":
		n, err := strconv.Atoi(arg)
		if err != nil || n <= 0 {
			fmt.Fprintln(s.out, "frames must be a positive integer")
			return false
		}
		s.frames = n
	case "lookahead":
		n, err := strconv.Atoi(arg)
		if err != nil || n <= 0 {
			fmt.Fprintln(s.out, "lookahead must be a positive integer")
			return false
		}
		s.cfg.Lookahead = n
	case "algo", "algorithm":
		name, err := paging.NormalizeAlgorithm(arg)
		if err != nil {
			fmt.Fprintln(s.out, err)
			return false
		}
		s.algorithm = name
	case "training":
		mode, err := paging.ParseTrainingMode(arg)
		if err != nil {
			fmt.Fprintln(s.out, err)
			return false
		}
		s.cfg.TrainingMode = mode.String()
	case "run":
		ref, ok := s.parse(arg)
		if !ok {
			return false
		}
		result, err := paging.Simulate(s.algorithm, ref, s.frames, s.cfg.SimulationOptions()...)
		if err != nil {
			fmt.Fprintln(s.out, err)
			return false
		}
		printTrace(s.out, result, s.frames, s.width)
	case "compare":
		ref, ok := s.parse(arg)
		if !ok {
			return false
		}
		cmp, err := paging.SimulateAll(context.Background(), ref, s.frames, s.cfg.SimulationOptions()...)
		if err != nil {
			fmt.Fprintln(s.out, err)
			return false
		}
		printComparison(s.out, cmp)
	default:
		fmt.Fprintf(s.out, "unknown command %q, type help\n", cmd)
	}
	return false
}

func (s *session) parse(arg string) ([]paging.Page, bool) {
	ref, err := paging.ParseReference(arg)
	if err != nil {
		fmt.Fprintln(s.out, err)
		return nil, false
	}
	if len(ref) > s.cfg.MaxReferenceLength {
		fmt.Fprintf(s.out, "reference string has %d pages, limit is %d\n", len(ref), s.cfg.MaxReferenceLength)
		return nil, false
	}
	return ref, true
}

func replCmd(args []string) int {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printReplUsage(stderr) }

	configPath := fs.String("config", "", "Path to configuration file")
	history := fs.String("history", "", "History file")

	if err := fs.Parse(args); err != nil {
		return flagExit(err)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if *history != "" {
		cfg.HistoryFile = *history
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "pagesim> ",
		HistoryFile:     cfg.HistoryFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer rl.Close()

	s := newSession(cfg, rl.Stdout())
	s.width = outputWidth()
	fmt.Fprintln(s.out, `pagesim interactive mode, type "help" for commands`)

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return 0
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return 0
		}
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		if s.exec(line) {
			return 0
		}
	}
}
