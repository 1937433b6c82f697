package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sibexico/pagesim/paging"
)

// flagExit maps a flag parse error to an exit code; -h is not a failure.
func flagExit(err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	return 1
}

// loadConfig reads the optional config file and applies PAGESIM_* overrides.
func loadConfig(path string) (*paging.Config, error) {
	cfg := paging.DefaultConfig()
	if path != "" {
		var err error
		cfg, err = paging.LoadConfigFromFile(path)
		if err != nil {
			return nil, err
		}
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// simFlags are shared by run, compare and export.
type simFlags struct {
	ref        *string
	frames     *int
	algorithm  *string
	lookahead  *int
	training   *string
	configPath *string
}

func registerSimFlags(fs *flag.FlagSet, withAlgorithm bool) *simFlags {
	f := &simFlags{
		ref:        fs.String("ref", "", "Comma-separated reference string"),
		frames:     fs.Int("frames", 0, "Number of physical frames"),
		lookahead:  fs.Int("lookahead", 0, "Predictive lookahead"),
		training:   fs.String("training", "", "Training mode (omniscient, online)"),
		configPath: fs.String("config", "", "Path to configuration file"),
	}
	if withAlgorithm {
		f.algorithm = fs.String("algorithm", "fifo", "Algorithm (fifo, lru, predictive, arc, 2q)")
	}
	return f
}

// resolve turns the flags into a config, parsed reference and frame count.
// Flags given explicitly on the command line override the config even when
// their value is invalid, so the simulation reports the error.
func (f *simFlags) resolve(fs *flag.FlagSet) (*paging.Config, []paging.Page, int, error) {
	cfg, err := loadConfig(*f.configPath)
	if err != nil {
		return nil, nil, 0, err
	}

	set := make(map[string]bool)
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })

	if set["lookahead"] {
		cfg.Lookahead = *f.lookahead
	}
	if *f.training != "" {
		if _, err := paging.ParseTrainingMode(*f.training); err != nil {
			return nil, nil, 0, err
		}
		cfg.TrainingMode = *f.training
	}

	frames := cfg.DefaultFrames
	if set["frames"] {
		frames = *f.frames
	}

	if strings.TrimSpace(*f.ref) == "" {
		return nil, nil, 0, errors.New("-ref is required")
	}
	ref, err := paging.ParseReference(*f.ref)
	if err != nil {
		return nil, nil, 0, err
	}
	if len(ref) > cfg.MaxReferenceLength {
		return nil, nil, 0, fmt.Errorf("reference string has %d pages, limit is %d", len(ref), cfg.MaxReferenceLength)
	}

	return cfg, ref, frames, nil
}

func runCmd(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printRunUsage(stderr) }

	sf := registerSimFlags(fs, true)
	asJSON := fs.Bool("json", false, "Print the result as JSON")

	if err := fs.Parse(args); err != nil {
		return flagExit(err)
	}

	cfg, ref, frames, err := sf.resolve(fs)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	result, err := paging.Simulate(*sf.algorithm, ref, frames, cfg.SimulationOptions()...)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if *asJSON {
		return printJSON(result)
	}

	printTrace(stdout, result, frames, outputWidth())
	return 0
}

func compareCmd(args []string) int {
	fs := flag.NewFlagSet("compare", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printCompareUsage(stderr) }

	sf := registerSimFlags(fs, false)
	asJSON := fs.Bool("json", false, "Print the comparison as JSON")

	if err := fs.Parse(args); err != nil {
		return flagExit(err)
	}

	cfg, ref, frames, err := sf.resolve(fs)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	cmp, err := paging.SimulateAll(context.Background(), ref, frames, cfg.SimulationOptions()...)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if *asJSON {
		return printJSON(cmp)
	}

	printComparison(stdout, cmp)
	return 0
}

func exportCmd(args []string) int {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printExportUsage(stderr) }

	sf := registerSimFlags(fs, true)
	output := fs.String("o", "", "Output file")
	compression := fs.String("compression", "", "none, lz4, snappy or auto")

	if err := fs.Parse(args); err != nil {
		return flagExit(err)
	}

	if *output == "" {
		fmt.Fprintln(stderr, "Error: -o is required")
		return 1
	}

	cfg, ref, frames, err := sf.resolve(fs)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	result, err := paging.Simulate(*sf.algorithm, ref, frames, cfg.SimulationOptions()...)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	codec := cfg.TraceCompression
	if *compression != "" {
		codec = *compression
	}

	var data []byte
	if strings.EqualFold(codec, "auto") {
		data, err = paging.ChooseBestCompression(result)
	} else {
		var ct paging.CompressionType
		if ct, err = paging.ParseCompression(codec); err == nil {
			data, err = paging.EncodeTrace(result, ct)
		}
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if err := os.WriteFile(*output, data, 0644); err != nil {
		fmt.Fprintf(stderr, "Error: failed to write archive: %v\n", err)
		return 1
	}

	stored, _ := paging.ArchiveCompression(data)
	fmt.Fprintf(stdout, "Wrote %s trace (%d steps, %d bytes, %s) to %s\n",
		result.Algorithm, len(result.Steps), len(data), stored, *output)
	return 0
}

func printJSON(v any) int {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
