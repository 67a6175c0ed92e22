package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ironsheep/page-overlay/internal/config"
	"github.com/ironsheep/page-overlay/internal/logging"
	"github.com/ironsheep/page-overlay/internal/pagexml"
	"github.com/ironsheep/page-overlay/internal/report"
	"github.com/ironsheep/page-overlay/internal/visualizer"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const (
	exitOK    = 0
	exitError = 1
)

var errUsage = errors.New("usage error")

type cliOptions struct {
	name       string
	all        bool
	fontSize   float64
	stats      bool
	noOverlays bool
	noStats    bool
	configPath string
	workers    int

	// set records which flags appeared on the command line.
	set map[string]bool
}

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("page-overlay %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage(os.Stdout)
			return
		}
	}

	os.Exit(run(os.Args[1:], os.Stderr))
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "page-overlay - draw PAGE XML text regions over page scans")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  page-overlay <name> [--font-size N] [--stats]")
	fmt.Fprintln(w, "  page-overlay --all [--font-size N] [--no-overlays] [--no-stats] [--workers N]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Reads images/<name>.jpg and xml/<name>.xml and writes output/<name>_overlay.jpg.")
	fmt.Fprintln(w, "Batch mode also writes output/region_counts.tsv and output/region_sequences.tsv.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --all              Process every XML file in the xml directory")
	fmt.Fprintln(w, "  --font-size N      Label font size in pixels (default 60)")
	fmt.Fprintln(w, "  --stats            Single mode: also write the statistics files")
	fmt.Fprintln(w, "  --no-overlays      Batch mode: skip overlay images")
	fmt.Fprintln(w, "  --no-stats         Batch mode: skip the statistics files")
	fmt.Fprintln(w, "  --workers N        Batch mode: number of parallel workers (default: CPU count)")
	fmt.Fprintln(w, "  --config FILE      YAML file overriding directories, colors and fonts")
	fmt.Fprintln(w, "  --version, -v      Print version information")
	fmt.Fprintln(w, "  --help, -h         Print this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables:")
	fmt.Fprintf(w, "  %s=debug    Override the log level\n", config.LogLevelEnv)
}

// parseArgs accepts flags before and after the positional document name.
func parseArgs(args []string, stderr io.Writer) (*cliOptions, error) {
	opts := &cliOptions{set: make(map[string]bool)}

	fs := flag.NewFlagSet("page-overlay", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(stderr) }
	fs.BoolVar(&opts.all, "all", false, "process every XML file")
	fs.Float64Var(&opts.fontSize, "font-size", 0, "label font size")
	fs.BoolVar(&opts.stats, "stats", false, "write statistics files in single mode")
	fs.BoolVar(&opts.noOverlays, "no-overlays", false, "skip overlay images in batch mode")
	fs.BoolVar(&opts.noStats, "no-stats", false, "skip statistics files in batch mode")
	fs.StringVar(&opts.configPath, "config", "", "YAML config file")
	fs.IntVar(&opts.workers, "workers", 0, "batch worker count")

	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			break
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	switch {
	case len(positional) > 1:
		return nil, fmt.Errorf("%w: expected one document name, got %d", errUsage, len(positional))
	case len(positional) == 1 && opts.all:
		return nil, fmt.Errorf("%w: a document name cannot be combined with --all", errUsage)
	case len(positional) == 0 && !opts.all:
		return nil, fmt.Errorf("%w: a document name or --all is required", errUsage)
	}
	if len(positional) == 1 {
		opts.name = positional[0]
	}

	if opts.all {
		if opts.set["stats"] {
			return nil, fmt.Errorf("%w: --stats is only valid for a single document", errUsage)
		}
	} else {
		for _, name := range []string{"no-overlays", "no-stats", "workers"} {
			if opts.set[name] {
				return nil, fmt.Errorf("%w: --%s is only valid with --all", errUsage, name)
			}
		}
	}

	if opts.set["font-size"] && opts.fontSize <= 0 {
		return nil, fmt.Errorf("%w: --font-size must be positive", errUsage)
	}
	return opts, nil
}

func run(args []string, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "page-overlay: %v\n", err)
		if errors.Is(err, errUsage) {
			printUsage(stderr)
		}
		return exitError
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "page-overlay: %v\n", err)
		return exitError
	}
	if opts.set["font-size"] {
		cfg.FontSize = opts.fontSize
	}
	if opts.set["workers"] {
		cfg.Workers = opts.workers
	}

	// Batch mode only reports problems unless asked otherwise.
	level := logging.LevelInfo
	if opts.all {
		level = logging.LevelWarn
	}
	logging.SetLevel(cfg.ResolveLogLevel(level))
	logging.Debugf("page-overlay %s (built %s, commit %s)", Version, BuildTime, GitCommit)

	visualizer.EnsureDirs(cfg)

	if opts.all {
		return runBatch(cfg, opts)
	}
	return runSingle(cfg, opts)
}

func runSingle(cfg *config.Config, opts *cliOptions) int {
	proc, err := visualizer.New(cfg)
	if err != nil {
		logging.Errorf("%v", err)
		return exitError
	}
	defer proc.Close()

	res, err := proc.Process(opts.name, visualizer.Options{CollectStats: true, CreateOverlay: true})
	if err != nil {
		logging.Errorf("Error processing %s: %v", opts.name, err)
		logging.Errorf("Processing failed")
		return exitError
	}

	if opts.stats {
		countsPath, seqPath := reportPaths(cfg)
		if err := report.WriteCounts(countsPath, []pagexml.CountRecord{*res.Counts}); err != nil {
			logging.Errorf("Error writing statistics: %v", err)
			return exitError
		}
		if err := report.WriteSequences(seqPath, []pagexml.SequenceRecord{res.Sequence}); err != nil {
			logging.Errorf("Error writing region sequence data: %v", err)
			return exitError
		}
	}

	logging.Infof("Processing complete")
	if opts.stats {
		countsPath, seqPath := reportPaths(cfg)
		logging.Infof("Statistics written to %s and %s", countsPath, seqPath)
	}
	return exitOK
}

func runBatch(cfg *config.Config, opts *cliOptions) int {
	res, err := visualizer.RunBatch(cfg, visualizer.Options{
		CollectStats:  true,
		CreateOverlay: !opts.noOverlays,
	})
	if err != nil {
		logging.Errorf("%v", err)
		return exitError
	}

	if opts.noStats {
		return exitOK
	}

	countsPath, seqPath := reportPaths(cfg)
	if len(res.Counts) > 0 {
		if err := report.WriteCounts(countsPath, res.Counts); err != nil {
			logging.Errorf("Error writing statistics: %v", err)
		} else {
			logging.Infof("Statistics written to %s", countsPath)
		}
	}
	if len(res.Sequences) > 0 {
		if err := report.WriteSequences(seqPath, res.Sequences); err != nil {
			logging.Errorf("Error writing region sequence data: %v", err)
		} else {
			logging.Infof("Region sequence data written to %s", seqPath)
		}
	}
	return exitOK
}

func reportPaths(cfg *config.Config) (counts, sequences string) {
	return filepath.Join(cfg.OutputDir, cfg.StatsFile), filepath.Join(cfg.OutputDir, cfg.SequenceFile)
}
