package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"driftcheck/internal/adapters/bolt"
	"driftcheck/internal/adapters/filesystem"
	"driftcheck/internal/adapters/progress"
	"driftcheck/internal/adapters/render"
	"driftcheck/internal/adapters/sqlite"
	"driftcheck/internal/application"
	"driftcheck/internal/application/commands"
	"driftcheck/internal/config"
	"driftcheck/internal/domain"
	"driftcheck/internal/ports"
)

var (
	fullFlag   bool
	writeFlag  bool
	clearFlag  bool
	strictFlag bool
	destFlag   string
	detsFlag   int
	rangeFlag  []int
	ruleFlag   string
)

var rootCmd = &cobra.Command{
	Use:   "driftcheck PATTERN",
	Short: "Visualize detector drift across experimental runs",
	Long: `driftcheck extracts per-detector energy spectra from a sequence of
binary run matrices, accumulates them into a [detector, run, channel]
cube, and renders one spectrum-over-run heat map per detector so
calibration drift is visible at a glance.

PATTERN is the path to and filename prefix of the run matrices; run
numbers are taken from the trailing digits of each matching filename.

Examples:
  driftcheck data/exp042_run --full --dest plots
  driftcheck data/exp042_run --dets 30 --range 200,4000
  driftcheck data/exp042_run --full --write --clear`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&fullFlag, "full", false, "decode binary matrices and materialize ascii spectra")
	rootCmd.Flags().BoolVar(&writeFlag, "write", false, "persist the cube and drift maps to a binary container")
	rootCmd.Flags().BoolVar(&clearFlag, "clear", false, "delete previously materialized ascii spectra afterward")
	rootCmd.Flags().BoolVar(&strictFlag, "strict", false, "abort on the first run that fails to decode")
	rootCmd.Flags().StringVar(&destFlag, "dest", "", "output directory (default: current location)")
	rootCmd.Flags().IntVar(&detsFlag, "dets", 25, "number of detectors")
	rootCmd.Flags().IntSliceVar(&rangeFlag, "range", []int{0, 8191}, "channel window LOW,HIGH (half-open)")
	rootCmd.Flags().StringVar(&ruleFlag, "rule", "identity", "drift reduction rule (identity or centroid)")
}

func run(cmd *cobra.Command, args []string) error {
	if len(rangeFlag) != 2 {
		return &application.ConfigError{
			Field:   "range",
			Message: fmt.Sprintf("expected two values LOW,HIGH, got %d", len(rangeFlag)),
		}
	}

	cfg, err := config.New(args[0], destFlag, detsFlag, rangeFlag[0], rangeFlag[1])
	if err != nil {
		return err
	}
	rule, err := domain.RuleByName(ruleFlag)
	if err != nil {
		return err
	}

	ctx := context.Background()
	reporter := progress.NewReporter(os.Stdout)

	// The manifest tracks materialized files so --clear removes exactly
	// those. Only opened when either side of that bookkeeping is active.
	var manifest *sqlite.Manifest
	if fullFlag || clearFlag {
		if err := os.MkdirAll(cfg.Dest, 0755); err != nil {
			return fmt.Errorf("failed to create destination directory: %w", err)
		}
		manifest, err = sqlite.Open(cfg.Dest)
		if err != nil {
			return err
		}
		defer manifest.Close()
	}

	var locator ports.RunLocator
	var decoder ports.SpectrumDecoder
	if fullFlag {
		locator = filesystem.NewMatrixLocator(cfg.Head, cfg.Tail)
		md := filesystem.NewMatrixDecoder(cfg.Detectors, cfg.NativeChannels, cfg.Range)
		md.MaterializeDir = cfg.Dest
		md.Manifest = manifest
		decoder = md
	} else {
		locator = filesystem.NewTextLocator(cfg.Dest, cfg.Tail)
		decoder = filesystem.NewTextDecoder(cfg.Detectors, cfg.NativeChannels, cfg.Range)
	}

	policy := application.PolicySkipRun
	if strictFlag {
		policy = application.PolicyAbort
	}

	builder := &application.Builder{
		Locator:   locator,
		Decoder:   decoder,
		Detectors: cfg.Detectors,
		Range:     cfg.Range,
		Policy:    policy,
		OnStart: func(total int) {
			reporter.Start("Decoding runs", total)
		},
		OnRunDone: func(done, total int, run domain.RunFile, err error) {
			reporter.Advance()
			if done == total {
				reporter.Done()
			}
		},
	}

	var artifacts ports.ArtifactStore
	if writeFlag {
		store, err := bolt.Open(filepath.Join(cfg.Dest, cfg.Tail+"drift.db"))
		if err != nil {
			return err
		}
		defer store.Close()
		artifacts = store
	}

	check := &commands.CheckCommand{
		Builder:   builder,
		Rule:      rule,
		Renderer:  render.NewHeatmap(),
		Dest:      cfg.Dest,
		Artifacts: artifacts,
		Progress:  reporter,
	}
	result, err := check.Execute(ctx)
	if err != nil {
		return err
	}
	for _, failure := range result.Failures {
		fmt.Fprintf(os.Stderr, "warning: skipped run %d: %v\n", failure.Run.Number, failure.Err)
	}
	fmt.Println(result.Message)

	if clearFlag {
		clearCmd := &commands.ClearCommand{Manifest: manifest}
		cleared, err := clearCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(cleared.Message)
	}

	return nil
}
