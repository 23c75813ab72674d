package harness

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"
)

// measureCommand is the hidden subcommand the orchestrator uses when
// re-invoking the binary as an instrumented child. Being a real
// subcommand rather than a magic token keeps it out of the way of
// user-facing flags.
const measureCommand = "measure"

// Main runs the suite's command tree and exits non-zero on failure. It is
// the expected entry point for benchmark binaries:
//
//	func main() {
//		suite := harness.NewSuite()
//		// suite.Register(...)
//		harness.Main(suite)
//	}
func Main(suite *Suite) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if err := NewCommand(suite, logger).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// NewCommand builds the dual-mode command tree: the bare root command runs
// the orchestrator, and the hidden measure subcommand runs one benchmark
// body inside a cachegrind child.
func NewCommand(suite *Suite, logger *slog.Logger) *cobra.Command {
	var (
		jsonOut bool
		outDir  string
	)

	root := &cobra.Command{
		Use:   filepath.Base(os.Args[0]),
		Short: "Deterministic cachegrind-based micro-benchmark harness",
		Long: `Runs every registered benchmark once under valgrind's cachegrind tool,
subtracts the fixed startup overhead measured by a calibration pass, and
reports cache-tier hit counts, an estimated cycle cost, and deltas against
the previous run.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			runner := NewRunner(suite, logger)
			runner.JSON = jsonOut
			runner.OutDir = outDir

			return runner.Run(cmd.Context())
		},
	}

	flags := root.Flags()
	flags.BoolVar(&jsonOut, "json", false,
		"Emit line-delimited JSON events instead of text")
	flags.StringVar(&outDir, "out-dir", DefaultOutDir,
		"Directory for cachegrind report files")

	measure := &cobra.Command{
		Use:    measureCommand + " <index>",
		Short:  "Run one benchmark body (internal, invoked under cachegrind)",
		Hidden: true,
		Args:   cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("parse benchmark index: %w", err)
			}

			return suite.runIndex(index)
		},
	}

	root.AddCommand(measure)

	return root
}
