package harness

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cgbench/cgbench/cachegrind"
	"github.com/cgbench/cgbench/probe"
	"github.com/cgbench/cgbench/report"
)

// DefaultOutDir is where cachegrind report files are written unless
// overridden.
const DefaultOutDir = ".cgbench"

const (
	// EnvExtraFlags names the environment variable whose whitespace-split
	// contents are passed to cachegrind verbatim.
	EnvExtraFlags = "CACHEGRIND_FLAGS"

	// EnvAllowASLR, when set, leaves address-space randomization enabled.
	// The default disables it so repeated runs are bit-identical.
	EnvAllowASLR = "CGBENCH_ALLOW_ASLR"
)

// calibrationName keys the report files of the no-op calibration run.
const calibrationName = "calibration"

// Fixed cache geometry. The exact sizes matter less than having fixed
// sizes: cachegrind would otherwise take them from the host CPU and make
// runs incomparable between machines.
var fixedCacheArgs = []string{
	"--I1=32768,8,64",
	"--D1=32768,8,64",
	"--LL=8388608,16,64",
	"--cache-sim=yes",
}

// Runner drives a full orchestrator pass: tool checks, the calibration
// run, and one instrumented child invocation per registered benchmark,
// strictly in registration order.
type Runner struct {
	Suite  *Suite
	Logger *slog.Logger
	OutDir string
	JSON   bool
	Stdout io.Writer

	checkTool func(context.Context) error
	arch      func(context.Context) (string, error)
	clockHz   func() (uint64, bool)
}

// NewRunner creates a Runner with the default probes and output settings.
func NewRunner(suite *Suite, logger *slog.Logger) *Runner {
	return &Runner{
		Suite:     suite,
		Logger:    logger,
		OutDir:    DefaultOutDir,
		Stdout:    os.Stdout,
		checkTool: probe.CheckValgrind,
		arch:      probe.Arch,
		clockHz:   probe.ClockHz,
	}
}

// invocation holds the per-run facts needed to build each child's argv.
type invocation struct {
	arch       string
	executable string
	allowASLR  bool
	extraFlags []string
}

func (inv invocation) argv(index int, outFile string) []string {
	argv := probe.ValgrindArgv(inv.arch, inv.allowASLR)
	argv = append(argv, inv.extraFlags...)
	argv = append(argv, "--tool=cachegrind")
	argv = append(argv, fixedCacheArgs...)
	argv = append(argv, "--cachegrind-out-file="+outFile)
	argv = append(argv, inv.executable, measureCommand, strconv.Itoa(index))

	return argv
}

// Run executes the whole suite. A missing cachegrind is reported and
// skipped without error; any other failure aborts the run with no partial
// results for the affected or subsequent benchmarks.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.checkTool(ctx); err != nil {
		r.Logger.Warn("skipping benchmarks",
			slog.String("error", err.Error()),
		)

		return nil
	}

	arch, err := r.arch(ctx)
	if err != nil {
		return err
	}

	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("locate own executable: %w", err)
	}

	inv := invocation{
		arch:       arch,
		executable: executable,
		allowASLR:  os.Getenv(EnvAllowASLR) != "",
		extraFlags: strings.Fields(os.Getenv(EnvExtraFlags)),
	}

	r.Logger.Info("starting benchmark run",
		slog.String("arch", arch),
		slog.Bool("allow_aslr", inv.allowASLR),
		slog.Int("benchmarks", len(r.Suite.Benchmarks())),
	)

	calibration, oldCalibration, err := r.measure(ctx, -1, calibrationName, inv)
	if err != nil {
		return fmt.Errorf("calibration: %w", err)
	}

	clockHz, _ := r.clockHz()
	printer := report.NewPrinter(r.Stdout, r.JSON, clockHz)

	for i, bench := range r.Suite.Benchmarks() {
		if err := printer.BenchmarkStarting(bench.Name); err != nil {
			return err
		}

		stats, oldStats, err := r.measure(ctx, i, bench.Name, inv)
		if err != nil {
			return fmt.Errorf("benchmark %s: %w", bench.Name, err)
		}

		calibrated := stats.Subtract(calibration)

		var oldCalibrated *cachegrind.Counters
		if oldStats != nil && oldCalibration != nil {
			c := oldStats.Subtract(*oldCalibration)
			oldCalibrated = &c
		}

		if err := printer.BenchmarkFinished(
			bench.Name, calibrated, oldCalibrated,
		); err != nil {
			return err
		}
	}

	return nil
}

// measure runs one instrumented child and returns its parsed counters,
// plus the previous run's counters when an old report file exists. The
// current report file is rotated to the .old suffix before the child
// overwrites it.
func (r *Runner) measure(
	ctx context.Context,
	index int,
	name string,
	inv invocation,
) (cachegrind.Counters, *cachegrind.Counters, error) {
	if err := os.MkdirAll(r.OutDir, 0o755); err != nil {
		return cachegrind.Counters{}, nil, fmt.Errorf(
			"create output dir %s: %w", r.OutDir, err,
		)
	}

	outFile := filepath.Join(r.OutDir, "cachegrind.out."+name)
	oldFile := outFile + ".old"

	if err := rotateReport(outFile, oldFile); err != nil {
		return cachegrind.Counters{}, nil, fmt.Errorf(
			"rotate previous report for %s: %w", name, err,
		)
	}

	argv := inv.argv(index, outFile)

	r.Logger.Info("running under cachegrind",
		slog.String("benchmark", name),
		slog.Int("index", index),
	)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return cachegrind.Counters{}, nil, fmt.Errorf(
			"run %s under cachegrind: %w\nstderr: %s",
			name, err, stderr.String(),
		)
	}

	counters, err := cachegrind.ParseOutputFile(outFile)
	if err != nil {
		return cachegrind.Counters{}, nil, err
	}

	var old *cachegrind.Counters

	if _, err := os.Stat(oldFile); err == nil {
		c, err := cachegrind.ParseOutputFile(oldFile)
		if err != nil {
			return cachegrind.Counters{}, nil, fmt.Errorf(
				"previous run for %s: %w", name, err,
			)
		}

		old = &c
	}

	return counters, old, nil
}

// rotateReport moves the current report file to the old-file path,
// keeping exactly one generation of history. A missing current file is
// not an error; it just means this benchmark has no prior run.
func rotateReport(outFile, oldFile string) error {
	if _, err := os.Stat(outFile); err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}

	return os.Rename(outFile, oldFile)
}
