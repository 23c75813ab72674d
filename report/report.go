// Package report renders benchmark measurements as aligned human-readable
// text or as line-delimited JSON events.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/cgbench/cgbench/cachegrind"
)

// Stats is the serialized form of one measurement: the raw counters plus
// the derived cycle estimate and, when the clock rate is known, the
// estimated time.
type Stats struct {
	cachegrind.Counters
	Cycles     uint64 `json:"cycles"`
	TimePassed string `json:"time_passed,omitempty"`
}

// NewStats derives a Stats record from calibrated counters. A clockHz of
// zero means the clock rate is unknown and no time estimate is included.
func NewStats(c cachegrind.Counters, clockHz uint64) Stats {
	cycles := c.Summarize().Cycles()

	s := Stats{
		Counters: c,
		Cycles:   cycles,
	}

	if clockHz > 0 {
		s.TimePassed = fmt.Sprintf(
			"%.3fµs", cachegrind.EstimatedTime(cycles, clockHz),
		)
	}

	return s
}

// Printer writes per-benchmark results in one of two mutually exclusive
// modes, chosen once per run: aligned human-readable text or one JSON
// event per line.
type Printer struct {
	w       io.Writer
	json    bool
	clockHz uint64
}

// NewPrinter creates a Printer. Pass clockHz 0 when the CPU clock rate
// could not be detected.
func NewPrinter(w io.Writer, jsonMode bool, clockHz uint64) *Printer {
	return &Printer{
		w:       w,
		json:    jsonMode,
		clockHz: clockHz,
	}
}

type runEvent struct {
	Event     string `json:"event"`
	Benchmark string `json:"benchmark"`
}

type ranEvent struct {
	Event     string `json:"event"`
	Benchmark string `json:"benchmark"`
	Stats     Stats  `json:"stats"`
	OldStats  *Stats `json:"old_stats,omitempty"`
}

// BenchmarkStarting announces that the named benchmark is about to run.
func (p *Printer) BenchmarkStarting(name string) error {
	if p.json {
		return json.NewEncoder(p.w).Encode(runEvent{
			Event:     "run",
			Benchmark: name,
		})
	}

	_, err := fmt.Fprintln(p.w, name)

	return err
}

// BenchmarkFinished renders the calibrated counters for one benchmark,
// diffed against the previous run's counters when available.
func (p *Printer) BenchmarkFinished(
	name string,
	stats cachegrind.Counters,
	oldStats *cachegrind.Counters,
) error {
	if p.json {
		event := ranEvent{
			Event:     "ran",
			Benchmark: name,
			Stats:     NewStats(stats, p.clockHz),
		}
		if oldStats != nil {
			old := NewStats(*oldStats, p.clockHz)
			event.OldStats = &old
		}

		return json.NewEncoder(p.w).Encode(event)
	}

	return p.printHuman(stats, oldStats)
}

func (p *Printer) printHuman(
	stats cachegrind.Counters,
	oldStats *cachegrind.Counters,
) error {
	summary := stats.Summarize()

	var oldSummary *cachegrind.Summary
	if oldStats != nil {
		s := oldStats.Summarize()
		oldSummary = &s
	}

	rows := []struct {
		label    string
		value    uint64
		oldValue func() uint64
	}{
		{"Instructions:", stats.InstructionReads,
			func() uint64 { return oldStats.InstructionReads }},
		{"L1 Accesses:", summary.L1Hits,
			func() uint64 { return oldSummary.L1Hits }},
		{"L2 Accesses:", summary.LLHits,
			func() uint64 { return oldSummary.LLHits }},
		{"RAM Accesses:", summary.RAMHits,
			func() uint64 { return oldSummary.RAMHits }},
	}

	for _, row := range rows {
		suffix := ""
		if oldStats != nil {
			suffix = diffSuffix(row.value, row.oldValue())
		}

		if _, err := fmt.Fprintf(
			p.w, "  %-17s %15d%s\n", row.label, row.value, suffix,
		); err != nil {
			return err
		}
	}

	cycles := summary.Cycles()

	suffix := ""
	if oldSummary != nil {
		suffix = diffSuffix(cycles, oldSummary.Cycles())
	}

	timeSuffix := ""
	if p.clockHz > 0 {
		timeSuffix = fmt.Sprintf(
			" (%.3fµs)", cachegrind.EstimatedTime(cycles, p.clockHz),
		)
	}

	if _, err := fmt.Fprintf(
		p.w, "  %-17s %15d%s%s\n", "Estimated Cycles:", cycles, suffix, timeSuffix,
	); err != nil {
		return err
	}

	_, err := fmt.Fprintln(p.w)

	return err
}

func diffSuffix(newVal, oldVal uint64) string {
	pct, changed := cachegrind.Delta(newVal, oldVal)
	if !changed {
		return " (No change)"
	}

	return fmt.Sprintf(" (%6s%%)", signedShort(pct))
}

// signedShort formats a signed percentage with magnitude-dependent
// precision so the displayed width stays roughly constant.
func signedShort(n float64) string {
	abs := math.Abs(n)

	switch {
	case abs < 10:
		return fmt.Sprintf("%+.6f", n)
	case abs < 100:
		return fmt.Sprintf("%+.5f", n)
	case abs < 1000:
		return fmt.Sprintf("%+.4f", n)
	case abs < 10000:
		return fmt.Sprintf("%+.3f", n)
	case abs < 100000:
		return fmt.Sprintf("%+.2f", n)
	case abs < 1000000:
		return fmt.Sprintf("%+.1f", n)
	default:
		return fmt.Sprintf("%+.0f", n)
	}
}
