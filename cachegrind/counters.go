// Package cachegrind parses cachegrind output files and derives cache-tier
// summaries, cycle estimates, and regression deltas from the raw counters.
package cachegrind

import "math"

// Counters holds the nine event counters reported by a single cachegrind
// run. Immutable after parsing.
type Counters struct {
	InstructionReads       uint64 `json:"instruction_reads"`
	InstructionL1Misses    uint64 `json:"instruction_l1_misses"`
	InstructionCacheMisses uint64 `json:"instruction_cache_misses"`
	DataReads              uint64 `json:"data_reads"`
	DataL1ReadMisses       uint64 `json:"data_l1_read_misses"`
	DataCacheReadMisses    uint64 `json:"data_cache_read_misses"`
	DataWrites             uint64 `json:"data_writes"`
	DataL1WriteMisses      uint64 `json:"data_l1_write_misses"`
	DataCacheWriteMisses   uint64 `json:"data_cache_write_misses"`
}

// Summary buckets the counters into hit counts per cache tier.
type Summary struct {
	L1Hits  uint64
	LLHits  uint64
	RAMHits uint64
}

// Subtract returns c with the calibration counters removed field by field,
// clamping at zero. Startup overhead occasionally exceeds a benchmark's
// own counters; saturation keeps the result well-defined.
func (c Counters) Subtract(calibration Counters) Counters {
	return Counters{
		InstructionReads:       saturatingSub(c.InstructionReads, calibration.InstructionReads),
		InstructionL1Misses:    saturatingSub(c.InstructionL1Misses, calibration.InstructionL1Misses),
		InstructionCacheMisses: saturatingSub(c.InstructionCacheMisses, calibration.InstructionCacheMisses),
		DataReads:              saturatingSub(c.DataReads, calibration.DataReads),
		DataL1ReadMisses:       saturatingSub(c.DataL1ReadMisses, calibration.DataL1ReadMisses),
		DataCacheReadMisses:    saturatingSub(c.DataCacheReadMisses, calibration.DataCacheReadMisses),
		DataWrites:             saturatingSub(c.DataWrites, calibration.DataWrites),
		DataL1WriteMisses:      saturatingSub(c.DataL1WriteMisses, calibration.DataL1WriteMisses),
		DataCacheWriteMisses:   saturatingSub(c.DataCacheWriteMisses, calibration.DataCacheWriteMisses),
	}
}

func saturatingSub(a, b uint64) uint64 {
	if a < b {
		return 0
	}

	return a - b
}

// RAMAccesses counts the references that reached main memory.
func (c Counters) RAMAccesses() uint64 {
	return c.InstructionCacheMisses + c.DataCacheReadMisses + c.DataCacheWriteMisses
}

// TotalMemoryRW counts every memory reference the run performed.
func (c Counters) TotalMemoryRW() uint64 {
	return c.InstructionReads + c.DataReads + c.DataWrites
}

// Summarize buckets the counters into per-tier hit counts. The derivation
// is a conservation law: L1Hits + LLHits + RAMHits == TotalMemoryRW.
func (c Counters) Summarize() Summary {
	ramHits := c.RAMAccesses()
	llAccesses := c.InstructionL1Misses + c.DataL1ReadMisses + c.DataL1WriteMisses
	llHits := llAccesses - ramHits

	totalMemoryRW := c.TotalMemoryRW()
	l1Hits := totalMemoryRW - (ramHits + llHits)

	return Summary{
		L1Hits:  l1Hits,
		LLHits:  llHits,
		RAMHits: ramHits,
	}
}

// Cycles estimates a relative cost from the tier hits, weighting each tier
// by its approximate latency. The weights follow Itamar Turner-Trauring's
// formula from https://pythonspeed.com/articles/consistent-benchmarking-in-ci/
// and give a comparable cross-run figure, not a real cycle count.
func (s Summary) Cycles() uint64 {
	return s.L1Hits + 5*s.LLHits + 35*s.RAMHits
}

// EstimatedTime converts a cycle estimate into microseconds using the CPU
// clock rate in Hz.
func EstimatedTime(cycles, clockHz uint64) float64 {
	return 10000.0 / float64(clockHz) * float64(cycles)
}

// NoiseFloorPct is the relative change, in percent, below which Delta
// reports no change. The exact value is not load-bearing; it only
// suppresses rounding jitter in the displayed diffs.
var NoiseFloorPct = 0.0001

// Delta returns the percentage change from old to new and whether the
// change clears the noise floor. Equal values never report a change.
func Delta(newVal, oldVal uint64) (pct float64, changed bool) {
	if newVal == oldVal {
		return 0, false
	}

	diff := (float64(newVal) - float64(oldVal)) / float64(oldVal)
	pct = diff * 100.0

	if math.Abs(pct) < NoiseFloorPct {
		return pct, false
	}

	return pct, true
}
