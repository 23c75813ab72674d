package cachegrind

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// requiredEvents are the counter names cachegrind must report for a
// cache-simulated run, in the order they appear in the Counters struct.
var requiredEvents = []string{
	"Ir", "I1mr", "ILmr",
	"Dr", "D1mr", "DLmr",
	"Dw", "D1mw", "DLmw",
}

// ParseOutputFile reads a cachegrind output file and extracts the nine
// event counters from its "events:" and "summary:" lines. The two lines
// pair positionally: the n-th summary value belongs to the n-th event
// name. If either line repeats, the last occurrence wins.
func ParseOutputFile(path string) (Counters, error) {
	f, err := os.Open(path)
	if err != nil {
		return Counters{}, fmt.Errorf("open cachegrind output: %w", err)
	}
	defer f.Close()

	var eventsLine, summaryLine string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if rest, ok := strings.CutPrefix(line, "events: "); ok {
			eventsLine = strings.TrimSpace(rest)
		}
		if rest, ok := strings.CutPrefix(line, "summary: "); ok {
			summaryLine = strings.TrimSpace(rest)
		}
	}

	if err := scanner.Err(); err != nil {
		return Counters{}, fmt.Errorf("read cachegrind output %s: %w", path, err)
	}

	if eventsLine == "" || summaryLine == "" {
		return Counters{}, fmt.Errorf(
			"cachegrind output %s is missing its events or summary line", path,
		)
	}

	names := strings.Fields(eventsLine)
	values := strings.Fields(summaryLine)

	byName := make(map[string]uint64, len(names))

	for i, name := range names {
		if i >= len(values) {
			break
		}

		v, err := strconv.ParseUint(values[i], 10, 64)
		if err != nil {
			return Counters{}, fmt.Errorf(
				"cachegrind output %s: summary value for %s: %w", path, name, err,
			)
		}

		byName[name] = v
	}

	fields := make([]uint64, len(requiredEvents))

	for i, name := range requiredEvents {
		v, ok := byName[name]
		if !ok {
			return Counters{}, fmt.Errorf(
				"cachegrind output %s is missing the %s counter", path, name,
			)
		}

		fields[i] = v
	}

	return Counters{
		InstructionReads:       fields[0],
		InstructionL1Misses:    fields[1],
		InstructionCacheMisses: fields[2],
		DataReads:              fields[3],
		DataL1ReadMisses:       fields[4],
		DataCacheReadMisses:    fields[5],
		DataWrites:             fields[6],
		DataL1WriteMisses:      fields[7],
		DataCacheWriteMisses:   fields[8],
	}, nil
}
