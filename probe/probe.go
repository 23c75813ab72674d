// Package probe detects the tooling and host facts the harness needs:
// valgrind availability, the CPU architecture string, and the CPU clock
// rate when it can be read from /proc/cpuinfo.
package probe

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// CheckValgrind verifies that valgrind's cachegrind tool can be launched.
// A launch failure or non-zero exit means the tool is unavailable.
func CheckValgrind(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "valgrind", "--tool=cachegrind", "--version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf(
			"valgrind is not usable, please ensure it is installed and on $PATH: %w",
			err,
		)
	}

	return nil
}

// Arch returns the machine hardware name from uname, e.g. "x86_64".
// It is required to build the setarch invocation that disables ASLR.
func Arch(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "uname", "-m").Output()
	if err != nil {
		return "", fmt.Errorf("detect CPU architecture via uname: %w", err)
	}

	return strings.TrimSpace(string(out)), nil
}

// ClockHz reports the CPU clock rate in Hz, read from the "model name"
// line of /proc/cpuinfo. The second return is false when the file or the
// frequency suffix is absent, which is common on non-Linux hosts and
// newer CPU models.
func ClockHz() (uint64, bool) {
	f, err := os.Open("/proc/cpuinfo")
	if err != nil {
		return 0, false
	}
	defer f.Close()

	return clockFromCPUInfo(f)
}

// frequency unit multipliers, longest suffix first so that "GHz" is not
// mistaken for "Hz".
var freqUnits = []struct {
	suffix string
	mult   float64
}{
	{"THz", 1e12},
	{"GHz", 1e9},
	{"MHz", 1e6},
	{"kHz", 1e3},
	{"Hz", 1},
}

func clockFromCPUInfo(r io.Reader) (uint64, bool) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		key, value, ok := strings.Cut(scanner.Text(), ":")
		if !ok || strings.TrimSpace(key) != "model name" {
			continue
		}

		_, freq, ok := strings.Cut(value, "@")
		if !ok {
			return 0, false
		}

		freq = strings.TrimSpace(freq)

		for _, unit := range freqUnits {
			rest, ok := strings.CutSuffix(freq, unit.suffix)
			if !ok {
				continue
			}

			v, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
			if err != nil {
				return 0, false
			}

			return uint64(v * unit.mult), true
		}

		return 0, false
	}

	return 0, false
}
