// Package harness orchestrates benchmark execution under cachegrind. The
// same binary acts as both the orchestrator and the measured subject: the
// orchestrator re-invokes itself through a hidden subcommand so cachegrind
// instruments exactly one benchmark body per child process.
package harness

import (
	"fmt"
	"strings"
)

// Benchmark pairs a stable name with a zero-argument benchmark body. The
// name doubles as the report-file key, so it must stay identical across
// runs for regression comparison to work.
type Benchmark struct {
	Name string
	Fn   func()
}

// Suite is an ordered collection of registered benchmarks. Registration
// order is execution order and gives each benchmark its dispatch index.
type Suite struct {
	benches []Benchmark
	names   map[string]struct{}
}

// NewSuite creates an empty Suite.
func NewSuite() *Suite {
	return &Suite{
		names: make(map[string]struct{}),
	}
}

// Register appends a benchmark to the suite. Names must be non-empty,
// unique, and free of path separators, since they key the on-disk report
// files.
func (s *Suite) Register(name string, fn func()) error {
	if name == "" {
		return fmt.Errorf("benchmark name must not be empty")
	}

	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("benchmark name %q must not contain path separators", name)
	}

	if fn == nil {
		return fmt.Errorf("benchmark %q has no body", name)
	}

	if _, dup := s.names[name]; dup {
		return fmt.Errorf("benchmark %q is already registered", name)
	}

	s.names[name] = struct{}{}
	s.benches = append(s.benches, Benchmark{Name: name, Fn: fn})

	return nil
}

// Benchmarks returns the registered benchmarks in registration order.
func (s *Suite) Benchmarks() []Benchmark {
	out := make([]Benchmark, len(s.benches))
	copy(out, s.benches)

	return out
}

// runIndex executes one benchmark body exactly once. Index -1 is the
// calibration signal: return without running anything, so cachegrind
// records only process startup and dispatch cost.
func (s *Suite) runIndex(index int) error {
	if index == -1 {
		return nil
	}

	if index < 0 || index >= len(s.benches) {
		return fmt.Errorf("benchmark index %d out of range", index)
	}

	s.benches[index].Fn()

	return nil
}
