package harness

import "testing"

func TestRegisterPreservesOrder(t *testing.T) {
	s := NewSuite()

	for _, name := range []string{"charlie", "alpha", "bravo"} {
		if err := s.Register(name, func() {}); err != nil {
			t.Fatalf("Register(%q) failed: %v", name, err)
		}
	}

	got := s.Benchmarks()
	want := []string{"charlie", "alpha", "bravo"}

	if len(got) != len(want) {
		t.Fatalf("got %d benchmarks, want %d", len(got), len(want))
	}
	for i, bench := range got {
		if bench.Name != want[i] {
			t.Errorf("benchmark[%d] = %q, want %q", i, bench.Name, want[i])
		}
	}
}

func TestRegisterDuplicateName(t *testing.T) {
	s := NewSuite()

	if err := s.Register("fib", func() {}); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	if err := s.Register("fib", func() {}); err == nil {
		t.Error("expected error for duplicate name")
	}
}

func TestRegisterEmptyName(t *testing.T) {
	s := NewSuite()

	if err := s.Register("", func() {}); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestRegisterPathSeparator(t *testing.T) {
	s := NewSuite()

	if err := s.Register("a/b", func() {}); err == nil {
		t.Error("expected error for name with path separator")
	}
}

func TestRegisterNilBody(t *testing.T) {
	s := NewSuite()

	if err := s.Register("fib", nil); err == nil {
		t.Error("expected error for nil body")
	}
}

func TestRunIndexCalibration(t *testing.T) {
	s := NewSuite()

	ran := false
	if err := s.Register("fib", func() { ran = true }); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if err := s.runIndex(-1); err != nil {
		t.Fatalf("runIndex(-1) failed: %v", err)
	}
	if ran {
		t.Error("calibration index ran a benchmark body")
	}
}

func TestRunIndexRunsExactlyOnce(t *testing.T) {
	s := NewSuite()

	calls := map[string]int{}
	for _, name := range []string{"a", "b"} {
		if err := s.Register(name, func() { calls[name]++ }); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
	}

	if err := s.runIndex(1); err != nil {
		t.Fatalf("runIndex(1) failed: %v", err)
	}

	if calls["a"] != 0 || calls["b"] != 1 {
		t.Errorf("calls = %v, want only b once", calls)
	}
}

func TestRunIndexOutOfRange(t *testing.T) {
	s := NewSuite()

	if err := s.Register("fib", func() {}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	for _, index := range []int{-2, 1, 100} {
		if err := s.runIndex(index); err == nil {
			t.Errorf("runIndex(%d) succeeded, want error", index)
		}
	}
}
