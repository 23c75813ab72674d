package workload

import "testing"

func TestFib(t *testing.T) {
	tests := []struct {
		n    uint64
		want uint64
	}{
		{0, 0},
		{1, 1},
		{2, 1},
		{10, 55},
		{20, 6765},
	}

	for _, tt := range tests {
		if got := Fib(tt.n); got != tt.want {
			t.Errorf("Fib(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}

func TestSequentialSumDeterministic(t *testing.T) {
	a := SequentialSum(1<<12, 42)
	b := SequentialSum(1<<12, 42)

	if a != b {
		t.Errorf("same seed gave %d and %d", a, b)
	}

	if c := SequentialSum(1<<12, 7); c == a {
		t.Error("different seeds gave identical sums")
	}
}

func TestStridedSumVisitsEveryElement(t *testing.T) {
	// Strided iteration covers each index exactly once, so the sum must
	// match the sequential scan over the same seeded data.
	for _, stride := range []int{1, 7, 64, 512} {
		got := StridedSum(1<<12, stride, 42)
		want := SequentialSum(1<<12, 42)

		if got != want {
			t.Errorf("StridedSum(stride=%d) = %d, want %d", stride, got, want)
		}
	}
}

func TestMapChurnDeterministic(t *testing.T) {
	a := MapChurn(1024, 42)
	b := MapChurn(1024, 42)

	if a != b {
		t.Errorf("same seed gave %d and %d", a, b)
	}

	if a <= 0 || a > 1024 {
		t.Errorf("remaining entries = %d, want within (0, 1024]", a)
	}
}
