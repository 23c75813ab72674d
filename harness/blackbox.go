package harness

// BlackBox returns v through a call the compiler will not inline, keeping
// benchmark computations from being optimized away.
//
//go:noinline
func BlackBox[T any](v T) T {
	return v
}
