// Package workload provides deterministic benchmark bodies for the demo
// suite. Every body is seeded, pure CPU/memory work with no I/O, so
// repeated runs produce identical instruction and memory traffic and the
// bodies exercise distinct cache tiers.
package workload

import mrand "math/rand"

// Fib computes the n-th Fibonacci number recursively. Instruction-heavy
// with next to no data traffic, so it mostly exercises the L1 instruction
// cache.
func Fib(n uint64) uint64 {
	if n < 2 {
		return n
	}

	return Fib(n-1) + Fib(n-2)
}

// SequentialSum fills a slice of n seeded values and sums it front to
// back. The linear scan is the L1-friendly baseline.
func SequentialSum(n int, seed int64) uint64 {
	data := seededSlice(n, seed)

	var sum uint64
	for _, v := range data {
		sum += v
	}

	return sum
}

// StridedSum sums the same seeded slice at the given stride, wrapping
// with an offset until every element is visited once. Large strides
// defeat spatial locality and push traffic into the outer cache tiers.
func StridedSum(n, stride int, seed int64) uint64 {
	data := seededSlice(n, seed)

	var sum uint64

	for offset := 0; offset < stride; offset++ {
		for i := offset; i < n; i += stride {
			sum += data[i]
		}
	}

	return sum
}

// MapChurn inserts n seeded keys into a map, overwrites half of them, and
// deletes every fourth. Hashing and bucket chasing produce the irregular
// access pattern that misses in every tier.
func MapChurn(n int, seed int64) int {
	rng := mrand.New(mrand.NewSource(seed))

	m := make(map[uint64]uint64, n)

	keys := make([]uint64, n)
	for i := range keys {
		keys[i] = rng.Uint64()
		m[keys[i]] = uint64(i)
	}

	for i := 0; i < n/2; i++ {
		m[keys[i]] = rng.Uint64()
	}

	for i := 0; i < n; i += 4 {
		delete(m, keys[i])
	}

	return len(m)
}

func seededSlice(n int, seed int64) []uint64 {
	rng := mrand.New(mrand.NewSource(seed))

	data := make([]uint64, n)
	for i := range data {
		data[i] = rng.Uint64()
	}

	return data
}
