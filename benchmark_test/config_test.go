package benchmark_test

import "github.com/qfold/qfold/testutil"

const (
	benchSeed = 1

	sizeSmall  = 4 << 10
	sizeMedium = 16 << 10
)

type benchPayload struct {
	name string
	data []byte
}

// benchPayloads returns the data classes the benchmarks sweep over, in a
// stable order: prose, fixed-width records, periodic data and the
// incompressible worst case.
func benchPayloads(n int) []benchPayload {
	rng := testutil.NewRNG(benchSeed)

	return []benchPayload{
		{"text", rng.TextLike(n)},
		{"binary", rng.BinaryLike(n)},
		{"repetitive", rng.Repetitive(n, 32)},
		{"random", rng.HighEntropy(n)},
	}
}
