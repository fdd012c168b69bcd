package benchmark_test

import (
	"testing"

	"github.com/qfold/qfold"
	"github.com/qfold/qfold/codec"
	"github.com/qfold/qfold/container"
	"github.com/qfold/qfold/convert"
	"github.com/qfold/qfold/ecc"
	"github.com/qfold/qfold/entangle"
	"github.com/qfold/qfold/pattern"
	"github.com/qfold/qfold/quantum"
)

// ============================================================================
// Pipeline Phase Benchmarks
// ============================================================================

func benchStates(b *testing.B, n int) []*quantum.StateVector {
	b.Helper()

	conv, err := convert.New(convert.WithBitDepth(8))
	if err != nil {
		b.Fatal(err)
	}

	states, err := conv.ToStates(benchPayloads(n)[0].data)
	if err != nil {
		b.Fatal(err)
	}

	return states
}

func BenchmarkToStates(b *testing.B) {
	data := benchPayloads(sizeMedium)[0].data

	conv, err := convert.New(convert.WithBitDepth(8))
	if err != nil {
		b.Fatal(err)
	}

	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := conv.ToStates(data); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkFromStates(b *testing.B) {
	states := benchStates(b, sizeMedium)

	conv, err := convert.New(convert.WithBitDepth(8))
	if err != nil {
		b.Fatal(err)
	}

	b.SetBytes(sizeMedium)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := conv.FromStates(states); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRecognizePatterns(b *testing.B) {
	states := benchStates(b, sizeSmall)

	r, err := pattern.New()
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		r.RecognizePatterns(states)
	}
}

func BenchmarkFindEntangledPatterns(b *testing.B) {
	states := benchStates(b, sizeSmall)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		// A fresh analyzer each round keeps the correlation cache cold.
		a, err := entangle.New(entangle.WithCorrelationThreshold(0.5), entangle.WithMaxPairs(64))
		if err != nil {
			b.Fatal(err)
		}

		if _, err := a.FindEntangledPatterns(states); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkQuantumChecksum(b *testing.B) {
	data := benchPayloads(sizeMedium)[0].data

	b.Run("digest", func(b *testing.B) {
		b.SetBytes(int64(len(data)))
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			ecc.GenerateQuantumChecksum(data)
		}
	})

	b.Run("digest+phase+distribution", func(b *testing.B) {
		b.SetBytes(int64(len(data)))
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			ecc.GenerateQuantumChecksum(data, ecc.WithPhaseChecksum(), ecc.WithDistributionChecksum())
		}
	})
}

func BenchmarkSerialize(b *testing.B) {
	states := benchStates(b, sizeSmall)

	cfg := qfold.DefaultQuantumConfig()

	c, err := container.New(states, nil, nil, sizeSmall, cfg.Map())
	if err != nil {
		b.Fatal(err)
	}

	codecs := []codec.Codec{codec.Msgpack{}, codec.JSON{}}

	for _, cdc := range codecs {
		b.Run(cdc.Name(), func(b *testing.B) {
			b.ReportAllocs()

			var frame []byte

			for i := 0; i < b.N; i++ {
				frame, err = c.SerializeWith(cdc)
				if err != nil {
					b.Fatal(err)
				}
			}

			b.SetBytes(int64(len(frame)))
		})
	}
}

func BenchmarkDeserialize(b *testing.B) {
	states := benchStates(b, sizeSmall)

	cfg := qfold.DefaultQuantumConfig()

	c, err := container.New(states, nil, nil, sizeSmall, cfg.Map())
	if err != nil {
		b.Fatal(err)
	}

	frame, err := c.Serialize()
	if err != nil {
		b.Fatal(err)
	}

	b.SetBytes(int64(len(frame)))
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := container.Deserialize(frame); err != nil {
			b.Fatal(err)
		}
	}
}
