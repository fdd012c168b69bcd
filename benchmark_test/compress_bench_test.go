package benchmark_test

import (
	"context"
	"testing"

	"github.com/qfold/qfold"
	"github.com/qfold/qfold/blobstore"
)

// ============================================================================
// Engine Benchmarks
// ============================================================================

func BenchmarkCompress(b *testing.B) {
	for _, p := range benchPayloads(sizeSmall) {
		b.Run(p.name, func(b *testing.B) {
			e, err := qfold.New()
			if err != nil {
				b.Fatal(err)
			}

			ctx := context.Background()

			b.SetBytes(int64(len(p.data)))
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, err := e.Compress(ctx, p.data); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkCompressPreset(b *testing.B) {
	data := benchPayloads(sizeSmall)[0].data

	for _, name := range qfold.PresetNames() {
		b.Run("preset="+name, func(b *testing.B) {
			e, err := qfold.New(qfold.WithPreset(name))
			if err != nil {
				b.Fatal(err)
			}

			ctx := context.Background()

			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, err := e.Compress(ctx, data); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkCompressParallel(b *testing.B) {
	data := benchPayloads(sizeSmall)[0].data

	e, err := qfold.New()
	if err != nil {
		b.Fatal(err)
	}

	ctx := context.Background()

	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := e.Compress(ctx, data); err != nil {
				b.Fatal(err)
			}
		}
	})
}

func BenchmarkDecompress(b *testing.B) {
	for _, p := range benchPayloads(sizeSmall) {
		b.Run(p.name, func(b *testing.B) {
			e, err := qfold.New()
			if err != nil {
				b.Fatal(err)
			}

			ctx := context.Background()

			result, err := e.Compress(ctx, p.data)
			if err != nil {
				b.Fatal(err)
			}

			if result.UsedFallback() {
				b.Skipf("payload %s degraded to classical", p.name)
			}

			b.SetBytes(int64(len(p.data)))
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if _, err := e.Decompress(ctx, result.Container); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkAnalyze(b *testing.B) {
	data := benchPayloads(sizeMedium)[0].data

	e, err := qfold.New()
	if err != nil {
		b.Fatal(err)
	}

	ctx := context.Background()

	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := e.Analyze(ctx, data); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSaveLoad(b *testing.B) {
	data := benchPayloads(sizeSmall)[0].data

	e, err := qfold.New()
	if err != nil {
		b.Fatal(err)
	}

	ctx := context.Background()

	result, err := e.Compress(ctx, data)
	if err != nil {
		b.Fatal(err)
	}

	store := blobstore.NewMemoryStore()

	b.Run("save", func(b *testing.B) {
		b.ReportAllocs()

		for i := 0; i < b.N; i++ {
			if err := e.Save(ctx, store, "bench.qf", result.Container); err != nil {
				b.Fatal(err)
			}
		}
	})

	b.Run("load", func(b *testing.B) {
		if err := e.Save(ctx, store, "bench.qf", result.Container); err != nil {
			b.Fatal(err)
		}

		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			if _, err := e.Load(ctx, store, "bench.qf"); err != nil {
				b.Fatal(err)
			}
		}
	})
}
