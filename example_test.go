package qfold_test

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/qfold/qfold"
	"github.com/qfold/qfold/resource"
)

// Example demonstrates the basic compress/decompress round trip. The
// reconstruction has exactly the original length; byte values are
// approximate within the documented deviation bound.
func Example() {
	engine, err := qfold.New()
	if err != nil {
		log.Fatal(err)
	}

	data := bytes.Repeat([]byte("quantum folding "), 16)

	result, err := engine.Compress(context.Background(), data)
	if err != nil {
		log.Fatal(err)
	}

	restored, err := engine.Decompress(context.Background(), result.Container)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("fallback:", result.UsedFallback())
	fmt.Println("length preserved:", len(restored) == len(data))
	// Output:
	// fallback: false
	// length preserved: true
}

// Example_preset demonstrates creating an engine from a named preset.
func Example_preset() {
	engine, err := qfold.New(qfold.WithPreset("text"))
	if err != nil {
		log.Fatal(err)
	}

	cfg := engine.Config()
	fmt.Println("bit depth:", cfg.QuantumBitDepth)
	fmt.Println("entanglement level:", cfg.MaxEntanglementLevel)
	// Output:
	// bit depth: 8
	// entanglement level: 4
}

// Example_gracefulDegradation demonstrates the classical fallback path: an
// engine with a memory budget too small for the quantum pipeline degrades
// to a classical strategy instead of failing.
func Example_gracefulDegradation() {
	controller := resource.NewController(resource.Config{
		MemoryLimitBytes: 1024,
	})

	engine, err := qfold.New(qfold.WithResourceController(controller))
	if err != nil {
		log.Fatal(err)
	}

	data := bytes.Repeat([]byte{0xAB}, 4096)

	result, err := engine.Compress(context.Background(), data)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("fallback:", result.UsedFallback())
	fmt.Println("strategy:", result.Fallback.Strategy)
	fmt.Println("success:", result.Fallback.Success)
	// Output:
	// fallback: true
	// strategy: simple-classical
	// success: true
}

// Example_sessionTracker demonstrates rolling session statistics across
// operations.
func Example_sessionTracker() {
	tracker := qfold.NewSessionTracker()

	for _, ratio := range []float64{1.0, 1.2, 1.4, 1.6} {
		tracker.Record(ratio)
	}

	stats := tracker.Snapshot()
	fmt.Println("best:", stats.BestRatio)
	fmt.Println("worst:", stats.WorstRatio)
	fmt.Println("trend:", stats.Trend)
	// Output:
	// best: 1.6
	// worst: 1
	// trend: improving
}
