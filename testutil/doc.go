// Package testutil provides testing utilities for qfold.
//
// This package is intended for use in tests and benchmarks only.
// It provides deterministic payload generators for the data classes the
// pipeline cares about and helpers for measuring reconstruction error.
//
// # Deterministic Payload Generation
//
//	rng := testutil.NewRNG(seed)
//	data := rng.TextLike(4096)      // prose-shaped, low entropy
//	data = rng.BinaryLike(4096)     // record-shaped, medium entropy
//	data = rng.Repetitive(4096, 32) // periodic with sparse noise
//	data = rng.HighEntropy(4096)    // uniform bytes, near 8 bits/byte
//
// # Reconstruction Error
//
//	dev := testutil.MaxDeviation(original, restored)
package testutil
