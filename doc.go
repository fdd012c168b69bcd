// Package qfold implements a quantum-inspired compression engine.
//
// Data is transformed into sequences of normalized complex-amplitude state
// vectors, analyzed for statistical structure and redundancy, optimized
// through correlation pairing ("entanglement") and threshold-driven
// amplitude passes ("interference"), and packed into a versioned,
// checksummed container. The vocabulary is quantum-mechanical; the
// computation is classical throughout.
//
// The byte round trip through the amplitude representation is approximate
// by design: Decompress returns a byte sequence of the original length, not
// an exact copy. The per-byte deviation depends on chunk composition; it
// stays moderate for mixed-value data and can span the full byte range for
// constant chunks, which normalize to the same state regardless of the byte
// value (see convert.Converter.FromStates). Callers that need exact bytes
// should use the classical fallback strategies in the fallback package,
// which the engine also selects automatically when the quantum pipeline
// cannot complete.
//
// # Quick start
//
//	engine, err := qfold.New(qfold.WithConfig(qfold.DefaultQuantumConfig()))
//	if err != nil {
//		panic(err)
//	}
//
//	result, err := engine.Compress(ctx, data)
//	if err != nil {
//		panic(err)
//	}
//
//	if result.Container != nil {
//		restored, err := engine.Decompress(ctx, result.Container)
//		...
//	}
//
// Containers serialize to self-describing frames (conventionally .qf
// files) through Serialize/Deserialize and can be stored through any
// blobstore.Store implementation.
package qfold
