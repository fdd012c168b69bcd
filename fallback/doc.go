// Package fallback provides classical compression when the quantum pipeline
// cannot proceed.
//
// AttemptGracefulDegradation never returns an error: degenerate input and
// codec failures are reported inside the result so callers always get a
// recommended action. Strategy selection is heuristic; large payloads are
// chunked, speed-sensitive callers get LZ4, high-entropy data gets the
// smaller of zstd and xz, and everything else gets gzip, optionally wrapped
// in a metadata envelope.
package fallback
