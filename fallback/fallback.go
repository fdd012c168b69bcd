package fallback

import (
	"bytes"
	"time"

	"github.com/qfold/qfold/convert"
)

// sizeThreshold is the payload size above which StrategyChunked is chosen.
const sizeThreshold = 2 * 1024 * 1024

// highEntropyThreshold is the Shannon entropy (bits per byte) above which
// the hybrid strategy is worth its extra cost.
const highEntropyThreshold = 7.5

// Options influence strategy selection.
type Options struct {
	// PrioritizeSpeed selects the fastest codec over the best ratio.
	PrioritizeSpeed bool
	// PreserveMetadata keeps quantum analysis metadata next to the
	// classically compressed payload.
	PreserveMetadata bool
}

// Option configures an AttemptGracefulDegradation call.
type Option func(*Options)

// WithPrioritizeSpeed selects the fastest strategy.
func WithPrioritizeSpeed() Option {
	return func(o *Options) {
		o.PrioritizeSpeed = true
	}
}

// WithPreserveMetadata wraps the compressed payload in a metadata envelope.
func WithPreserveMetadata() Option {
	return func(o *Options) {
		o.PreserveMetadata = true
	}
}

// Result reports a degradation attempt. Failure is expressed through the
// Success flag, never through an error.
type Result struct {
	Success  bool
	Strategy Strategy
	// Compressed is the strategy output; Recover reverses it.
	Compressed     []byte
	OriginalSize   int
	CompressedSize int
	// Ratio is original size over compressed size; values below 1 mean the
	// data expanded.
	Ratio float64
	// IntegrityVerified is true when the output was decompressed and
	// compared byte for byte against the input.
	IntegrityVerified bool
	ProcessingTime    time.Duration
	// FailureReason carries the reason the quantum pipeline gave up.
	FailureReason     string
	RecommendedAction string
}

// AttemptGracefulDegradation compresses data classically after the quantum
// pipeline failed for failureReason. Strategy choice is heuristic: oversized
// payloads are chunked, speed-sensitive callers get LZ4, high-entropy data
// gets the hybrid codec pair, metadata-preserving callers get an envelope,
// and everything else gets gzip.
func AttemptGracefulDegradation(data []byte, failureReason string, opts ...Option) Result {
	start := time.Now()

	var o Options
	for _, opt := range opts {
		opt(&o)
	}

	result := Result{
		OriginalSize:  len(data),
		FailureReason: failureReason,
	}

	if len(data) == 0 {
		result.ProcessingTime = time.Since(start)
		result.RecommendedAction = "input is empty; nothing to recover"
		return result
	}

	result.Strategy = selectStrategy(data, o)

	compressed, err := compress(data, result.Strategy, failureReason)
	if err != nil {
		result.ProcessingTime = time.Since(start)
		result.RecommendedAction = "classical compression failed; store the data uncompressed"
		return result
	}

	result.Compressed = compressed
	result.CompressedSize = len(compressed)
	result.Ratio = float64(len(data)) / float64(len(compressed))

	if recovered, err := Recover(compressed, result.Strategy); err == nil {
		result.IntegrityVerified = bytes.Equal(recovered, data)
	}

	result.Success = result.IntegrityVerified
	result.ProcessingTime = time.Since(start)
	result.RecommendedAction = recommendedAction(result)

	return result
}

func selectStrategy(data []byte, o Options) Strategy {
	switch {
	case len(data) > sizeThreshold:
		return StrategyChunked
	case o.PrioritizeSpeed:
		return StrategyFast
	case convert.Entropy(data) > highEntropyThreshold:
		return StrategyHybrid
	case o.PreserveMetadata:
		return StrategyWithMetadata
	default:
		return StrategySimple
	}
}

func compress(data []byte, strategy Strategy, failureReason string) ([]byte, error) {
	switch strategy {
	case StrategyChunked:
		return chunkedCompress(data)
	case StrategyFast:
		return lz4Compress(data)
	case StrategyHybrid:
		return hybridCompress(data)
	case StrategyWithMetadata:
		return metadataCompress(data, failureReason)
	default:
		return gzipCompress(data)
	}
}

func recommendedAction(r Result) string {
	switch {
	case !r.Success:
		return "round-trip verification failed; store the data uncompressed"
	case r.Ratio < 1:
		return "data did not compress; store uncompressed and skip recompression"
	default:
		return "keep the classical result; retry quantum compression with a simpler configuration"
	}
}
