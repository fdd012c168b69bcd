package qfold

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives operation metrics from the engine. Implement it
// to bridge qfold into an external metrics system, or use
// BasicMetricsCollector for in-process counters.
type MetricsCollector interface {
	// RecordCompress is called after every compression attempt, including
	// runs that ended in the classical fallback.
	RecordCompress(originalSize, compressedSize int, duration time.Duration, err error)

	// RecordDecompress is called after every decompression attempt.
	RecordDecompress(size int, duration time.Duration, err error)

	// RecordFallback is called whenever the classical fallback runs.
	RecordFallback(strategy string, success bool, duration time.Duration)

	// RecordAnalyze is called after every standalone analysis.
	RecordAnalyze(size int, duration time.Duration, err error)
}

// NoopMetricsCollector discards all metrics.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordCompress(int, int, time.Duration, error) {}

func (NoopMetricsCollector) RecordDecompress(int, time.Duration, error) {}

func (NoopMetricsCollector) RecordFallback(string, bool, time.Duration) {}

func (NoopMetricsCollector) RecordAnalyze(int, time.Duration, error) {}

// BasicMetricsCollector keeps lock-free in-process counters. All methods
// are safe for concurrent use.
type BasicMetricsCollector struct {
	compressCount    atomic.Int64
	compressErrors   atomic.Int64
	compressNanos    atomic.Int64
	bytesIn          atomic.Int64
	bytesOut         atomic.Int64
	decompressCount  atomic.Int64
	decompressErrors atomic.Int64
	decompressNanos  atomic.Int64
	fallbackCount    atomic.Int64
	fallbackFailures atomic.Int64
	analyzeCount     atomic.Int64
	analyzeErrors    atomic.Int64
}

// NewBasicMetricsCollector creates a zeroed collector.
func NewBasicMetricsCollector() *BasicMetricsCollector {
	return &BasicMetricsCollector{}
}

func (m *BasicMetricsCollector) RecordCompress(originalSize, compressedSize int, duration time.Duration, err error) {
	m.compressCount.Add(1)
	m.compressNanos.Add(int64(duration))

	if err != nil {
		m.compressErrors.Add(1)

		return
	}

	m.bytesIn.Add(int64(originalSize))
	m.bytesOut.Add(int64(compressedSize))
}

func (m *BasicMetricsCollector) RecordDecompress(size int, duration time.Duration, err error) {
	m.decompressCount.Add(1)
	m.decompressNanos.Add(int64(duration))

	if err != nil {
		m.decompressErrors.Add(1)
	}
}

func (m *BasicMetricsCollector) RecordFallback(strategy string, success bool, duration time.Duration) {
	m.fallbackCount.Add(1)

	if !success {
		m.fallbackFailures.Add(1)
	}
}

func (m *BasicMetricsCollector) RecordAnalyze(size int, duration time.Duration, err error) {
	m.analyzeCount.Add(1)

	if err != nil {
		m.analyzeErrors.Add(1)
	}
}

// MetricsStats is a point-in-time snapshot of a BasicMetricsCollector.
type MetricsStats struct {
	CompressCount     int64
	CompressErrors    int64
	AvgCompressTime   time.Duration
	BytesIn           int64
	BytesOut          int64
	OverallRatio      float64
	DecompressCount   int64
	DecompressErrors  int64
	AvgDecompressTime time.Duration
	FallbackCount     int64
	FallbackFailures  int64
	AnalyzeCount      int64
	AnalyzeErrors     int64
}

// GetStats returns a snapshot of the collected counters with derived
// averages. OverallRatio covers successful compressions only.
func (m *BasicMetricsCollector) GetStats() MetricsStats {
	stats := MetricsStats{
		CompressCount:    m.compressCount.Load(),
		CompressErrors:   m.compressErrors.Load(),
		BytesIn:          m.bytesIn.Load(),
		BytesOut:         m.bytesOut.Load(),
		DecompressCount:  m.decompressCount.Load(),
		DecompressErrors: m.decompressErrors.Load(),
		FallbackCount:    m.fallbackCount.Load(),
		FallbackFailures: m.fallbackFailures.Load(),
		AnalyzeCount:     m.analyzeCount.Load(),
		AnalyzeErrors:    m.analyzeErrors.Load(),
	}

	if stats.CompressCount > 0 {
		stats.AvgCompressTime = time.Duration(m.compressNanos.Load() / stats.CompressCount)
	}

	if stats.DecompressCount > 0 {
		stats.AvgDecompressTime = time.Duration(m.decompressNanos.Load() / stats.DecompressCount)
	}

	if stats.BytesOut > 0 {
		stats.OverallRatio = float64(stats.BytesIn) / float64(stats.BytesOut)
	}

	return stats
}

// PhaseTimings breaks a compression run down by pipeline phase. Runs that
// ended in the classical fallback only carry Total.
type PhaseTimings struct {
	Convert      time.Duration
	Analysis     time.Duration
	Entanglement time.Duration
	Interference time.Duration
	Redundancy   time.Duration
	Container    time.Duration
	Total        time.Duration
}

// EfficiencyMetrics reports how effective the quantum transforms were for
// a single compression run.
type EfficiencyMetrics struct {
	// StatesCreated is the number of state vectors derived from the input.
	StatesCreated int

	// EntanglementPairsFound counts the correlation pairs accepted during
	// the pairing phase.
	EntanglementPairsFound int

	// AverageCorrelation is the mean correlation across accepted pairs,
	// zero when no pairs were found.
	AverageCorrelation float64

	// SuperpositionComplexity echoes the configured complexity bound.
	SuperpositionComplexity int

	// InterferenceEffectiveness is the improvement estimate of the final
	// optimization pass in [0,1].
	InterferenceEffectiveness float64

	// CoherenceTime is the coherence measure of a superposition built over
	// the leading optimized states.
	CoherenceTime float64
}
