package qfold

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var (
	_ MetricsCollector = NoopMetricsCollector{}
	_ MetricsCollector = (*BasicMetricsCollector)(nil)
)

func TestBasicMetricsCollectorCompress(t *testing.T) {
	m := NewBasicMetricsCollector()

	m.RecordCompress(1000, 400, 10*time.Millisecond, nil)
	m.RecordCompress(1000, 600, 20*time.Millisecond, nil)
	m.RecordCompress(500, 0, 30*time.Millisecond, errors.New("boom"))

	stats := m.GetStats()
	assert.Equal(t, int64(3), stats.CompressCount)
	assert.Equal(t, int64(1), stats.CompressErrors)
	assert.Equal(t, 20*time.Millisecond, stats.AvgCompressTime)

	// Failed runs contribute no bytes.
	assert.Equal(t, int64(2000), stats.BytesIn)
	assert.Equal(t, int64(1000), stats.BytesOut)
	assert.InDelta(t, 2.0, stats.OverallRatio, 1e-12)
}

func TestBasicMetricsCollectorDecompress(t *testing.T) {
	m := NewBasicMetricsCollector()

	m.RecordDecompress(1000, 4*time.Millisecond, nil)
	m.RecordDecompress(0, 6*time.Millisecond, errors.New("bad archive"))

	stats := m.GetStats()
	assert.Equal(t, int64(2), stats.DecompressCount)
	assert.Equal(t, int64(1), stats.DecompressErrors)
	assert.Equal(t, 5*time.Millisecond, stats.AvgDecompressTime)
}

func TestBasicMetricsCollectorFallbackAndAnalyze(t *testing.T) {
	m := NewBasicMetricsCollector()

	m.RecordFallback("simple-classical", true, time.Millisecond)
	m.RecordFallback("hybrid-classical", false, time.Millisecond)
	m.RecordAnalyze(100, time.Millisecond, nil)
	m.RecordAnalyze(0, time.Millisecond, errors.New("empty"))

	stats := m.GetStats()
	assert.Equal(t, int64(2), stats.FallbackCount)
	assert.Equal(t, int64(1), stats.FallbackFailures)
	assert.Equal(t, int64(2), stats.AnalyzeCount)
	assert.Equal(t, int64(1), stats.AnalyzeErrors)
}

func TestBasicMetricsCollectorZero(t *testing.T) {
	stats := NewBasicMetricsCollector().GetStats()

	assert.Zero(t, stats.CompressCount)
	assert.Zero(t, stats.AvgCompressTime)
	assert.Zero(t, stats.AvgDecompressTime)
	assert.Zero(t, stats.OverallRatio)
}

func TestBasicMetricsCollectorConcurrent(t *testing.T) {
	m := NewBasicMetricsCollector()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.RecordCompress(10, 5, time.Microsecond, nil)
			}
		}()
	}
	wg.Wait()

	stats := m.GetStats()
	assert.Equal(t, int64(800), stats.CompressCount)
	assert.Equal(t, int64(8000), stats.BytesIn)
	assert.Equal(t, int64(4000), stats.BytesOut)
}
