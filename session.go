package qfold

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// Trend classifies how compression ratios are developing over a session.
type Trend int

const (
	TrendStable Trend = iota
	TrendImproving
	TrendDegrading
)

func (t Trend) String() string {
	switch t {
	case TrendImproving:
		return "improving"
	case TrendDegrading:
		return "degrading"
	default:
		return "stable"
	}
}

// DefaultSessionWindow is the number of recent operations a SessionTracker
// keeps when no window is configured.
const DefaultSessionWindow = 32

// SessionStats is a snapshot of a compression session.
type SessionStats struct {
	// Operations counts every recorded ratio since creation or the last
	// Reset, including those that have left the window.
	Operations int

	// WindowSize is the number of ratios currently held.
	WindowSize int

	// BestRatio, WorstRatio and AverageRatio summarize the window.
	BestRatio    float64
	WorstRatio   float64
	AverageRatio float64

	// Baseline is the reference ratio the trend is classified against.
	Baseline float64

	Trend Trend
}

// SessionOption configures a SessionTracker.
type SessionOption func(*SessionTracker)

// WithSessionWindow sets how many recent ratios the tracker keeps.
func WithSessionWindow(n int) SessionOption {
	return func(t *SessionTracker) {
		if n > 0 {
			t.window = n
		}
	}
}

// WithSessionBaseline pins the baseline ratio the trend is classified
// against. Without it, the first recorded ratio becomes the baseline.
func WithSessionBaseline(ratio float64) SessionOption {
	return func(t *SessionTracker) {
		if ratio > 0 {
			t.baseline = ratio
			t.pinnedBaseline = true
		}
	}
}

// SessionTracker accumulates compression ratios across a session and
// classifies the trend against a baseline. The engine feeds it when one is
// attached through WithSessionTracker; it can also be driven directly. All
// methods are safe for concurrent use.
type SessionTracker struct {
	mu             sync.Mutex
	window         int
	baseline       float64
	pinnedBaseline bool
	ratios         []float64
	operations     int
}

// NewSessionTracker creates a tracker with DefaultSessionWindow unless
// configured otherwise.
func NewSessionTracker(opts ...SessionOption) *SessionTracker {
	t := &SessionTracker{window: DefaultSessionWindow}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Record adds one compression ratio to the session. Non-finite or
// non-positive ratios are ignored. The first recorded ratio becomes the
// baseline when none was pinned.
func (t *SessionTracker) Record(ratio float64) {
	if ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.pinnedBaseline && t.operations == 0 {
		t.baseline = ratio
	}

	t.operations++

	t.ratios = append(t.ratios, ratio)
	if len(t.ratios) > t.window {
		t.ratios = t.ratios[len(t.ratios)-t.window:]
	}
}

// Reset clears the recorded session. A pinned baseline survives; an
// automatic one is re-derived from the next recorded ratio.
func (t *SessionTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.ratios = nil
	t.operations = 0

	if !t.pinnedBaseline {
		t.baseline = 0
	}
}

// Snapshot summarizes the current window. The trend is the fitted slope of
// the windowed ratios per operation: slopes within one percent of the
// baseline count as stable. Fewer than two samples are always stable.
func (t *SessionTracker) Snapshot() SessionStats {
	t.mu.Lock()
	defer t.mu.Unlock()

	stats := SessionStats{
		Operations: t.operations,
		WindowSize: len(t.ratios),
		Baseline:   t.baseline,
		Trend:      TrendStable,
	}

	if len(t.ratios) == 0 {
		return stats
	}

	stats.BestRatio = t.ratios[0]
	stats.WorstRatio = t.ratios[0]

	for _, r := range t.ratios {
		if r > stats.BestRatio {
			stats.BestRatio = r
		}
		if r < stats.WorstRatio {
			stats.WorstRatio = r
		}
	}

	stats.AverageRatio = stat.Mean(t.ratios, nil)

	if len(t.ratios) < 2 {
		return stats
	}

	xs := make([]float64, len(t.ratios))
	for i := range xs {
		xs[i] = float64(i)
	}

	_, slope := stat.LinearRegression(xs, t.ratios, nil, false)

	margin := 0.01 * t.baseline
	if margin <= 0 {
		margin = 0.01
	}

	switch {
	case slope > margin:
		stats.Trend = TrendImproving
	case slope < -margin:
		stats.Trend = TrendDegrading
	}

	return stats
}
