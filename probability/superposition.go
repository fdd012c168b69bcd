package probability

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/qfold/qfold/quantum"
)

// ConstituentProbability is the measurement probability of one superposition
// constituent with its sampling uncertainty.
type ConstituentProbability struct {
	Index         int
	Probability   float64
	StandardError float64
	Interval      Interval
}

// QuantumProbabilities reports the per-constituent measurement
// probabilities of a superposition.
type QuantumProbabilities struct {
	Constituents []ConstituentProbability
	Sum          float64
	// Normalized confirms the probabilities sum to 1 within 1e-10.
	Normalized bool
}

// CalculateQuantumProbabilities derives each constituent's measurement
// probability from the superposition weights, attaching a proportion
// standard error over the combined amplitude count and a confidence
// interval at the analyzer's level. A nil superposition yields a zero
// result.
func (a *Analyzer) CalculateQuantumProbabilities(sp *quantum.Superposition) QuantumProbabilities {
	var res QuantumProbabilities
	if sp == nil {
		return res
	}

	n := float64(sp.Len())
	zStar := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(0.5 + a.confidenceLevel/2)

	weights := sp.Weights()
	res.Constituents = make([]ConstituentProbability, len(weights))

	for i, p := range weights {
		se := math.Sqrt(p * (1 - p) / n)

		low, high := p-zStar*se, p+zStar*se
		if low < 0 {
			low = 0
		}
		if high > 1 {
			high = 1
		}

		res.Constituents[i] = ConstituentProbability{
			Index:         i,
			Probability:   p,
			StandardError: se,
			Interval:      Interval{Low: low, High: high, Level: a.confidenceLevel},
		}
		res.Sum += p
	}

	res.Normalized = math.Abs(res.Sum-1) <= quantum.NormTolerance

	return res
}

// CoherenceStep is one point of a coherence-decay simulation.
type CoherenceStep struct {
	Time      float64
	Coherence float64
	Usable    bool
}

// CoherenceReport traces how a superposition's coherence decays over
// simulated time.
type CoherenceReport struct {
	Steps []CoherenceStep
	// DecoherenceTime is the simulated time at which usability was first
	// lost, or 0 if the superposition stayed usable throughout.
	DecoherenceTime float64
	FinalCoherence  float64
}

// AnalyzeCoherenceEffects steps the superposition through repeated
// decoherence intervals of length dt and records the decay trajectory
// against the default usability threshold. The input superposition is
// unchanged.
//
// steps must be at least 1 and dt positive; a nil superposition yields a
// zero report.
func (a *Analyzer) AnalyzeCoherenceEffects(sp *quantum.Superposition, steps int, dt float64) (CoherenceReport, error) {
	if steps < 1 {
		return CoherenceReport{}, &ErrInvalidParameter{Param: "steps", Value: steps, Constraint: "at least 1"}
	}
	if dt <= 0 {
		return CoherenceReport{}, &ErrInvalidParameter{Param: "dt", Value: dt, Constraint: "positive"}
	}
	if sp == nil {
		return CoherenceReport{}, nil
	}

	report := CoherenceReport{Steps: make([]CoherenceStep, 0, steps)}

	cur := sp
	for i := 1; i <= steps; i++ {
		cur = cur.Decohere(dt)

		step := CoherenceStep{
			Time:      float64(i) * dt,
			Coherence: cur.CoherenceTime(),
			Usable:    cur.IsCoherent(0),
		}
		report.Steps = append(report.Steps, step)

		if !step.Usable && report.DecoherenceTime == 0 {
			report.DecoherenceTime = step.Time
		}
	}

	report.FinalCoherence = cur.CoherenceTime()

	return report, nil
}
