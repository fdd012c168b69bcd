package entangle

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/qfold/qfold/quantum"
)

// correlationHistogramBins is the fixed bin count of the correlation
// histogram in CorrelationMetrics.
const correlationHistogramBins = 10

// CorrelationMetrics summarizes the correlation strengths of a pair set.
type CorrelationMetrics struct {
	MeanCorrelation float64
	// WeightedCorrelation weights each pair by its shared-information
	// length, favoring pairs with more extractable benefit.
	WeightedCorrelation float64
	Variance            float64
	// Stability is 1 minus the coefficient of variation, floored at 0.
	Stability float64
	// Histogram counts correlations in 10 fixed bins over [0,1].
	Histogram []int
}

// CalculateAdvancedCorrelationMetrics profiles the correlation strengths of
// pairs. Empty input yields a zero result.
func (a *Analyzer) CalculateAdvancedCorrelationMetrics(pairs []*quantum.EntanglementPair) CorrelationMetrics {
	if len(pairs) == 0 {
		return CorrelationMetrics{}
	}

	correlations := make([]float64, len(pairs))
	weights := make([]float64, len(pairs))
	var weightSum float64

	for i, p := range pairs {
		correlations[i] = p.Correlation()
		weights[i] = float64(len(p.SharedInformation()))
		weightSum += weights[i]
	}

	var m CorrelationMetrics
	m.MeanCorrelation, m.Variance = stat.MeanVariance(correlations, nil)
	if len(correlations) < 2 {
		m.Variance = 0
	}

	if weightSum > 0 {
		m.WeightedCorrelation = stat.Mean(correlations, weights)
	} else {
		m.WeightedCorrelation = m.MeanCorrelation
	}

	if m.MeanCorrelation > 0 {
		cv := math.Sqrt(m.Variance) / m.MeanCorrelation
		m.Stability = 1 - cv
		if m.Stability < 0 {
			m.Stability = 0
		}
	}

	m.Histogram = make([]int, correlationHistogramBins)
	for _, c := range correlations {
		bin := int(c * correlationHistogramBins)
		if bin >= correlationHistogramBins {
			bin = correlationHistogramBins - 1
		} else if bin < 0 {
			bin = 0
		}
		m.Histogram[bin]++
	}

	return m
}

// QualityReport partitions pairs into those meeting the current acceptance
// threshold and those below it.
type QualityReport struct {
	Valid   []*quantum.EntanglementPair
	Invalid []*quantum.EntanglementPair
	// Suggestions describe how to improve pairing quality.
	Suggestions []string
}

// ValidateEntanglementQuality checks pairs against the current acceptance
// threshold and suggests adjustments.
func (a *Analyzer) ValidateEntanglementQuality(pairs []*quantum.EntanglementPair) QualityReport {
	var report QualityReport

	threshold := a.CorrelationThreshold()

	var sum float64
	for _, p := range pairs {
		if p.Correlation() >= threshold {
			report.Valid = append(report.Valid, p)
		} else {
			report.Invalid = append(report.Invalid, p)
		}
		sum += p.Correlation()
	}

	if len(pairs) == 0 {
		report.Suggestions = append(report.Suggestions,
			"no pairs to validate; run pairing first or lower the correlation threshold")
		return report
	}

	if len(report.Invalid) > 0 {
		report.Suggestions = append(report.Suggestions,
			fmt.Sprintf("%d of %d pairs fall below threshold %.3f; re-pair or lower the threshold",
				len(report.Invalid), len(pairs), threshold))
	}

	if mean := sum / float64(len(pairs)); mean < threshold+0.1 {
		report.Suggestions = append(report.Suggestions,
			fmt.Sprintf("mean correlation %.3f sits close to threshold %.3f; larger chunks may expose stronger correlations",
				mean, threshold))
	}

	if len(report.Suggestions) == 0 {
		report.Suggestions = append(report.Suggestions, "entanglement quality is good; no adjustments needed")
	}

	return report
}
