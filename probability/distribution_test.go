package probability

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qfold/qfold/quantum"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		param string
	}{
		{name: "confidence level zero", opts: []Option{WithConfidenceLevel(0)}, param: "confidence level"},
		{name: "confidence level one", opts: []Option{WithConfidenceLevel(1)}, param: "confidence level"},
		{name: "sampling rate zero", opts: []Option{WithSamplingRate(0)}, param: "sampling rate"},
		{name: "sampling rate above one", opts: []Option{WithSamplingRate(1.1)}, param: "sampling rate"},
		{name: "too few bins", opts: []Option{WithDistributionBins(1)}, param: "distribution bins"},
		{name: "too many bins", opts: []Option{WithDistributionBins(1025)}, param: "distribution bins"},
		{name: "outlier threshold zero", opts: []Option{WithOutlierThreshold(0)}, param: "outlier threshold"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opts...)

			var ipErr *ErrInvalidParameter
			require.ErrorAs(t, err, &ipErr)
			assert.Equal(t, tt.param, ipErr.Param)
		})
	}
}

func TestAnalyzeProbabilityDistributionsEmpty(t *testing.T) {
	a, err := New()
	require.NoError(t, err)

	res := a.AnalyzeProbabilityDistributions(nil)

	assert.Zero(t, res.TotalStates)
	assert.Zero(t, res.SampleCount)
	assert.Zero(t, res.MeanEntropy)
	assert.Empty(t, res.Histogram)
	assert.Empty(t, res.Outliers)
	assert.Empty(t, res.Clusters)
}

func TestAnalyzeProbabilityDistributionsUniform(t *testing.T) {
	a, err := New()
	require.NoError(t, err)

	// Four identical single-amplitude states: every probability is 1.
	one := quantum.NewAmplitude(1, 0)
	states := make([]*quantum.StateVector, 4)
	for i := range states {
		states[i] = quantum.RestoreStateVector([]quantum.Amplitude{one}, 0, "")
	}

	res := a.AnalyzeProbabilityDistributions(states)

	assert.Equal(t, 4, res.TotalStates)
	assert.Equal(t, 4, res.SampledStates)
	assert.Equal(t, 4, res.SampleCount)
	assert.Zero(t, res.MeanEntropy)
	assert.Zero(t, res.EntropyVariance)
	assert.InDelta(t, 1.0, res.MeanProbability, 1e-12)
	assert.Equal(t, 4, res.Histogram[DefaultDistributionBins-1])
	assert.Empty(t, res.Outliers)
	assert.InDelta(t, 1.0, res.ConfidenceInterval.Low, 1e-12)
	assert.InDelta(t, 1.0, res.ConfidenceInterval.High, 1e-12)

	require.Len(t, res.Clusters, 1)
	assert.InDelta(t, 1.0, res.Clusters[0].Center, 1e-12)
	assert.Equal(t, 4, res.Clusters[0].Size)
}

func TestAnalyzeProbabilityDistributionsSampling(t *testing.T) {
	a, err := New(WithSamplingRate(0.5))
	require.NoError(t, err)

	one := quantum.NewAmplitude(1, 0)
	states := make([]*quantum.StateVector, 4)
	for i := range states {
		states[i] = quantum.RestoreStateVector([]quantum.Amplitude{one}, 0, "")
	}

	res := a.AnalyzeProbabilityDistributions(states)

	assert.Equal(t, 4, res.TotalStates)
	assert.Equal(t, 2, res.SampledStates)
}

func TestAnalyzeProbabilityDistributionsOutliers(t *testing.T) {
	a, err := New()
	require.NoError(t, err)

	low := quantum.NewAmplitude(math.Sqrt(0.1), 0)
	high := quantum.NewAmplitude(math.Sqrt(0.9), 0)

	states := []*quantum.StateVector{
		quantum.RestoreStateVector([]quantum.Amplitude{low, low, low, low, low}, 0, ""),
		quantum.RestoreStateVector([]quantum.Amplitude{low, low, low, low, low}, 0, ""),
		quantum.RestoreStateVector([]quantum.Amplitude{high}, 0, ""),
	}

	res := a.AnalyzeProbabilityDistributions(states)

	require.Len(t, res.Outliers, 1)
	assert.Equal(t, 2, res.Outliers[0].StateIndex)
	assert.Equal(t, 0, res.Outliers[0].AmplitudeIndex)
	assert.InDelta(t, 0.9, res.Outliers[0].Probability, 1e-12)
	assert.Greater(t, res.Outliers[0].ZScore, a.outlierThreshold)
}

func TestEstimateCompressionPotential(t *testing.T) {
	a, err := New()
	require.NoError(t, err)

	t.Run("zero analysis", func(t *testing.T) {
		assert.Zero(t, a.EstimateCompressionPotential(DistributionAnalysis{}))
	})

	t.Run("concentrated samples score high", func(t *testing.T) {
		one := quantum.NewAmplitude(1, 0)
		states := make([]*quantum.StateVector, 4)
		for i := range states {
			states[i] = quantum.RestoreStateVector([]quantum.Amplitude{one}, 0, "")
		}

		res := a.AnalyzeProbabilityDistributions(states)
		potential := a.EstimateCompressionPotential(res)

		assert.InDelta(t, 1.0, potential, 1e-12)
	})

	t.Run("uniform spread scores lower", func(t *testing.T) {
		// Two-amplitude states at maximum entropy.
		half := quantum.NewAmplitude(math.Sqrt(0.5), 0)
		states := make([]*quantum.StateVector, 4)
		for i := range states {
			states[i] = quantum.RestoreStateVector([]quantum.Amplitude{half, half}, 0, "")
		}

		res := a.AnalyzeProbabilityDistributions(states)
		potential := a.EstimateCompressionPotential(res)

		// Normalized entropy is 1, so only cluster and outlier terms remain.
		assert.InDelta(t, 0.5, potential, 1e-12)
	})
}
