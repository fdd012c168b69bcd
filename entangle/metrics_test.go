package entangle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qfold/qfold/quantum"
)

func TestCalculateAdvancedCorrelationMetrics(t *testing.T) {
	a, err := New()
	require.NoError(t, err)

	s := uniform(t)

	t.Run("empty", func(t *testing.T) {
		m := a.CalculateAdvancedCorrelationMetrics(nil)
		assert.Zero(t, m.MeanCorrelation)
		assert.Zero(t, m.WeightedCorrelation)
		assert.Zero(t, m.Stability)
		assert.Nil(t, m.Histogram)
	})

	t.Run("single pair", func(t *testing.T) {
		m := a.CalculateAdvancedCorrelationMetrics([]*quantum.EntanglementPair{
			mustPair(t, s, s, 0.25),
		})

		assert.InDelta(t, 0.25, m.MeanCorrelation, 1e-12)
		assert.InDelta(t, 0.25, m.WeightedCorrelation, 1e-12)
		assert.Zero(t, m.Variance)
		assert.InDelta(t, 1.0, m.Stability, 1e-12, "a single pair is perfectly stable")

		require.Len(t, m.Histogram, 10)
		assert.Equal(t, 1, m.Histogram[2])
	})

	t.Run("spread pairs", func(t *testing.T) {
		m := a.CalculateAdvancedCorrelationMetrics([]*quantum.EntanglementPair{
			mustPair(t, s, s, 0.2),
			mustPair(t, s, s, 0.8),
		})

		assert.InDelta(t, 0.5, m.MeanCorrelation, 1e-12)
		// Equal shared-information lengths leave the weighted mean unchanged.
		assert.InDelta(t, 0.5, m.WeightedCorrelation, 1e-12)
		// Sample variance of {0.2, 0.8}.
		assert.InDelta(t, 0.18, m.Variance, 1e-12)
		assert.InDelta(t, 0.1514718625761429, m.Stability, 1e-12)

		assert.Equal(t, 1, m.Histogram[2])
		assert.Equal(t, 1, m.Histogram[8])
	})

	t.Run("full correlation clamps to last bin", func(t *testing.T) {
		m := a.CalculateAdvancedCorrelationMetrics([]*quantum.EntanglementPair{
			mustPair(t, s, s, 1.0),
		})

		assert.Equal(t, 1, m.Histogram[9])
	})
}

func TestValidateEntanglementQuality(t *testing.T) {
	s := uniform(t)

	t.Run("mixed pairs", func(t *testing.T) {
		a, err := New(WithCorrelationThreshold(0.5))
		require.NoError(t, err)

		report := a.ValidateEntanglementQuality([]*quantum.EntanglementPair{
			mustPair(t, s, s, 0.8),
			mustPair(t, s, s, 0.2),
		})

		require.Len(t, report.Valid, 1)
		require.Len(t, report.Invalid, 1)
		assert.InDelta(t, 0.8, report.Valid[0].Correlation(), 1e-12)
		assert.InDelta(t, 0.2, report.Invalid[0].Correlation(), 1e-12)

		require.NotEmpty(t, report.Suggestions)
		assert.Contains(t, report.Suggestions[0], "fall below threshold")
	})

	t.Run("good quality", func(t *testing.T) {
		a, err := New(WithCorrelationThreshold(0.1))
		require.NoError(t, err)

		report := a.ValidateEntanglementQuality([]*quantum.EntanglementPair{
			mustPair(t, s, s, 0.8),
			mustPair(t, s, s, 0.9),
		})

		assert.Len(t, report.Valid, 2)
		assert.Empty(t, report.Invalid)
		require.Len(t, report.Suggestions, 1)
		assert.Contains(t, report.Suggestions[0], "quality is good")
	})

	t.Run("no pairs", func(t *testing.T) {
		a, err := New()
		require.NoError(t, err)

		report := a.ValidateEntanglementQuality(nil)
		assert.Empty(t, report.Valid)
		assert.Empty(t, report.Invalid)
		require.Len(t, report.Suggestions, 1)
		assert.Contains(t, report.Suggestions[0], "no pairs to validate")
	})
}
