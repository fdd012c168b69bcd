package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntropy(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want float64
	}{
		{name: "empty", data: nil, want: 0},
		{name: "constant", data: []byte{7, 7, 7, 7}, want: 0},
		{name: "two symbols", data: []byte{0, 1, 0, 1}, want: 1},
		{name: "four symbols", data: []byte{100, 150, 200, 50}, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Entropy(tt.data), 1e-12)
		})
	}
}

func TestAnalyzeDataPatterns(t *testing.T) {
	t.Run("empty recommends defaults", func(t *testing.T) {
		a := AnalyzeDataPatterns(nil)

		assert.Zero(t, a.Entropy)
		assert.Zero(t, a.UniqueBytes)
		assert.Equal(t, DefaultChunkSize, a.RecommendedChunkSize)
		assert.Equal(t, DefaultBitDepth, a.RecommendedBitDepth)
	})

	t.Run("constant data", func(t *testing.T) {
		a := AnalyzeDataPatterns([]byte{42, 42, 42, 42, 42})

		assert.Zero(t, a.Entropy)
		assert.InDelta(t, 1.0, a.RepetitionRate, 1e-12)
		assert.Equal(t, 1, a.UniqueBytes)
		assert.Equal(t, 5, a.Frequencies[42])
		assert.Equal(t, 2, a.RecommendedChunkSize, "low entropy gets small chunks")
		assert.Equal(t, MinBitDepth, a.RecommendedBitDepth)
	})

	t.Run("full byte range", func(t *testing.T) {
		data := make([]byte, 256)
		for i := range data {
			data[i] = byte(i)
		}

		a := AnalyzeDataPatterns(data)

		assert.InDelta(t, 8.0, a.Entropy, 1e-12)
		assert.Zero(t, a.RepetitionRate)
		assert.Equal(t, 256, a.UniqueBytes)
		assert.Equal(t, 16, a.RecommendedChunkSize, "high entropy gets large chunks")
		assert.Equal(t, 8, a.RecommendedBitDepth)
	})
}

func TestOptimizeForData(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	tuned, err := c.OptimizeForData([]byte{42, 42, 42, 42})
	require.NoError(t, err)

	assert.Equal(t, 2, tuned.ChunkSize())
	assert.Equal(t, MinBitDepth, tuned.BitDepth())

	// Original converter keeps its configuration.
	assert.Equal(t, DefaultChunkSize, c.ChunkSize())
	assert.Equal(t, DefaultBitDepth, c.BitDepth())
}
