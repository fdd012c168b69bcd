package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qfold/qfold/convert"
)

func TestTextLike(t *testing.T) {
	rng := NewRNG(4711)

	data := rng.TextLike(4096)

	assert.Equal(t, 4096, len(data))
	assert.Less(t, convert.Entropy(data), 6.0)
}

func TestBinaryLike(t *testing.T) {
	rng := NewRNG(4711)

	data := rng.BinaryLike(4096)

	assert.Equal(t, 4096, len(data))
	assert.Equal(t, byte(0xCA), data[0])
	assert.Equal(t, byte(0xFE), data[1])
}

func TestRepetitive(t *testing.T) {
	rng := NewRNG(4711)

	data := rng.Repetitive(4096, 32)

	assert.Equal(t, 4096, len(data))

	// The motif repeats, so positions one period apart mostly agree.
	matches := 0
	for i := 0; i < 4096-32; i++ {
		if data[i] == data[i+32] {
			matches++
		}
	}
	assert.Greater(t, matches, 3500)
}

func TestHighEntropy(t *testing.T) {
	rng := NewRNG(4711)

	data := rng.HighEntropy(4096)

	assert.Equal(t, 4096, len(data))
	assert.Greater(t, convert.Entropy(data), 7.5)
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	first := rng.TextLike(128)

	rng.Reset()
	second := rng.TextLike(128)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestMaxDeviation(t *testing.T) {
	assert.Equal(t, 0.0, MaxDeviation([]byte{1, 2, 3}, []byte{1, 2, 3}))
	assert.Equal(t, 5.0, MaxDeviation([]byte{10, 2, 3}, []byte{5, 2, 3}))
	assert.Equal(t, 2.0, MaxDeviation([]byte{1, 2, 3, 99}, []byte{1, 4}))
}

func TestMeanDeviation(t *testing.T) {
	assert.Equal(t, 0.0, MeanDeviation(nil, nil))
	assert.InDelta(t, 2.0, MeanDeviation([]byte{4, 4}, []byte{2, 6}), 1e-12)
}
