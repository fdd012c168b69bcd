package quantum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEntanglementPair(t *testing.T) {
	a := mustState(t, NewAmplitude(0.6, 0), NewAmplitude(0.8, 0))
	b := mustState(t, NewAmplitude(0.6, 0), NewAmplitude(0.8, 0))

	p, err := NewEntanglementPair(a, b, 0.5)
	require.NoError(t, err)

	assert.NotEmpty(t, p.ID())
	assert.Equal(t, p.ID(), p.A().EntanglementID())
	assert.Equal(t, p.ID(), p.B().EntanglementID())
	assert.InDelta(t, 0.5, p.Correlation(), 1e-12)

	// Inputs are never mutated.
	assert.False(t, a.Entangled())
	assert.False(t, b.Entangled())
}

func TestNewEntanglementPairUniqueIDs(t *testing.T) {
	a := mustState(t, NewAmplitude(1, 0))
	b := mustState(t, NewAmplitude(1, 0))

	p1, err := NewEntanglementPair(a, b, 0.5)
	require.NoError(t, err)
	p2, err := NewEntanglementPair(a, b, 0.5)
	require.NoError(t, err)

	assert.NotEqual(t, p1.ID(), p2.ID())
}

func TestNewEntanglementPairErrors(t *testing.T) {
	v := mustState(t, NewAmplitude(1, 0))

	t.Run("nil member", func(t *testing.T) {
		_, err := NewEntanglementPair(nil, v, 0.5)
		assert.ErrorIs(t, err, ErrNilState)
	})

	t.Run("insufficient correlation", func(t *testing.T) {
		_, err := NewEntanglementPair(v, v, MinPairCorrelation/2)

		var icErr *ErrInsufficientCorrelation
		require.ErrorAs(t, err, &icErr)
		assert.InDelta(t, MinPairCorrelation/2, icErr.Correlation, 1e-12)
		assert.InDelta(t, MinPairCorrelation, icErr.Min, 1e-12)
	})
}

func TestEntanglementPairSharedInformation(t *testing.T) {
	a := mustState(t, NewAmplitude(0.6, 0), NewAmplitude(0.8, 0))
	b := mustState(t, NewAmplitude(1, 0))

	p, err := NewEntanglementPair(a, b, 0.5)
	require.NoError(t, err)

	shared := p.SharedInformation()

	require.Len(t, shared, 1, "shared info covers the overlap only")
	// Mean magnitude (0.6+1.0)/2 = 0.8 quantizes to 204.
	assert.Equal(t, byte(204), shared[0])
}

func TestEntanglementPairBreak(t *testing.T) {
	a := mustState(t, NewAmplitude(0.6, 0), NewAmplitude(0.8, 0))
	b := mustState(t, NewAmplitude(0.8, 0), NewAmplitude(0.6, 0))

	p, err := NewEntanglementPair(a, b, 0.5)
	require.NoError(t, err)

	fa, fb := p.Break()

	assert.False(t, fa.Entangled())
	assert.False(t, fb.Entangled())

	// The pair itself keeps its tagged members.
	assert.True(t, p.A().Entangled())
	assert.True(t, p.B().Entangled())
}

func TestRestoreEntanglementPair(t *testing.T) {
	a := mustState(t, NewAmplitude(1, 0))
	b := mustState(t, NewAmplitude(1, 0))

	p := RestoreEntanglementPair("pair-42", a, b, 0.25, []byte{7, 9})

	assert.Equal(t, "pair-42", p.ID())
	assert.Equal(t, "pair-42", p.A().EntanglementID())
	assert.Equal(t, []byte{7, 9}, p.SharedInformation())
	assert.InDelta(t, 0.25, p.Correlation(), 1e-12)
}
