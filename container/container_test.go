package container

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qfold/qfold/entangle"
	"github.com/qfold/qfold/interference"
	"github.com/qfold/qfold/quantum"
)

func uniformState(t *testing.T) *quantum.StateVector {
	t.Helper()

	amps := []quantum.Amplitude{
		{Re: 0.5}, {Re: 0.5}, {Re: 0.5}, {Re: 0.5},
	}

	s, err := quantum.NewStateVector(amps, 0)
	require.NoError(t, err)

	return s
}

func basisState(t *testing.T, i int) *quantum.StateVector {
	t.Helper()

	amps := make([]quantum.Amplitude, 4)
	amps[i] = quantum.Amplitude{Re: 1}

	s, err := quantum.NewStateVector(amps, 0)
	require.NoError(t, err)

	return s
}

func pairMatch(t *testing.T, a, b *quantum.StateVector, ai, bi int) entangle.Match {
	t.Helper()

	p, err := quantum.NewEntanglementPair(a, b, 0.25)
	require.NoError(t, err)

	return entangle.Match{Pair: p, A: ai, B: bi}
}

func testPattern() interference.Pattern {
	return interference.Pattern{
		Kind:        interference.Constructive,
		Probability: 0.75,
		Amplitude:   0.8660254037844386,
		Phase:       0.1,
		Frequency:   0.25,
		StateA:      0,
		StateB:      1,
	}
}

func testContainer(t *testing.T) *Container {
	t.Helper()

	states := []*quantum.StateVector{uniformState(t), uniformState(t), basisState(t, 2)}
	matches := []entangle.Match{pairMatch(t, states[0], states[1], 0, 1)}
	patterns := []interference.Pattern{testPattern()}
	config := map[string]string{"preset": "text", "bit_depth": "8"}

	c, err := New(states, matches, patterns, 4096, config)
	require.NoError(t, err)

	return c
}

func TestNewValidation(t *testing.T) {
	states := []*quantum.StateVector{uniformState(t)}

	t.Run("original size", func(t *testing.T) {
		_, err := New(states, nil, nil, 0, nil)

		var invalidErr *ErrInvalidParameter
		require.ErrorAs(t, err, &invalidErr)
		assert.Equal(t, "original size", invalidErr.Param)
	})

	t.Run("no states", func(t *testing.T) {
		_, err := New(nil, nil, nil, 1024, nil)
		assert.ErrorIs(t, err, ErrNoStates)
	})

	t.Run("nil pair", func(t *testing.T) {
		_, err := New(states, []entangle.Match{{Pair: nil, A: 0, B: 0}}, nil, 1024, nil)

		var invalidErr *ErrInvalidParameter
		require.ErrorAs(t, err, &invalidErr)
		assert.Equal(t, "pair", invalidErr.Param)
	})

	t.Run("pair indices", func(t *testing.T) {
		m := pairMatch(t, states[0], states[0], 0, 7)

		_, err := New(states, []entangle.Match{m}, nil, 1024, nil)

		var invalidErr *ErrInvalidParameter
		require.ErrorAs(t, err, &invalidErr)
		assert.Equal(t, "pair indices", invalidErr.Param)
	})
}

func TestNewMetadata(t *testing.T) {
	c := testContainer(t)
	meta := c.Metadata()

	assert.Equal(t, 4096, meta.OriginalSize)
	assert.Equal(t, 3, meta.StateCount)
	assert.Equal(t, 1, meta.PairCount)
	assert.Equal(t, 1, meta.PatternCount)
	assert.Equal(t, CurrentVersion, meta.FormatVersion)
	assert.False(t, meta.CreatedAt.IsZero())
	assert.Positive(t, meta.CompressedSize)
	assert.InDelta(t, float64(meta.OriginalSize)/float64(meta.CompressedSize), meta.Ratio, 1e-12)
}

func TestCompressedSizeEstimate(t *testing.T) {
	// Two plain four-amplitude states, no pairs, patterns or config:
	// 64 envelope + 2*(8 phase + 4*16 amplitudes).
	states := []*quantum.StateVector{uniformState(t), uniformState(t)}

	c, err := New(states, nil, nil, 1024, nil)
	require.NoError(t, err)

	assert.Equal(t, 208, c.Metadata().CompressedSize)
	assert.InDelta(t, 1024.0/208.0, c.Metadata().Ratio, 1e-12)
}

func TestStatsSpaceSaved(t *testing.T) {
	m := Metadata{OriginalSize: 1024, CompressedSize: 512, Ratio: 2}

	s := m.Stats()

	assert.Equal(t, 1024, s.OriginalSize)
	assert.Equal(t, 512, s.CompressedSize)
	assert.Equal(t, 2.0, s.Ratio)
	assert.Equal(t, 50.0, s.SpaceSavedPercent)
}

func TestStatsEmptyOriginal(t *testing.T) {
	s := Metadata{}.Stats()
	assert.Zero(t, s.SpaceSavedPercent)
}

func TestAccessorsCopy(t *testing.T) {
	c := testContainer(t)

	states := c.States()
	states[0] = nil
	assert.NotNil(t, c.States()[0])

	patterns := c.Patterns()
	patterns[0].Probability = 0
	assert.Equal(t, 0.75, c.Patterns()[0].Probability)

	meta := c.Metadata()
	meta.Config["preset"] = "binary"
	assert.Equal(t, "text", c.Metadata().Config["preset"])
}

func TestPairLookup(t *testing.T) {
	states := []*quantum.StateVector{uniformState(t), uniformState(t), basisState(t, 2)}
	match := pairMatch(t, states[0], states[1], 0, 1)

	c, err := New(states, []entangle.Match{match}, nil, 4096, nil)
	require.NoError(t, err)

	id := match.Pair.ID()

	got, ok := c.FindEntanglementPair(id)
	require.True(t, ok)
	assert.Same(t, match.Pair, got)

	// Arena entries of matched states carry the pair identifier as a
	// back-reference; unmatched entries stay untagged.
	members := c.GetEntangledStates(id)
	require.Len(t, members, 2)
	assert.Equal(t, states[0].Amplitudes(), members[0].Amplitudes())
	assert.Equal(t, states[1].Amplitudes(), members[1].Amplitudes())
	assert.Equal(t, id, members[0].EntanglementID())
	assert.Equal(t, id, members[1].EntanglementID())

	arena := c.States()
	assert.Equal(t, id, arena[0].EntanglementID())
	assert.Equal(t, id, arena[1].EntanglementID())
	assert.Empty(t, arena[2].EntanglementID())

	_, ok = c.FindEntanglementPair("missing")
	assert.False(t, ok)
	assert.Nil(t, c.GetEntangledStates("missing"))

	pairs := c.GetEntanglementPairs()
	require.Len(t, pairs, 1)
	assert.Same(t, match.Pair, pairs[0])
}

func TestVerifyIntegrity(t *testing.T) {
	c := testContainer(t)

	assert.True(t, c.VerifyIntegrity())
	assert.Equal(t, c.contentChecksum(), c.Checksum())

	c.checksum ^= 1
	assert.False(t, c.VerifyIntegrity())
}

func TestChecksumCoversContent(t *testing.T) {
	states := []*quantum.StateVector{uniformState(t), uniformState(t)}

	a, err := New(states, nil, nil, 1024, map[string]string{"k": "v"})
	require.NoError(t, err)

	b, err := New(states, nil, nil, 1024, map[string]string{"k": "w"})
	require.NoError(t, err)

	assert.NotEqual(t, a.Checksum(), b.Checksum())
}

func TestEstimateDecompressionTime(t *testing.T) {
	c := testContainer(t)

	// 500us base + 3 states * 2us + 12 amplitudes * 50ns + 1 pair * 1us.
	want := 500*time.Microsecond + 6*time.Microsecond + 600*time.Nanosecond + 1*time.Microsecond
	assert.Equal(t, want, c.EstimateDecompressionTime())

	small, err := New([]*quantum.StateVector{uniformState(t)}, nil, nil, 64, nil)
	require.NoError(t, err)
	assert.Less(t, small.EstimateDecompressionTime(), c.EstimateDecompressionTime())
}
