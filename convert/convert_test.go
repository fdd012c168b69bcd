package convert

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qfold/qfold/quantum"
)

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name    string
		opts    []Option
		wantErr bool
		param   string
	}{
		{name: "defaults", opts: nil},
		{name: "valid custom", opts: []Option{WithBitDepth(6), WithChunkSize(4)}},
		{name: "bit depth too small", opts: []Option{WithBitDepth(1)}, wantErr: true, param: "bit depth"},
		{name: "bit depth too large", opts: []Option{WithBitDepth(17)}, wantErr: true, param: "bit depth"},
		{name: "chunk size too small", opts: []Option{WithChunkSize(0)}, wantErr: true, param: "chunk size"},
		{name: "chunk size too large", opts: []Option{WithChunkSize(257)}, wantErr: true, param: "chunk size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.opts...)

			if tt.wantErr {
				var ipErr *ErrInvalidParameter
				require.ErrorAs(t, err, &ipErr)
				assert.Equal(t, tt.param, ipErr.Param)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, c)
		})
	}
}

func TestToStatesChunking(t *testing.T) {
	c, err := New(WithChunkSize(4))
	require.NoError(t, err)

	states, err := c.ToStates(make([]byte, 10))
	require.NoError(t, err)

	require.Len(t, states, 3)
	assert.Equal(t, 4, states[0].Len())
	assert.Equal(t, 4, states[1].Len())
	assert.Equal(t, 2, states[2].Len(), "last chunk is shorter, never padded")

	for _, s := range states {
		assert.True(t, s.IsNormalized())
	}
}

func TestToStatesEmptyInput(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	_, err = c.ToStates(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = c.FromStates(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestToStatesScalarPhase(t *testing.T) {
	c, err := New(WithBitDepth(6), WithChunkSize(4))
	require.NoError(t, err)

	// Four distinct bytes: entropy is exactly 2 bits, so the scalar phase is
	// 2*pi for every state.
	states, err := c.ToStates([]byte{100, 150, 200, 50})
	require.NoError(t, err)

	require.Len(t, states, 1)
	assert.InDelta(t, 2*math.Pi, states[0].Phase(), 1e-12)
}

func TestToStatesPhaseMapping(t *testing.T) {
	c, err := New(WithBitDepth(2), WithChunkSize(1))
	require.NoError(t, err)

	// Byte 1 at bit depth 2 maps to phase 2*pi*1/4; after normalization the
	// single amplitude has magnitude 1 and sits on the imaginary axis.
	states, err := c.ToStates([]byte{1})
	require.NoError(t, err)

	require.Len(t, states, 1)
	a := states[0].Amplitude(0)
	assert.InDelta(t, 0, a.Re, 1e-12)
	assert.InDelta(t, 1, a.Im, 1e-12)
}

func TestRoundTripIsApproximate(t *testing.T) {
	c, err := New(WithBitDepth(6), WithChunkSize(4))
	require.NoError(t, err)

	original := []byte{100, 150, 200, 50}

	states, err := c.ToStates(original)
	require.NoError(t, err)
	require.Len(t, states, 1)
	require.Equal(t, 4, states[0].Len())

	got, err := c.FromStates(states)
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(got), len(original))
	assert.Equal(t, []byte{93, 139, 186, 46}, got)

	for i := range original {
		deviation := math.Abs(float64(original[i]) - float64(got[i]))
		assert.Less(t, deviation, 100.0, "per-byte deviation stays bounded")
	}
}

func TestRoundTripConstantChunks(t *testing.T) {
	// A constant chunk normalizes to magnitude 1/sqrt(k) whatever the byte
	// value, so its reconstruction is fixed by the chunk size alone:
	// round(256/sqrt(k) - 1).
	tests := []struct {
		name      string
		value     byte
		chunkSize int
		want      byte
	}{
		{name: "zeros chunk 2", value: 0, chunkSize: 2, want: 180},
		{name: "zeros chunk 4", value: 0, chunkSize: 4, want: 127},
		{name: "max chunk 4", value: 255, chunkSize: 4, want: 127},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(WithChunkSize(tt.chunkSize))
			require.NoError(t, err)

			original := make([]byte, 4*tt.chunkSize)
			for i := range original {
				original[i] = tt.value
			}

			states, err := c.ToStates(original)
			require.NoError(t, err)

			got, err := c.FromStates(states)
			require.NoError(t, err)
			require.Len(t, got, len(original))

			for i, b := range got {
				assert.Equal(t, tt.want, b, "byte %d", i)
			}
		})
	}
}

func TestFromStatesClampsLowMagnitudes(t *testing.T) {
	c, err := New()
	require.NoError(t, err)

	// A restored state with a near-zero magnitude would map below 0 without
	// clamping.
	s := quantum.RestoreStateVector([]quantum.Amplitude{
		quantum.NewAmplitude(0.001, 0),
		quantum.NewAmplitude(1, 0),
	}, 0, "")

	got, err := c.FromStates([]*quantum.StateVector{s})
	require.NoError(t, err)

	assert.Equal(t, byte(0), got[0])
	assert.Equal(t, byte(255), got[1])
}
