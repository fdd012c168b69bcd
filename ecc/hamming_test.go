package ecc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHammingNibbleRoundTrip(t *testing.T) {
	for d := byte(0); d < 16; d++ {
		cw := hammingEncodeNibble(d)

		nibble, syndrome := hammingDecodeNibble(cw)
		assert.Equal(t, d, nibble)
		assert.Zero(t, syndrome, "fresh codeword for nibble %d", d)
	}
}

func TestHammingSingleBitCorrection(t *testing.T) {
	for d := byte(0); d < 16; d++ {
		cw := hammingEncodeNibble(d)

		for pos := 1; pos <= 7; pos++ {
			damaged := cw ^ (1 << (pos - 1))

			nibble, syndrome := hammingDecodeNibble(damaged)
			assert.Equal(t, d, nibble, "nibble %d, flipped bit %d", d, pos)
			assert.Equal(t, pos, syndrome)
		}
	}
}

func TestHammingEncodePayload(t *testing.T) {
	payload := []byte{0xab, 0x01}
	encoded := hammingEncode(payload)

	require.Len(t, encoded, 4)

	lo, _ := hammingDecodeNibble(encoded[0])
	hi, _ := hammingDecodeNibble(encoded[1])
	assert.Equal(t, byte(0xab), lo|hi<<4)

	lo, _ = hammingDecodeNibble(encoded[2])
	hi, _ = hammingDecodeNibble(encoded[3])
	assert.Equal(t, byte(0x01), lo|hi<<4)
}

func TestParity(t *testing.T) {
	assert.Equal(t, byte(0), parity(0x00))
	assert.Equal(t, byte(1), parity(0x01))
	assert.Equal(t, byte(0), parity(0x03))
	assert.Equal(t, byte(1), parity(0x07))
	assert.Equal(t, byte(0), parity(0xff))
}

func TestParityBits(t *testing.T) {
	// parity(0x01)=1 occupies bit 0, parity(0x03)=0 occupies bit 1.
	assert.Equal(t, []byte{0x01}, parityBits([]byte{0x01, 0x03}))

	// Nine bytes need two bitmap bytes.
	assert.Len(t, parityBits(make([]byte, 9)), 2)
}
