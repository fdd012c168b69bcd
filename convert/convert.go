// Package convert maps byte data onto quantum state vectors and back.
//
// Bytes are partitioned into fixed-size chunks; each byte becomes one
// amplitude whose magnitude encodes the byte value and whose phase follows a
// quantum-phase mapping at the configured bit depth. The reverse mapping is
// approximate: normalization at construction discards the per-chunk scale,
// so reconstructed bytes deviate from the originals within a documented
// bound.
package convert

import (
	"math"

	"github.com/qfold/qfold/quantum"
)

// Converter parameter bounds and defaults.
const (
	MinBitDepth = 2
	MaxBitDepth = 16

	MinChunkSize = 1
	MaxChunkSize = 256

	DefaultBitDepth  = 8
	DefaultChunkSize = 4
)

// Converter turns byte sequences into state vectors and back under a fixed
// chunking policy.
type Converter struct {
	bitDepth  int
	chunkSize int
}

// Option configures a Converter.
type Option func(*Converter)

// WithBitDepth sets the quantum bit depth used by the phase mapping.
func WithBitDepth(bits int) Option {
	return func(c *Converter) {
		c.bitDepth = bits
	}
}

// WithChunkSize sets how many bytes form one state vector.
func WithChunkSize(size int) Option {
	return func(c *Converter) {
		c.chunkSize = size
	}
}

// New returns a Converter with the given options applied over the defaults.
// Parameters outside their documented ranges fail with an
// ErrInvalidParameter.
func New(opts ...Option) (*Converter, error) {
	c := &Converter{
		bitDepth:  DefaultBitDepth,
		chunkSize: DefaultChunkSize,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.bitDepth < MinBitDepth || c.bitDepth > MaxBitDepth {
		return nil, &ErrInvalidParameter{Param: "bit depth", Value: c.bitDepth, Constraint: "in [2,16]"}
	}
	if c.chunkSize < MinChunkSize || c.chunkSize > MaxChunkSize {
		return nil, &ErrInvalidParameter{Param: "chunk size", Value: c.chunkSize, Constraint: "in [1,256]"}
	}

	return c, nil
}

// BitDepth returns the configured quantum bit depth.
func (c *Converter) BitDepth() int {
	return c.bitDepth
}

// ChunkSize returns the configured chunk size in bytes.
func (c *Converter) ChunkSize() int {
	return c.chunkSize
}

// ToStates converts data into a sequence of normalized state vectors, one
// per chunk of the configured size. The final chunk may be shorter; it is
// never padded.
//
// Each byte b maps to an amplitude of magnitude (b+1)/256 (never zero) with
// phase 2*pi*(b mod 2^bitDepth)/2^bitDepth. Every state carries the Shannon
// entropy of the whole input, scaled by pi, as its scalar phase.
//
// Empty input fails with ErrEmptyInput.
func (c *Converter) ToStates(data []byte) ([]*quantum.StateVector, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	scalarPhase := Entropy(data) * math.Pi
	levels := float64(int(1) << c.bitDepth)

	states := make([]*quantum.StateVector, 0, (len(data)+c.chunkSize-1)/c.chunkSize)
	for start := 0; start < len(data); start += c.chunkSize {
		end := start + c.chunkSize
		if end > len(data) {
			end = len(data)
		}

		chunk := data[start:end]
		amps := make([]quantum.Amplitude, len(chunk))
		for i, b := range chunk {
			magnitude := (float64(b) + 1) / 256
			phase := 2 * math.Pi * math.Mod(float64(b), levels) / levels
			amps[i] = quantum.Polar(magnitude, phase)
		}

		state, err := quantum.NewStateVector(amps, scalarPhase)
		if err != nil {
			return nil, err
		}
		states = append(states, state)
	}

	return states, nil
}

// FromStates reconstructs a byte sequence from state vectors by inverting
// the magnitude mapping: round(magnitude*256 - 1) mod 256, clamped to
// [0,255]. Because states are normalized the reconstruction is approximate,
// and how approximate depends on chunk composition. Mixed-value chunks keep
// a normalization scale near 1 and reconstruct within a per-byte deviation
// of about 100. A constant chunk of size k collapses to magnitude 1/sqrt(k)
// for every byte and reconstructs to round(256/sqrt(k) - 1) regardless of
// the original value, so the worst case spans the full byte range.
//
// An empty state list fails with ErrEmptyInput.
func (c *Converter) FromStates(states []*quantum.StateVector) ([]byte, error) {
	if len(states) == 0 {
		return nil, ErrEmptyInput
	}

	total := 0
	for _, s := range states {
		total += s.Len()
	}

	data := make([]byte, 0, total)
	for _, s := range states {
		for _, a := range s.Amplitudes() {
			v := int(math.Round(a.Magnitude()*256-1)) % 256
			if v < 0 {
				v = 0
			} else if v > 255 {
				v = 255
			}
			data = append(data, byte(v))
		}
	}

	return data, nil
}
