package ecc

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
	"time"

	"github.com/qfold/qfold/quantum"
)

// Repetition bounds. An even copy count is allowed but wastes a copy, since
// majority voting cannot break ties in the extra one.
const (
	MinCopies     = 1
	MaxCopies     = 9
	DefaultCopies = 3
)

// payloadHeaderSize is the scalar phase prefix of a serialized state.
const payloadHeaderSize = 8

// amplitudeSize is the serialized width of one amplitude (Re and Im bits).
const amplitudeSize = 16

// Encoder wraps state vectors in redundancy layers.
type Encoder struct {
	copies int
}

// Option configures an Encoder.
type Option func(*Encoder)

// WithCopies sets the repetition count of the verbatim copy layer.
func WithCopies(n int) Option {
	return func(e *Encoder) {
		e.copies = n
	}
}

// New creates an Encoder.
func New(opts ...Option) (*Encoder, error) {
	e := &Encoder{copies: DefaultCopies}

	for _, opt := range opts {
		opt(e)
	}

	if e.copies < MinCopies || e.copies > MaxCopies {
		return nil, &ErrInvalidParameter{Param: "copies", Value: e.copies, Constraint: "in [1,9]"}
	}

	return e, nil
}

// Copies returns the repetition count.
func (e *Encoder) Copies() int {
	return e.copies
}

// Encoded is the redundancy envelope around one state vector.
type Encoded struct {
	// Copies holds identical serialized payloads; the payload embeds the
	// scalar phase followed by the raw amplitude float bits.
	Copies [][]byte `json:"copies" msgpack:"copies"`
	// Parity carries one even-parity bit per payload byte.
	Parity []byte `json:"parity" msgpack:"parity"`
	// Hamming carries two Hamming(7,4) codewords per payload byte.
	Hamming []byte `json:"hamming" msgpack:"hamming"`
	// Syndromes records the per-codeword syndromes observed at encode time.
	// A freshly encoded state always yields zeros; decoders compare against
	// them to distinguish transport damage from pre-existing damage.
	Syndromes []byte `json:"syndromes" msgpack:"syndromes"`
	// Checksum is the SHA-256 digest of the payload.
	Checksum []byte `json:"checksum" msgpack:"checksum"`

	EntanglementID string    `json:"entanglement_id,omitempty" msgpack:"entanglement_id,omitempty"`
	CreatedAt      time.Time `json:"created_at" msgpack:"created_at"`
}

// AmplitudeCount returns the number of amplitudes in the encoded payload.
func (enc *Encoded) AmplitudeCount() int {
	if len(enc.Copies) == 0 {
		return 0
	}

	return (len(enc.Copies[0]) - payloadHeaderSize) / amplitudeSize
}

// EncodeWithErrorCorrection wraps state in all redundancy layers.
func (e *Encoder) EncodeWithErrorCorrection(state *quantum.StateVector) (*Encoded, error) {
	if state == nil {
		return nil, ErrNilState
	}

	payload := statePayload(state)

	hamming := hammingEncode(payload)
	syndromes := make([]byte, len(hamming))
	for i, cw := range hamming {
		syndromes[i] = byte(hammingSyndrome(cw))
	}

	copies := make([][]byte, e.copies)
	for i := range copies {
		copies[i] = append([]byte(nil), payload...)
	}

	sum := sha256.Sum256(payload)

	return &Encoded{
		Copies:         copies,
		Parity:         parityBits(payload),
		Hamming:        hamming,
		Syndromes:      syndromes,
		Checksum:       sum[:],
		EntanglementID: state.EntanglementID(),
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// statePayload serializes a state into the fixed payload layout: 8 bytes of
// phase float bits followed by 16 bytes per amplitude.
func statePayload(state *quantum.StateVector) []byte {
	buf := make([]byte, payloadHeaderSize+amplitudeSize*state.Len())
	binary.LittleEndian.PutUint64(buf, math.Float64bits(state.Phase()))

	for i := 0; i < state.Len(); i++ {
		a := state.Amplitude(i)
		off := payloadHeaderSize + amplitudeSize*i
		binary.LittleEndian.PutUint64(buf[off:], math.Float64bits(a.Re))
		binary.LittleEndian.PutUint64(buf[off+8:], math.Float64bits(a.Im))
	}

	return buf
}

// payloadState deserializes a payload back into a state vector. The payload
// is trusted as-is; run VerifyStateIntegrity on the result if the envelope
// could not be fully corrected.
func payloadState(payload []byte, entanglementID string) (*quantum.StateVector, error) {
	if len(payload) < payloadHeaderSize+amplitudeSize {
		return nil, &ErrMalformedEncoding{Reason: "payload too short"}
	}

	if (len(payload)-payloadHeaderSize)%amplitudeSize != 0 {
		return nil, &ErrMalformedEncoding{Reason: "payload length is not amplitude aligned"}
	}

	phase := math.Float64frombits(binary.LittleEndian.Uint64(payload))

	n := (len(payload) - payloadHeaderSize) / amplitudeSize
	amps := make([]quantum.Amplitude, n)
	for i := range amps {
		off := payloadHeaderSize + amplitudeSize*i
		amps[i] = quantum.Amplitude{
			Re: math.Float64frombits(binary.LittleEndian.Uint64(payload[off:])),
			Im: math.Float64frombits(binary.LittleEndian.Uint64(payload[off+8:])),
		}
	}

	return quantum.RestoreStateVector(amps, phase, entanglementID), nil
}
