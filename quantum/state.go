package quantum

import (
	"encoding/binary"
	"hash/fnv"
	"math"
)

// NormTolerance is the tolerance within which a state vector's total
// probability is considered equal to 1.
const NormTolerance = 1e-10

// StateVector is a normalized sequence of complex amplitudes together with a
// scalar phase. State vectors are immutable once constructed; all
// transformations return new instances.
//
// The total probability (sum of squared magnitudes) of a constructed state
// is always 1 within NormTolerance.
type StateVector struct {
	amplitudes     []Amplitude
	phase          float64
	entanglementID string
}

// NewStateVector constructs a normalized state vector from the given
// amplitudes and scalar phase. The input slice is copied.
//
// It returns ErrNoAmplitudes for an empty sequence, an
// ErrNonFiniteAmplitude if any amplitude contains NaN or an infinity, and
// ErrDegenerateState if all amplitudes are zero.
func NewStateVector(amplitudes []Amplitude, phase float64) (*StateVector, error) {
	if len(amplitudes) == 0 {
		return nil, ErrNoAmplitudes
	}

	var norm2 float64
	for i, a := range amplitudes {
		if !a.IsFinite() {
			return nil, &ErrNonFiniteAmplitude{Index: i}
		}
		norm2 += a.Probability()
	}

	if norm2 == 0 {
		return nil, ErrDegenerateState
	}

	amps := make([]Amplitude, len(amplitudes))
	copy(amps, amplitudes)

	if math.Abs(norm2-1) > NormTolerance {
		inv := 1 / math.Sqrt(norm2)
		for i := range amps {
			amps[i] = amps[i].Scale(inv)
		}
	}

	return &StateVector{amplitudes: amps, phase: phase}, nil
}

// RestoreStateVector rebuilds a state vector from previously serialized
// components without re-normalizing or validating. It is intended for
// decoders that restore states whose invariants were established at encode
// time; integrity of restored states is checked separately.
func RestoreStateVector(amplitudes []Amplitude, phase float64, entanglementID string) *StateVector {
	amps := make([]Amplitude, len(amplitudes))
	copy(amps, amplitudes)

	return &StateVector{
		amplitudes:     amps,
		phase:          phase,
		entanglementID: entanglementID,
	}
}

// Len returns the number of amplitudes.
func (v *StateVector) Len() int {
	return len(v.amplitudes)
}

// Amplitudes returns the amplitude sequence. The returned slice must not be
// modified.
func (v *StateVector) Amplitudes() []Amplitude {
	return v.amplitudes
}

// Amplitude returns the amplitude at index i.
func (v *StateVector) Amplitude(i int) Amplitude {
	return v.amplitudes[i]
}

// Phase returns the scalar phase of the state.
func (v *StateVector) Phase() float64 {
	return v.phase
}

// EntanglementID returns the identifier of the entanglement pair this state
// belongs to, or the empty string if the state is not entangled.
func (v *StateVector) EntanglementID() string {
	return v.entanglementID
}

// Entangled reports whether the state belongs to an entanglement pair.
func (v *StateVector) Entangled() bool {
	return v.entanglementID != ""
}

// WithEntanglementID returns a copy of the state tagged with the given
// entanglement pair identifier.
func (v *StateVector) WithEntanglementID(id string) *StateVector {
	c := *v
	c.entanglementID = id
	return &c
}

// ClearEntanglement returns a copy of the state with no entanglement
// back-reference.
func (v *StateVector) ClearEntanglement() *StateVector {
	return v.WithEntanglementID("")
}

// TotalProbability returns the sum of squared amplitude magnitudes.
func (v *StateVector) TotalProbability() float64 {
	var sum float64
	for _, a := range v.amplitudes {
		sum += a.Probability()
	}
	return sum
}

// IsNormalized reports whether the total probability is 1 within
// NormTolerance.
func (v *StateVector) IsNormalized() bool {
	return math.Abs(v.TotalProbability()-1) <= NormTolerance
}

// Probabilities returns the squared magnitude of each amplitude.
func (v *StateVector) Probabilities() []float64 {
	probs := make([]float64, len(v.amplitudes))
	for i, a := range v.amplitudes {
		probs[i] = a.Probability()
	}
	return probs
}

// Fingerprint returns a 64-bit structural key over the amplitudes and
// phase. Two states with identical contents share a fingerprint, which
// makes it suitable as a memoization key.
func (v *StateVector) Fingerprint() uint64 {
	h := fnv.New64a()

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v.phase))
	_, _ = h.Write(buf[:])

	for _, a := range v.amplitudes {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(a.Re))
		_, _ = h.Write(buf[:])
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(a.Im))
		_, _ = h.Write(buf[:])
	}

	return h.Sum64()
}
