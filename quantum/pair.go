package quantum

import (
	"math"

	"github.com/google/uuid"
)

// MinPairCorrelation is the weakest correlation at which two states may
// still be entangled.
const MinPairCorrelation = 0.01

// EntanglementPair links two state vectors whose amplitude sequences are
// strongly correlated. Each pair carries a unique identifier, the measured
// correlation and a byte sequence quantized from the overlapping
// amplitudes of its members.
type EntanglementPair struct {
	id          string
	a, b        *StateVector
	correlation float64
	shared      []byte
}

// NewEntanglementPair entangles two states under a fresh identifier. Both
// members are tagged with the pair identifier, so the returned pair holds
// copies rather than the inputs.
//
// It returns an ErrInsufficientCorrelation when the measured correlation is
// below MinPairCorrelation.
func NewEntanglementPair(a, b *StateVector, correlation float64) (*EntanglementPair, error) {
	if a == nil || b == nil {
		return nil, ErrNilState
	}
	if correlation < MinPairCorrelation {
		return nil, &ErrInsufficientCorrelation{Correlation: correlation, Min: MinPairCorrelation}
	}

	id := uuid.NewString()

	return &EntanglementPair{
		id:          id,
		a:           a.WithEntanglementID(id),
		b:           b.WithEntanglementID(id),
		correlation: correlation,
		shared:      sharedInformation(a, b),
	}, nil
}

// RestoreEntanglementPair rebuilds a previously serialized pair without
// re-checking the correlation threshold. Members are tagged with the stored
// identifier.
func RestoreEntanglementPair(id string, a, b *StateVector, correlation float64, shared []byte) *EntanglementPair {
	s := make([]byte, len(shared))
	copy(s, shared)

	return &EntanglementPair{
		id:          id,
		a:           a.WithEntanglementID(id),
		b:           b.WithEntanglementID(id),
		correlation: correlation,
		shared:      s,
	}
}

// sharedInformation quantizes the mean magnitude of each overlapping
// amplitude position to a byte.
func sharedInformation(a, b *StateVector) []byte {
	n := a.Len()
	if b.Len() < n {
		n = b.Len()
	}

	shared := make([]byte, n)
	for i := 0; i < n; i++ {
		mean := (a.Amplitude(i).Magnitude() + b.Amplitude(i).Magnitude()) / 2
		v := math.Round(mean * 255)
		if v < 0 {
			v = 0
		} else if v > 255 {
			v = 255
		}
		shared[i] = byte(v)
	}

	return shared
}

// ID returns the unique identifier of the pair.
func (p *EntanglementPair) ID() string {
	return p.id
}

// A returns the first member of the pair.
func (p *EntanglementPair) A() *StateVector {
	return p.a
}

// B returns the second member of the pair.
func (p *EntanglementPair) B() *StateVector {
	return p.b
}

// Correlation returns the correlation measured when the pair was formed.
func (p *EntanglementPair) Correlation() float64 {
	return p.correlation
}

// SharedInformation returns the byte sequence derived from the overlapping
// amplitudes. The returned slice must not be modified.
func (p *EntanglementPair) SharedInformation() []byte {
	return p.shared
}

// Break dissolves the pair and returns both members with their
// entanglement back-references cleared. The pair itself is unchanged.
func (p *EntanglementPair) Break() (*StateVector, *StateVector) {
	return p.a.ClearEntanglement(), p.b.ClearEntanglement()
}
