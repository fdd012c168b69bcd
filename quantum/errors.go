package quantum

import (
	"errors"
	"fmt"
)

var (
	// ErrNoAmplitudes is returned when a state vector is constructed from an
	// empty amplitude sequence.
	ErrNoAmplitudes = errors.New("state vector requires at least one amplitude")

	// ErrDegenerateState is returned when an all-zero amplitude sequence
	// cannot be normalized.
	ErrDegenerateState = errors.New("degenerate state: zero norm cannot be normalized")

	// ErrNoStates is returned when a superposition is constructed from an
	// empty state list.
	ErrNoStates = errors.New("superposition requires at least one state")

	// ErrZeroWeightSum is returned when superposition weights sum to zero
	// and cannot be normalized.
	ErrZeroWeightSum = errors.New("superposition weights sum to zero")

	// ErrNilState is returned when a nil state vector is passed where a
	// value is required.
	ErrNilState = errors.New("nil state vector")
)

// ErrNonFiniteAmplitude indicates an amplitude containing NaN or an infinity
// at construction time.
type ErrNonFiniteAmplitude struct {
	Index int
}

func (e *ErrNonFiniteAmplitude) Error() string {
	return fmt.Sprintf("non-finite amplitude at index %d", e.Index)
}

// ErrWeightMismatch indicates that the number of superposition weights does
// not match the number of constituent states.
type ErrWeightMismatch struct {
	States  int
	Weights int
}

func (e *ErrWeightMismatch) Error() string {
	return fmt.Sprintf("weight count mismatch: %d states, %d weights", e.States, e.Weights)
}

// ErrNegativeWeight indicates a negative superposition weight.
type ErrNegativeWeight struct {
	Index  int
	Weight float64
}

func (e *ErrNegativeWeight) Error() string {
	return fmt.Sprintf("negative weight %g at index %d", e.Weight, e.Index)
}

// ErrInsufficientCorrelation indicates two states too weakly correlated to
// form an entanglement pair.
type ErrInsufficientCorrelation struct {
	Correlation float64
	Min         float64
}

func (e *ErrInsufficientCorrelation) Error() string {
	return fmt.Sprintf("correlation %.6f below minimum %.6f", e.Correlation, e.Min)
}
