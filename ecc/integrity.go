package ecc

import (
	"fmt"
	"math"

	"github.com/qfold/qfold/quantum"
)

// Integrity score cutoffs for the recommendation text.
const (
	excellentScore = 0.9
	degradedScore  = 0.6
)

// magnitudeSlack tolerates float rounding above the theoretical magnitude
// ceiling of a normalized state.
const magnitudeSlack = 1e-9

// IntegrityCheck is one independent structural check over a state.
type IntegrityCheck struct {
	Name   string
	Passed bool
	Detail string
}

// IntegrityReport scores the structural health of a state vector.
type IntegrityReport struct {
	// Score is the fraction of passed checks in [0,1].
	Score          float64
	Checks         []IntegrityCheck
	Recommendation string
}

// VerifyStateIntegrity runs independent structural checks over state. A
// non-nil reference adds comparative checks against a known-good copy. The
// report never carries an error; a nil state simply scores zero.
func VerifyStateIntegrity(state, reference *quantum.StateVector) IntegrityReport {
	if state == nil {
		return IntegrityReport{
			Checks:         []IntegrityCheck{{Name: "state present", Detail: "state is nil"}},
			Recommendation: recommendation(0),
		}
	}

	checks := []IntegrityCheck{
		checkFinite(state),
		checkMagnitudes(state),
		checkNormalization(state),
		checkNonDegenerate(state),
	}

	if reference != nil {
		checks = append(checks, checkReferenceLength(state, reference), checkReferenceCorrelation(state, reference))
	}

	var passed int
	for _, c := range checks {
		if c.Passed {
			passed++
		}
	}

	score := float64(passed) / float64(len(checks))

	return IntegrityReport{
		Score:          score,
		Checks:         checks,
		Recommendation: recommendation(score),
	}
}

func recommendation(score float64) string {
	switch {
	case score >= excellentScore:
		return "state integrity is excellent; no action needed"
	case score >= degradedScore:
		return "state integrity is degraded; re-encode from a verified copy"
	default:
		return "state integrity is compromised; discard and fall back to classical compression"
	}
}

func checkFinite(state *quantum.StateVector) IntegrityCheck {
	c := IntegrityCheck{Name: "finite values", Passed: true}

	if math.IsNaN(state.Phase()) || math.IsInf(state.Phase(), 0) {
		c.Passed = false
		c.Detail = "scalar phase is not finite"
		return c
	}

	for i := 0; i < state.Len(); i++ {
		if !state.Amplitude(i).IsFinite() {
			c.Passed = false
			c.Detail = fmt.Sprintf("amplitude %d is not finite", i)
			return c
		}
	}

	return c
}

func checkMagnitudes(state *quantum.StateVector) IntegrityCheck {
	c := IntegrityCheck{Name: "magnitude bounds", Passed: true}

	for i := 0; i < state.Len(); i++ {
		if m := state.Amplitude(i).Magnitude(); m > 1+magnitudeSlack || math.IsNaN(m) {
			c.Passed = false
			c.Detail = fmt.Sprintf("amplitude %d magnitude %v exceeds 1", i, m)
			return c
		}
	}

	return c
}

func checkNormalization(state *quantum.StateVector) IntegrityCheck {
	c := IntegrityCheck{Name: "normalization", Passed: state.IsNormalized()}
	if !c.Passed {
		c.Detail = fmt.Sprintf("total probability %v", state.TotalProbability())
	}

	return c
}

func checkNonDegenerate(state *quantum.StateVector) IntegrityCheck {
	c := IntegrityCheck{Name: "non-degenerate"}

	for i := 0; i < state.Len(); i++ {
		if !state.Amplitude(i).IsZero() {
			c.Passed = true
			return c
		}
	}

	c.Detail = "all amplitudes are zero"
	return c
}

func checkReferenceLength(state, reference *quantum.StateVector) IntegrityCheck {
	c := IntegrityCheck{Name: "reference length", Passed: state.Len() == reference.Len()}
	if !c.Passed {
		c.Detail = fmt.Sprintf("got %d amplitudes, reference has %d", state.Len(), reference.Len())
	}

	return c
}

// referenceCorrelationFloor is the minimum cosine similarity against a
// reference copy for the comparative check to pass.
const referenceCorrelationFloor = 0.99

func checkReferenceCorrelation(state, reference *quantum.StateVector) IntegrityCheck {
	corr := quantum.NormalizedCorrelation(state.Amplitudes(), reference.Amplitudes())

	c := IntegrityCheck{Name: "reference correlation", Passed: corr >= referenceCorrelationFloor}
	if !c.Passed {
		c.Detail = fmt.Sprintf("correlation %v below %v", corr, referenceCorrelationFloor)
	}

	return c
}
