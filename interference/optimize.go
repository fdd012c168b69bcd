package interference

import (
	"math"
	"math/cmplx"

	"github.com/qfold/qfold/quantum"
)

// Optimization is the result of a single optimization pass.
type Optimization struct {
	// States holds the (possibly phase-aligned) states. Magnitudes are
	// identical to the input.
	States   []*quantum.StateVector
	Patterns []Pattern

	ConstructiveCount int
	DestructiveCount  int

	// TotalAmplification is the probability mass added across all
	// constructive patterns, TotalSuppression the mass removed across all
	// destructive ones.
	TotalAmplification float64
	TotalSuppression   float64

	// ImprovementEstimate is the mean per-pattern effect in [0,1].
	ImprovementEstimate float64
}

// OptimizeQuantumStates pairs consecutive states, classifies the
// interference between each pair, and aligns the relative phase of the
// second member so the classified effect is maximal on the next pass.
// A leftover unpaired state passes through untouched, as does input with
// fewer than two states.
func (o *Optimizer) OptimizeQuantumStates(states []*quantum.StateVector) Optimization {
	if len(states) < 2 {
		return Optimization{States: states}
	}

	o.mu.RLock()
	amplification, suppression := o.amplificationFactor, o.suppressionFactor
	o.mu.RUnlock()

	opt := Optimization{States: make([]*quantum.StateVector, len(states))}
	copy(opt.States, states)

	for i := 0; i+1 < len(states); i += 2 {
		a, b := states[i], states[i+1]
		if a == nil || b == nil {
			continue
		}

		power, ip := pairPower(a, b)
		if power.total <= 0 {
			continue
		}

		p := Pattern{
			Kind:      Destructive,
			Phase:     (a.Phase() + b.Phase()) / 2,
			Frequency: math.Abs(a.Phase()-b.Phase()) / (2 * math.Pi),
			StateA:    i,
			StateB:    i + 1,
		}

		chosen := power.destructive
		if power.constructive > power.destructive {
			p.Kind = Constructive
			chosen = power.constructive
		}

		p.Probability = chosen / power.total
		p.Amplitude = math.Sqrt(p.Probability)

		if p.Kind == Constructive {
			opt.ConstructiveCount++
			opt.TotalAmplification += p.Probability * (amplification - 1)
		} else {
			opt.DestructiveCount++
			opt.TotalSuppression += p.Probability * (1 - suppression)
		}

		opt.Patterns = append(opt.Patterns, p)

		// Align the second member so the inner product becomes real:
		// positive for constructive pairs, negative for destructive ones.
		if cmplx.Abs(ip) > 0 {
			delta := cmplx.Phase(ip)
			if p.Kind == Destructive {
				delta -= math.Pi
			}

			if delta != 0 {
				opt.States[i+1] = rotateState(b, delta)
			}
		}
	}

	if n := len(opt.Patterns); n > 0 {
		estimate := (opt.TotalAmplification + opt.TotalSuppression) / float64(n)
		opt.ImprovementEstimate = math.Min(1, math.Max(0, estimate))
	}

	return opt
}

// IterativeResult reports the outcome of repeated optimization passes.
type IterativeResult struct {
	States []*quantum.StateVector
	// Patterns holds the descriptors from the final pass.
	Patterns []Pattern
	// Improvements records the estimate of every pass in order.
	Improvements []float64
	Iterations   int
	// Converged is true when two consecutive passes differed by less than
	// the convergence epsilon before the iteration cap.
	Converged bool
}

// PerformIterativeOptimization repeats OptimizeQuantumStates until the
// improvement estimate stabilizes or the iteration cap is hit.
func (o *Optimizer) PerformIterativeOptimization(states []*quantum.StateVector) IterativeResult {
	if len(states) < 2 {
		return IterativeResult{States: states, Converged: true}
	}

	maxIterations := o.MaxIterations()

	var (
		result IterativeResult
		prev   float64
	)

	current := states
	for i := 0; i < maxIterations; i++ {
		opt := o.OptimizeQuantumStates(current)
		current = opt.States

		result.Patterns = opt.Patterns
		result.Improvements = append(result.Improvements, opt.ImprovementEstimate)
		result.Iterations = i + 1

		if i > 0 && math.Abs(opt.ImprovementEstimate-prev) < convergenceEpsilon {
			result.Converged = true
			break
		}

		prev = opt.ImprovementEstimate
	}

	result.States = current
	return result
}

// pairPowers holds the combined amplitude powers of a state pair over their
// overlapping region.
type pairPowers struct {
	constructive float64
	destructive  float64
	total        float64
}

// pairPower computes the summed and differenced amplitude powers of a and b
// together with their complex inner product.
func pairPower(a, b *quantum.StateVector) (pairPowers, complex128) {
	n := a.Len()
	if b.Len() < n {
		n = b.Len()
	}

	var selfPower float64
	var ip complex128

	for i := 0; i < n; i++ {
		av, bv := a.Amplitude(i).Complex(), b.Amplitude(i).Complex()
		selfPower += real(av)*real(av) + imag(av)*imag(av) +
			real(bv)*real(bv) + imag(bv)*imag(bv)
		ip += av * cmplx.Conj(bv)
	}

	cross := 2 * real(ip)
	return pairPowers{
		constructive: selfPower + cross,
		destructive:  selfPower - cross,
		total:        2 * selfPower,
	}, ip
}

// rotateState advances the phase of every amplitude by delta. Magnitudes,
// the scalar phase and any entanglement tag are preserved, so the result is
// normalized exactly when the input is.
func rotateState(s *quantum.StateVector, delta float64) *quantum.StateVector {
	amps := make([]quantum.Amplitude, s.Len())
	for i, a := range s.Amplitudes() {
		amps[i] = a.Rotate(delta)
	}

	return quantum.RestoreStateVector(amps, s.Phase(), s.EntanglementID())
}
