package quantum

import (
	"math"
	"math/cmplx"
)

// Amplitude is a single complex amplitude. It is kept as an explicit
// (real, imaginary) pair so it serializes cleanly through codecs that have
// no native complex type.
type Amplitude struct {
	Re float64 `json:"re" msgpack:"re"`
	Im float64 `json:"im" msgpack:"im"`
}

// NewAmplitude returns the amplitude re + im*i.
func NewAmplitude(re, im float64) Amplitude {
	return Amplitude{Re: re, Im: im}
}

// Polar returns the amplitude with the given magnitude and phase angle
// (radians).
func Polar(magnitude, phase float64) Amplitude {
	return Amplitude{
		Re: magnitude * math.Cos(phase),
		Im: magnitude * math.Sin(phase),
	}
}

// Complex returns the amplitude as a complex128.
func (a Amplitude) Complex() complex128 {
	return complex(a.Re, a.Im)
}

// Add returns a + b.
func (a Amplitude) Add(b Amplitude) Amplitude {
	return Amplitude{Re: a.Re + b.Re, Im: a.Im + b.Im}
}

// Sub returns a - b.
func (a Amplitude) Sub(b Amplitude) Amplitude {
	return Amplitude{Re: a.Re - b.Re, Im: a.Im - b.Im}
}

// Mul returns the complex product a * b.
func (a Amplitude) Mul(b Amplitude) Amplitude {
	return Amplitude{
		Re: a.Re*b.Re - a.Im*b.Im,
		Im: a.Re*b.Im + a.Im*b.Re,
	}
}

// Scale returns a scaled by the real factor f.
func (a Amplitude) Scale(f float64) Amplitude {
	return Amplitude{Re: a.Re * f, Im: a.Im * f}
}

// Conj returns the complex conjugate of a.
func (a Amplitude) Conj() Amplitude {
	return Amplitude{Re: a.Re, Im: -a.Im}
}

// Rotate returns a with its phase advanced by delta radians. The magnitude
// is unchanged.
func (a Amplitude) Rotate(delta float64) Amplitude {
	return a.Mul(Polar(1, delta))
}

// Magnitude returns |a|.
func (a Amplitude) Magnitude() float64 {
	return math.Hypot(a.Re, a.Im)
}

// Probability returns |a|^2, the probability mass carried by the amplitude.
func (a Amplitude) Probability() float64 {
	return a.Re*a.Re + a.Im*a.Im
}

// Phase returns the phase angle of a in (-pi, pi].
func (a Amplitude) Phase() float64 {
	return math.Atan2(a.Im, a.Re)
}

// Distance returns the Euclidean distance |a - b| in the complex plane.
func (a Amplitude) Distance(b Amplitude) float64 {
	return math.Hypot(a.Re-b.Re, a.Im-b.Im)
}

// IsFinite reports whether both components are finite numbers.
func (a Amplitude) IsFinite() bool {
	return !math.IsNaN(a.Re) && !math.IsInf(a.Re, 0) &&
		!math.IsNaN(a.Im) && !math.IsInf(a.Im, 0)
}

// IsZero reports whether a is exactly zero.
func (a Amplitude) IsZero() bool {
	return a.Re == 0 && a.Im == 0
}

// Correlation returns the mean inner-product correlation between two
// amplitude sequences:
//
//	|sum_i a_i * conj(b_i)| / n
//
// where n is the length of the shorter sequence. For two identical
// normalized state vectors this evaluates to 1/n. The result is 0 when
// either sequence is empty.
func Correlation(a, b []Amplitude) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}

	var sum complex128
	for i := 0; i < n; i++ {
		sum += a[i].Complex() * cmplx.Conj(b[i].Complex())
	}

	return cmplx.Abs(sum) / float64(n)
}

// NormalizedCorrelation returns the cosine-style correlation
//
//	|sum_i a_i * conj(b_i)| / (|a| * |b|)
//
// over the shared prefix of the two sequences. The result lies in [0, 1]
// and is 1 for proportional sequences. It is 0 when either norm vanishes.
func NormalizedCorrelation(a, b []Amplitude) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n == 0 {
		return 0
	}

	var sum complex128
	var na, nb float64

	for i := 0; i < n; i++ {
		ca, cb := a[i].Complex(), b[i].Complex()
		sum += ca * cmplx.Conj(cb)
		na += real(ca)*real(ca) + imag(ca)*imag(ca)
		nb += real(cb)*real(cb) + imag(cb)*imag(cb)
	}

	if na == 0 || nb == 0 {
		return 0
	}

	return cmplx.Abs(sum) / math.Sqrt(na*nb)
}
