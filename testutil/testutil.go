package testutil

import (
	"math"
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns, as a float64, a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// lexicon feeds TextLike. Word lengths vary so chunk boundaries do not
// align with word boundaries.
var lexicon = []string{
	"the", "of", "and", "state", "pattern", "quantum", "data", "archive",
	"signal", "measure", "amplitude", "phase", "probability", "compress",
	"entangle", "interfere", "superposition", "byte", "wave", "collapse",
}

// TextLike generates n bytes of prose-shaped data: lexicon words joined
// by spaces with sentence punctuation. Entropy lands well below 8
// bits/byte, which keeps the quantum path effective.
func (r *RNG) TextLike(n int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]byte, 0, n+16)
	wordsInSentence := 0

	for len(data) < n {
		word := lexicon[r.rand.Intn(len(lexicon))]
		data = append(data, word...)
		wordsInSentence++

		if wordsInSentence >= 6+r.rand.Intn(8) {
			data = append(data, '.', ' ')
			wordsInSentence = 0
		} else {
			data = append(data, ' ')
		}
	}

	return data[:n]
}

// BinaryLike generates n bytes of record-shaped data: a repeating header,
// an incrementing counter and a short random tail per record, padded with
// zeros the way fixed-width formats are.
func (r *RNG) BinaryLike(n int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	const recordSize = 32

	data := make([]byte, 0, n+recordSize)

	for record := 0; len(data) < n; record++ {
		data = append(data, 0xCA, 0xFE, byte(record>>8), byte(record))

		for i := 0; i < 4; i++ {
			data = append(data, byte(r.rand.Intn(256)))
		}

		for len(data)%recordSize != 0 {
			data = append(data, 0x00)
		}
	}

	return data[:n]
}

// Repetitive generates n bytes repeating a period-length motif, with
// roughly one corrupted byte per five periods so runs are long but not
// degenerate.
func (r *RNG) Repetitive(n, period int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	if period <= 0 {
		period = 16
	}

	motif := make([]byte, period)
	for i := range motif {
		motif[i] = byte(r.rand.Intn(256))
	}

	data := make([]byte, n)
	for i := range data {
		data[i] = motif[i%period]
	}

	noise := n / (period * 5)
	for i := 0; i < noise; i++ {
		data[r.rand.Intn(n)] = byte(r.rand.Intn(256))
	}

	return data
}

// HighEntropy generates n uniformly random bytes, the adversarial case
// where the quantum path gains nothing.
func (r *RNG) HighEntropy(n int) []byte {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]byte, n)
	for i := range data {
		data[i] = byte(r.rand.Intn(256))
	}

	return data
}

// MaxDeviation returns the largest absolute per-byte difference between
// two buffers. Buffers of different lengths compare over the shorter
// prefix; the length difference is the caller's problem.
func MaxDeviation(a, b []byte) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var maxDev float64
	for i := 0; i < n; i++ {
		dev := math.Abs(float64(a[i]) - float64(b[i]))
		if dev > maxDev {
			maxDev = dev
		}
	}

	return maxDev
}

// MeanDeviation returns the average absolute per-byte difference between
// two buffers over their shared prefix.
func MeanDeviation(a, b []byte) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	if n == 0 {
		return 0
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(float64(a[i]) - float64(b[i]))
	}

	return sum / float64(n)
}
