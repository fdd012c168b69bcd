package convert

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Analysis summarizes the byte-level structure of an input and recommends
// conversion parameters for it.
type Analysis struct {
	// Entropy is the Shannon entropy of the byte distribution in bits,
	// in [0,8].
	Entropy float64
	// RepetitionRate is the fraction of positions whose byte equals its
	// predecessor.
	RepetitionRate float64
	// Frequencies counts occurrences per byte value.
	Frequencies [256]int
	// UniqueBytes is the number of distinct byte values present.
	UniqueBytes int

	RecommendedChunkSize int
	RecommendedBitDepth  int
}

// Entropy returns the Shannon entropy of data's byte distribution in bits.
// Empty data has entropy 0.
func Entropy(data []byte) float64 {
	if len(data) == 0 {
		return 0
	}

	var counts [256]int
	for _, b := range data {
		counts[b]++
	}

	probs := make([]float64, 0, 256)
	n := float64(len(data))
	for _, c := range counts {
		if c > 0 {
			probs = append(probs, float64(c)/n)
		}
	}

	return stat.Entropy(probs) / math.Ln2
}

// AnalyzeDataPatterns profiles the byte distribution of data and derives
// recommended conversion parameters: high-entropy data gets larger chunks
// (structure must be found across more bytes), low-entropy data smaller
// ones; the recommended bit depth covers the distinct byte values present.
//
// Empty data yields a zero Analysis recommending the defaults.
func AnalyzeDataPatterns(data []byte) Analysis {
	a := Analysis{
		RecommendedChunkSize: DefaultChunkSize,
		RecommendedBitDepth:  DefaultBitDepth,
	}
	if len(data) == 0 {
		return a
	}

	for _, b := range data {
		a.Frequencies[b]++
	}
	for _, c := range a.Frequencies {
		if c > 0 {
			a.UniqueBytes++
		}
	}

	repeats := 0
	for i := 1; i < len(data); i++ {
		if data[i] == data[i-1] {
			repeats++
		}
	}
	if len(data) > 1 {
		a.RepetitionRate = float64(repeats) / float64(len(data)-1)
	}

	a.Entropy = Entropy(data)

	switch {
	case a.Entropy >= 7:
		a.RecommendedChunkSize = 16
	case a.Entropy >= 5:
		a.RecommendedChunkSize = 8
	case a.Entropy >= 3:
		a.RecommendedChunkSize = 4
	default:
		a.RecommendedChunkSize = 2
	}

	bits := int(math.Ceil(math.Log2(float64(a.UniqueBytes))))
	if bits < MinBitDepth {
		bits = MinBitDepth
	} else if bits > MaxBitDepth {
		bits = MaxBitDepth
	}
	a.RecommendedBitDepth = bits

	return a
}

// OptimizeForData returns a new Converter tuned to the structure of data
// via AnalyzeDataPatterns. The receiver is unchanged.
func (c *Converter) OptimizeForData(data []byte) (*Converter, error) {
	a := AnalyzeDataPatterns(data)

	return New(
		WithBitDepth(a.RecommendedBitDepth),
		WithChunkSize(a.RecommendedChunkSize),
	)
}
