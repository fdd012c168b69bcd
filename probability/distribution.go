package probability

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/qfold/qfold/quantum"
)

// clusterCount is the number of Lloyd's clusters fitted over probability
// samples (capped by the sample count).
const clusterCount = 3

// clusterIterations bounds the Lloyd's refinement loop.
const clusterIterations = 25

// Interval is a two-sided confidence interval.
type Interval struct {
	Low   float64
	High  float64
	Level float64
}

// Outlier flags a sampled probability value far from the sample mean.
type Outlier struct {
	StateIndex     int
	AmplitudeIndex int
	Probability    float64
	ZScore         float64
}

// Cluster is one Lloyd's cluster over sampled probability values.
type Cluster struct {
	Center float64
	Size   int
}

// DistributionAnalysis is the result of analyzing the probability structure
// of a state sequence.
type DistributionAnalysis struct {
	TotalStates   int
	SampledStates int
	SampleCount   int

	// MeanEntropy and EntropyVariance describe the per-state Shannon
	// entropies (bits) of the sampled states.
	MeanEntropy     float64
	EntropyVariance float64
	// NormalizedEntropy is the mean per-state entropy scaled into [0,1] by
	// each state's maximum possible entropy.
	NormalizedEntropy float64

	// MeanProbability averages all sampled probability values.
	MeanProbability float64
	// Histogram counts sampled probability values in fixed bins over [0,1].
	Histogram []int
	Outliers  []Outlier
	// ConfidenceInterval bounds the mean probability at the analyzer's
	// confidence level.
	ConfidenceInterval Interval
	Clusters           []Cluster
}

// AnalyzeProbabilityDistributions samples states at the configured rate and
// profiles their probability masses: per-state entropy statistics, a
// fixed-bin histogram, z-score outliers, a confidence interval for the mean
// probability, and clusters over the sampled values.
//
// Empty input returns a zero analysis, never an error.
func (a *Analyzer) AnalyzeProbabilityDistributions(states []*quantum.StateVector) DistributionAnalysis {
	res := DistributionAnalysis{TotalStates: len(states)}
	if len(states) == 0 {
		return res
	}

	indices := a.sampleIndices(len(states))
	res.SampledStates = len(indices)

	var (
		entropies  []float64
		normDenoms float64
		values     []float64
		positions  [][2]int
	)

	for _, si := range indices {
		s := states[si]
		probs := s.Probabilities()

		var entropy float64
		for ai, p := range probs {
			values = append(values, p)
			positions = append(positions, [2]int{si, ai})
			if p > 0 {
				entropy -= p * math.Log2(p)
			}
		}
		entropies = append(entropies, entropy)

		if n := len(probs); n > 1 {
			normDenoms += entropy / math.Log2(float64(n))
		}
	}

	res.SampleCount = len(values)
	res.MeanEntropy, res.EntropyVariance = stat.MeanVariance(entropies, nil)
	if len(entropies) < 2 {
		res.EntropyVariance = 0
	}
	res.NormalizedEntropy = normDenoms / float64(len(entropies))

	mean, std := stat.MeanStdDev(values, nil)
	if len(values) < 2 || math.IsNaN(std) {
		std = 0
	}
	res.MeanProbability = mean

	res.Histogram = make([]int, a.distributionBins)
	for _, v := range values {
		bin := int(v * float64(a.distributionBins))
		if bin >= a.distributionBins {
			bin = a.distributionBins - 1
		} else if bin < 0 {
			bin = 0
		}
		res.Histogram[bin]++
	}

	if std > 0 {
		for i, v := range values {
			z := math.Abs(v-mean) / std
			if z > a.outlierThreshold {
				res.Outliers = append(res.Outliers, Outlier{
					StateIndex:     positions[i][0],
					AmplitudeIndex: positions[i][1],
					Probability:    v,
					ZScore:         z,
				})
			}
		}
	}

	zStar := distuv.Normal{Mu: 0, Sigma: 1}.Quantile(0.5 + a.confidenceLevel/2)
	margin := zStar * std / math.Sqrt(float64(len(values)))
	res.ConfidenceInterval = Interval{Low: mean - margin, High: mean + margin, Level: a.confidenceLevel}

	res.Clusters = clusterSamples(values, clusterCount, clusterIterations)

	return res
}

// EstimateCompressionPotential derives a [0,1] score from a prior
// distribution analysis: low entropy, concentrated clusters and few
// outliers all indicate compressible structure.
//
//	0.5*(1-normalizedEntropy) + 0.3*largestClusterShare + 0.2*(1-outlierShare)
func (a *Analyzer) EstimateCompressionPotential(analysis DistributionAnalysis) float64 {
	if analysis.SampleCount == 0 {
		return 0
	}

	var largest int
	for _, c := range analysis.Clusters {
		if c.Size > largest {
			largest = c.Size
		}
	}
	clusterShare := float64(largest) / float64(analysis.SampleCount)
	outlierShare := float64(len(analysis.Outliers)) / float64(analysis.SampleCount)

	potential := 0.5*(1-analysis.NormalizedEntropy) + 0.3*clusterShare + 0.2*(1-outlierShare)
	if potential < 0 {
		return 0
	}
	if potential > 1 {
		return 1
	}
	return potential
}

// clusterSamples runs Lloyd's algorithm over one-dimensional values with
// deterministic quantile initialization. Empty clusters are dropped from
// the result; clusters are sorted by center ascending.
func clusterSamples(values []float64, k, maxIter int) []Cluster {
	if len(values) == 0 {
		return nil
	}
	if k > len(values) {
		k = len(values)
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	centers := make([]float64, k)
	for j := range centers {
		idx := (2*j + 1) * (len(sorted) - 1) / (2 * k)
		centers[j] = sorted[idx]
	}

	assignments := make([]int, len(values))

	for iter := 0; iter < maxIter; iter++ {
		changed := false

		// Assignment step.
		for i, v := range values {
			best := 0
			bestDist := math.Abs(v - centers[0])
			for j := 1; j < k; j++ {
				if d := math.Abs(v - centers[j]); d < bestDist {
					bestDist = d
					best = j
				}
			}
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}

		if !changed && iter > 0 {
			break
		}

		// Update step. Empty clusters keep their center.
		sums := make([]float64, k)
		counts := make([]int, k)
		for i, v := range values {
			sums[assignments[i]] += v
			counts[assignments[i]]++
		}
		for j := 0; j < k; j++ {
			if counts[j] > 0 {
				centers[j] = sums[j] / float64(counts[j])
			}
		}
	}

	counts := make([]int, k)
	for _, c := range assignments {
		counts[c]++
	}

	clusters := make([]Cluster, 0, k)
	for j := 0; j < k; j++ {
		if counts[j] > 0 {
			clusters = append(clusters, Cluster{Center: centers[j], Size: counts[j]})
		}
	}

	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i].Center < clusters[j].Center
	})

	return clusters
}
