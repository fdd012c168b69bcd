package probability

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// TestResult is the outcome of one two-sample significance test.
type TestResult struct {
	Statistic float64
	PValue    float64
	// Significant is true when the p-value falls below 1 minus the
	// analyzer's confidence level.
	Significant bool
}

// SignificanceTests bundles the three supported two-sample comparisons.
type SignificanceTests struct {
	KolmogorovSmirnov TestResult
	MannWhitneyU      TestResult
	ChiSquare         TestResult
}

// PerformSignificanceTests compares two sample distributions with the
// Kolmogorov-Smirnov, Mann-Whitney U and Chi-square tests, following their
// standard reference formulations (asymptotic p-values, normal
// approximation for Mann-Whitney). Either sample being empty fails with
// ErrEmptyDistribution.
func (a *Analyzer) PerformSignificanceTests(distA, distB []float64) (SignificanceTests, error) {
	if len(distA) == 0 || len(distB) == 0 {
		return SignificanceTests{}, ErrEmptyDistribution
	}

	alpha := 1 - a.confidenceLevel

	ks := kolmogorovSmirnov(distA, distB)
	mw := mannWhitneyU(distA, distB)
	chi := chiSquare(distA, distB, a.distributionBins)

	ks.Significant = ks.PValue < alpha
	mw.Significant = mw.PValue < alpha
	chi.Significant = chi.PValue < alpha

	return SignificanceTests{
		KolmogorovSmirnov: ks,
		MannWhitneyU:      mw,
		ChiSquare:         chi,
	}, nil
}

// kolmogorovSmirnov computes the two-sample KS statistic (maximum distance
// between empirical CDFs) with the asymptotic Kolmogorov p-value.
func kolmogorovSmirnov(a, b []float64) TestResult {
	sa := sortedCopy(a)
	sb := sortedCopy(b)

	na, nb := float64(len(sa)), float64(len(sb))

	var d float64
	i, j := 0, 0
	for i < len(sa) && j < len(sb) {
		x := math.Min(sa[i], sb[j])
		for i < len(sa) && sa[i] <= x {
			i++
		}
		for j < len(sb) && sb[j] <= x {
			j++
		}
		if dist := math.Abs(float64(i)/na - float64(j)/nb); dist > d {
			d = dist
		}
	}

	ne := na * nb / (na + nb)
	lambda := d * (math.Sqrt(ne) + 0.12 + 0.11/math.Sqrt(ne))

	return TestResult{Statistic: d, PValue: ksProbability(lambda)}
}

// ksProbability evaluates the Kolmogorov distribution tail
// 2*sum_{j>=1} (-1)^(j-1) exp(-2 j^2 lambda^2), returning 1 when the series
// fails to converge (small lambda).
func ksProbability(lambda float64) float64 {
	a2 := -2 * lambda * lambda
	fac := 2.0
	sum := 0.0
	prev := 0.0

	for j := 1; j <= 100; j++ {
		term := fac * math.Exp(a2*float64(j*j))
		sum += term
		if math.Abs(term) <= 0.001*prev || math.Abs(term) <= 1e-8*math.Abs(sum) {
			if sum < 0 {
				return 0
			}
			if sum > 1 {
				return 1
			}
			return sum
		}
		fac = -fac
		prev = math.Abs(term)
	}

	return 1
}

// mannWhitneyU computes the rank-sum U statistic with midranks for ties and
// a two-sided normal-approximation p-value.
func mannWhitneyU(a, b []float64) TestResult {
	type sample struct {
		value float64
		fromA bool
	}

	all := make([]sample, 0, len(a)+len(b))
	for _, v := range a {
		all = append(all, sample{value: v, fromA: true})
	}
	for _, v := range b {
		all = append(all, sample{value: v})
	}

	sort.Slice(all, func(i, j int) bool { return all[i].value < all[j].value })

	// Midranks over tie runs.
	ranks := make([]float64, len(all))
	for i := 0; i < len(all); {
		j := i
		for j < len(all) && all[j].value == all[i].value {
			j++
		}
		mid := float64(i+j+1) / 2 // average of 1-based ranks i+1..j
		for k := i; k < j; k++ {
			ranks[k] = mid
		}
		i = j
	}

	var rankSumA float64
	for i, s := range all {
		if s.fromA {
			rankSumA += ranks[i]
		}
	}

	na, nb := float64(len(a)), float64(len(b))
	u := rankSumA - na*(na+1)/2

	mu := na * nb / 2
	sigma := math.Sqrt(na * nb * (na + nb + 1) / 12)
	if sigma == 0 {
		return TestResult{Statistic: u, PValue: 1}
	}

	z := (u - mu) / sigma
	normal := distuv.Normal{Mu: 0, Sigma: 1}
	p := 2 * normal.Survival(math.Abs(z))
	if p > 1 {
		p = 1
	}

	return TestResult{Statistic: u, PValue: p}
}

// chiSquare bins both samples over their combined range and compares the
// observed counts against pooled expectations.
func chiSquare(a, b []float64, bins int) TestResult {
	lo, hi := a[0], a[0]
	for _, v := range a {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	for _, v := range b {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}

	if lo == hi {
		// All values identical: the distributions cannot differ.
		return TestResult{Statistic: 0, PValue: 1}
	}

	countsA := binCounts(a, lo, hi, bins)
	countsB := binCounts(b, lo, hi, bins)

	na, nb := float64(len(a)), float64(len(b))
	total := na + nb

	var statistic float64
	used := 0
	for i := 0; i < bins; i++ {
		pooled := float64(countsA[i] + countsB[i])
		if pooled == 0 {
			continue
		}
		used++

		ea := pooled * na / total
		eb := pooled * nb / total
		statistic += (float64(countsA[i])-ea)*(float64(countsA[i])-ea)/ea +
			(float64(countsB[i])-eb)*(float64(countsB[i])-eb)/eb
	}

	dof := used - 1
	if dof < 1 {
		return TestResult{Statistic: statistic, PValue: 1}
	}

	chi2 := distuv.ChiSquared{K: float64(dof)}
	return TestResult{Statistic: statistic, PValue: chi2.Survival(statistic)}
}

func binCounts(values []float64, lo, hi float64, bins int) []int {
	counts := make([]int, bins)
	width := (hi - lo) / float64(bins)

	for _, v := range values {
		bin := int((v - lo) / width)
		if bin >= bins {
			bin = bins - 1
		} else if bin < 0 {
			bin = 0
		}
		counts[bin]++
	}
	return counts
}

func sortedCopy(values []float64) []float64 {
	s := make([]float64, len(values))
	copy(s, values)
	sort.Float64s(s)
	return s
}
