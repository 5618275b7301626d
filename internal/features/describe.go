package features

import (
	"math"
	"sort"
)

// #region describe

// Describe computes descriptive statistics for x. Returns nil for an
// empty window; every degenerate case inside a non-empty window yields
// a neutral 0 rather than an error.
func Describe(x []float64) *Summary {
	n := len(x)
	if n == 0 {
		return nil
	}

	var sum float64
	min, max := x[0], x[0]
	for _, v := range x {
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	mean := sum / float64(n)

	var variance float64
	if n > 1 {
		var sq float64
		for _, v := range x {
			d := v - mean
			sq += d * d
		}
		variance = sq / float64(n-1)
	}
	stddev := math.Sqrt(variance)

	sorted := sortedCopy(x)
	median := Quantile(sorted, 0.5)

	devs := make([]float64, n)
	for i, v := range x {
		devs[i] = math.Abs(v - median)
	}
	sort.Float64s(devs)
	mad := Quantile(devs, 0.5)

	cv := 0.0
	if mean != 0 {
		cv = stddev / math.Abs(mean)
	}

	return &Summary{
		Count:                  n,
		Mean:                   mean,
		Variance:               variance,
		StdDev:                 stddev,
		Min:                    min,
		Max:                    max,
		Median:                 median,
		MAD:                    mad,
		TrimmedMean:            trimmedMean(sorted),
		CoefficientOfVariation: cv,
	}
}

// #endregion describe

// #region quantile

// Quantile returns the p-quantile of an already sorted slice using
// linear interpolation between adjacent order statistics.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	frac := pos - float64(lo)
	if lo+1 >= n {
		return sorted[lo]
	}
	return sorted[lo]*(1-frac) + sorted[lo+1]*frac
}

// #endregion quantile

// #region moments

// Moments computes population central moments and the derived shape
// measures for x. Zero variance collapses both shape measures to 0.
func Moments(x []float64) MomentSet {
	n := len(x)
	if n == 0 {
		return MomentSet{}
	}

	var sum float64
	for _, v := range x {
		sum += v
	}
	mean := sum / float64(n)

	var m2, m3, m4 float64
	for _, v := range x {
		d := v - mean
		d2 := d * d
		m2 += d2
		m3 += d2 * d
		m4 += d2 * d2
	}
	m2 /= float64(n)
	m3 /= float64(n)
	m4 /= float64(n)

	ms := MomentSet{M2: m2, M3: m3, M4: m4}
	if m2 > 0 {
		ms.Skewness = m3 / math.Pow(m2, 1.5)
		ms.Kurtosis = m4/(m2*m2) - 3
	}
	return ms
}

// #endregion moments

// #region helpers

// sortedCopy returns an ascending copy of x, leaving x untouched.
func sortedCopy(x []float64) []float64 {
	s := make([]float64, len(x))
	copy(s, x)
	sort.Float64s(s)
	return s
}

// trimmedMean drops floor(n*0.1) elements from each end of the sorted
// slice and averages the remainder. Falls back to the plain mean when
// trimming would consume the whole window.
func trimmedMean(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	k := n / 10
	if 2*k >= n {
		k = 0
	}
	var sum float64
	for _, v := range sorted[k : n-k] {
		sum += v
	}
	return sum / float64(n-2*k)
}

// #endregion helpers
