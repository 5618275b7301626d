package features

import "math"

// #region autocorrelation

// Autocorrelation returns normalized autocovariances for lags 0..maxLag.
// maxLag <= 0 selects min(n-1, DefaultMaxLag). A zero-variance window
// produces all-zero coefficients.
func Autocorrelation(x []float64, maxLag int) []float64 {
	n := len(x)
	if n == 0 {
		return nil
	}
	if maxLag <= 0 || maxLag > n-1 {
		maxLag = n - 1
		if maxLag > DefaultMaxLag {
			maxLag = DefaultMaxLag
		}
	}

	var sum float64
	for _, v := range x {
		sum += v
	}
	mean := sum / float64(n)

	var c0 float64
	for _, v := range x {
		d := v - mean
		c0 += d * d
	}
	c0 /= float64(n)

	acf := make([]float64, maxLag+1)
	if c0 == 0 {
		return acf
	}
	for lag := 0; lag <= maxLag; lag++ {
		var ck float64
		for i := 0; i < n-lag; i++ {
			ck += (x[i] - mean) * (x[i+lag] - mean)
		}
		acf[lag] = ck / float64(n) / c0
	}
	return acf
}

// SignificantLags returns the lag indices whose absolute coefficient
// exceeds threshold. Lag 0 is skipped. threshold <= 0 selects
// DefaultLagThreshold.
func SignificantLags(acf []float64, threshold float64) []int {
	if threshold <= 0 {
		threshold = DefaultLagThreshold
	}
	var lags []int
	for lag := 1; lag < len(acf); lag++ {
		if math.Abs(acf[lag]) > threshold {
			lags = append(lags, lag)
		}
	}
	return lags
}

// #endregion autocorrelation

// #region shannon-entropy

// ShannonEntropy bins x into 20 equal-width buckets over [min, max] and
// returns -sum(p*log2(p)) over the nonzero buckets. Constant or empty
// windows carry no information and return 0.
func ShannonEntropy(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	min, max := x[0], x[0]
	for _, v := range x {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if max == min {
		return 0
	}

	counts := make([]int, entropyBins)
	width := (max - min) / float64(entropyBins)
	for _, v := range x {
		bin := int((v - min) / width)
		if bin >= entropyBins {
			bin = entropyBins - 1
		}
		counts[bin]++
	}

	var entropy float64
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(n)
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// #endregion shannon-entropy

// #region approximate-entropy

// ApproximateEntropy computes ApEn(m, r) over x via pairwise Chebyshev
// template matching. r <= 0 selects 0.2 * stddev(x). Windows too short
// for templates of length m+1 return 0.
//
// Cost is O(n^2); callers are responsible for bounding the window size
// before invoking.
func ApproximateEntropy(x []float64, m int, r float64) float64 {
	n := len(x)
	if m <= 0 {
		m = DefaultTemplateLength
	}
	if n < m+2 {
		return 0
	}
	if r <= 0 {
		if s := Describe(x); s != nil {
			r = 0.2 * s.StdDev
		}
	}
	return phi(x, m, r) - phi(x, m+1, r)
}

// SampleEntropy is currently an alias for ApproximateEntropy.
func SampleEntropy(x []float64, m int, r float64) float64 {
	return ApproximateEntropy(x, m, r)
}

// phi is the average log match density for templates of length m.
func phi(x []float64, m int, r float64) float64 {
	n := len(x)
	count := n - m + 1
	if count <= 0 {
		return 0
	}
	var sum float64
	for i := 0; i < count; i++ {
		matches := 0
		for j := 0; j < count; j++ {
			if chebyshev(x[i:i+m], x[j:j+m]) <= r {
				matches++
			}
		}
		// Self-match keeps the density strictly positive.
		sum += math.Log(float64(matches) / float64(count))
	}
	return sum / float64(count)
}

// chebyshev returns the max absolute elementwise distance between two
// equal-length templates.
func chebyshev(a, b []float64) float64 {
	var max float64
	for i := range a {
		d := math.Abs(a[i] - b[i])
		if d > max {
			max = d
		}
	}
	return max
}

// #endregion approximate-entropy

// #region linear-trend

// LinearTrend fits y = slope*i + intercept over (index, value) pairs.
// Degenerate fits return a zero slope with the mean as intercept.
func LinearTrend(x []float64) Trend {
	n := len(x)
	if n == 0 {
		return Trend{}
	}

	var sumI, sumY, sumIY, sumII float64
	for i, v := range x {
		fi := float64(i)
		sumI += fi
		sumY += v
		sumIY += fi * v
		sumII += fi * fi
	}
	fn := float64(n)
	denom := fn*sumII - sumI*sumI
	if denom == 0 {
		return Trend{Intercept: sumY / fn}
	}
	slope := (fn*sumIY - sumI*sumY) / denom
	return Trend{
		Slope:     slope,
		Intercept: (sumY - slope*sumI) / fn,
	}
}

// #endregion linear-trend

// #region persistence

// Persistence estimates a Hurst-like exponent via rescaled-range
// analysis over lags {2, 4, 8, 16, min(32, n/2)}, clamped to [0, 1].
// Windows shorter than 4 samples return the neutral 0.5.
func Persistence(x []float64) float64 {
	n := len(x)
	if n < 4 {
		return 0.5
	}

	candidates := []int{2, 4, 8, 16, 32}
	if n/2 < 32 {
		candidates[4] = n / 2
	}

	var logLags, logRS []float64
	seen := make(map[int]bool)
	for _, lag := range candidates {
		if lag < 2 || lag > n/2 || seen[lag] {
			continue
		}
		seen[lag] = true
		rs := rescaledRange(x, lag)
		if rs <= 0 {
			continue
		}
		logLags = append(logLags, math.Log(float64(lag)))
		logRS = append(logRS, math.Log(rs))
	}
	if len(logLags) < 2 {
		return 0.5
	}

	slope := olsSlope(logLags, logRS)
	if slope < 0 {
		return 0
	}
	if slope > 1 {
		return 1
	}
	return slope
}

// rescaledRange averages the R/S statistic over consecutive blocks of
// the given size.
func rescaledRange(x []float64, blockSize int) float64 {
	blocks := len(x) / blockSize
	var sum float64
	valid := 0
	for b := 0; b < blocks; b++ {
		seg := x[b*blockSize : (b+1)*blockSize]

		var mean float64
		for _, v := range seg {
			mean += v
		}
		mean /= float64(blockSize)

		var cum, minCum, maxCum, sq float64
		for _, v := range seg {
			d := v - mean
			cum += d
			if cum < minCum {
				minCum = cum
			}
			if cum > maxCum {
				maxCum = cum
			}
			sq += d * d
		}
		s := math.Sqrt(sq / float64(blockSize))
		if s == 0 {
			continue
		}
		sum += (maxCum - minCum) / s
		valid++
	}
	if valid == 0 {
		return 0
	}
	return sum / float64(valid)
}

// olsSlope fits y over x and returns the slope, 0 on a degenerate fit.
func olsSlope(x, y []float64) float64 {
	n := float64(len(x))
	var sumX, sumY, sumXY, sumXX float64
	for i := range x {
		sumX += x[i]
		sumY += y[i]
		sumXY += x[i] * y[i]
		sumXX += x[i] * x[i]
	}
	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0
	}
	return (n*sumXY - sumX*sumY) / denom
}

// #endregion persistence
