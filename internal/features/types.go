package features

// #region summary

// Summary holds descriptive statistics for a numeric window.
type Summary struct {
	Count                  int
	Mean                   float64
	Variance               float64 // n-1 denominator
	StdDev                 float64
	Min                    float64
	Max                    float64
	Median                 float64
	MAD                    float64 // median absolute deviation
	TrimmedMean            float64 // 10% trimmed from each sorted end
	CoefficientOfVariation float64 // stddev / |mean|, 0 when mean is 0
}

// #endregion summary

// #region moments

// MomentSet holds population central moments and the shape measures
// derived from them.
type MomentSet struct {
	M2       float64
	M3       float64
	M4       float64
	Skewness float64 // m3 / m2^1.5, 0 when m2 is 0
	Kurtosis float64 // excess: m4 / m2^2 - 3, 0 when m2 is 0
}

// #endregion moments

// #region trend

// Trend is an ordinary least squares fit over (index, value) pairs.
type Trend struct {
	Slope     float64
	Intercept float64
}

// #endregion trend

// #region defaults

const (
	// DefaultMaxLag caps the autocorrelation lag range.
	DefaultMaxLag = 50

	// DefaultLagThreshold marks an autocorrelation lag as significant.
	DefaultLagThreshold = 0.2

	// DefaultTemplateLength is the approximate-entropy template length m.
	DefaultTemplateLength = 2

	// entropyBins is the histogram bin count for Shannon entropy.
	entropyBins = 20
)

// #endregion defaults
