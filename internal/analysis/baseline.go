package analysis

// baselinePercentile is the percentile of a window's force samples taken as
// resting tone. The 10th is robust against contraction peaks, which drag
// the mean upward, and steadier than the minimum, which one artifact can
// drag down.
const baselinePercentile = 10.0

// minBaselineSamples is the floor below which a percentile is undefined.
const minBaselineSamples = 2

// EstimateBaseline computes the resting-tone reference for a window's force
// samples. Windows with fewer than two samples fail with
// InsufficientDataError.
func EstimateBaseline(force []float64) (float64, error) {
	if len(force) < minBaselineSamples {
		return 0, &InsufficientDataError{Samples: len(force), Needed: minBaselineSamples, Context: "baseline estimation"}
	}
	return percentile(force, baselinePercentile), nil
}
