package analysis

import (
	"math"
	"sort"
)

func mean(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range data {
		sum += v
	}
	return sum / float64(len(data))
}

// stdPop is the population standard deviation (N denominator). The CV
// convention for this toolkit is population std / mean, held constant
// across every metric and every file.
func stdPop(data []float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	m := mean(data)
	sumSq := 0.0
	for _, v := range data {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(data)))
}

// coefficientOfVariation returns 100 * population std / mean; absent when
// the mean is not positive.
func coefficientOfVariation(data []float64) Metric {
	if len(data) == 0 {
		return absentMetric()
	}
	m := mean(data)
	if m <= 0 {
		return absentMetric()
	}
	return metricOf(stdPop(data)/m*100, len(data))
}

// percentile interpolates linearly between order statistics, matching the
// acquisition-side convention, so baselines agree with the historical
// analysis to the last digit.
func percentile(data []float64, p float64) float64 {
	if len(data) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}

	idx := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	w := idx - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}

// trapezoid integrates y over x by the trapezoid rule.
func trapezoid(x, y []float64) float64 {
	total := 0.0
	for i := 1; i < len(x); i++ {
		total += (y[i] + y[i-1]) / 2 * (x[i] - x[i-1])
	}
	return total
}
