package analysis

// Metric is a derived quantity that may be undefined: a rise/fall ratio with
// zero relaxation time, a mean period with fewer than two contractions.
// Absent values stay absent through aggregation; they are never coerced to
// zero, and downstream averaging across recordings must skip them.
type Metric struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
	N     int     `json:"sampleSize,omitempty"`
}

func metricOf(v float64, n int) Metric {
	return Metric{Value: v, Valid: true, N: n}
}

func absentMetric() Metric {
	return Metric{}
}

// meanOf averages a plain sample set; absent when the set is empty.
func meanOf(xs []float64) Metric {
	if len(xs) == 0 {
		return absentMetric()
	}
	return metricOf(mean(xs), len(xs))
}

// meanOfValid averages the defined values of a Metric set; absent when none
// are defined.
func meanOfValid(ms []Metric) Metric {
	var xs []float64
	for _, m := range ms {
		if m.Valid {
			xs = append(xs, m.Value)
		}
	}
	return meanOf(xs)
}
