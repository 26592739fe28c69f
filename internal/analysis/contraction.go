package analysis

// Bound pins one landmark of a contraction to a concrete sample.
type Bound struct {
	Index int     `json:"index"`
	Time  float64 `json:"time"`
	Force float64 `json:"force"`
}

// Contraction is one detected event: a peak with resolved start/end
// boundaries and the kinetic quantities derived from them. Created by the
// detector and boundary resolver, enriched in place by ComputeKinetics,
// then read-only.
type Contraction struct {
	Peak  Bound `json:"peak"`
	Start Bound `json:"start"`
	End   Bound `json:"end"`

	// Amplitude is peak force minus baseline, in mN.
	Amplitude float64 `json:"amplitude"`
	// Duration is end time minus start time, in seconds.
	Duration float64 `json:"duration"`
	// RiseTime runs from the start boundary to the peak.
	RiseTime float64 `json:"riseTime"`
	// RelaxationTime runs from the peak to the end boundary.
	RelaxationTime float64 `json:"relaxationTime"`
	// RiseFallRatio is RiseTime / RelaxationTime; absent when the
	// relaxation time is zero.
	RiseFallRatio Metric `json:"riseFallRatio"`
	// MaxRiseRate is the largest discrete dF/dt on the rising segment,
	// mN/s.
	MaxRiseRate Metric `json:"maxRiseRate"`
	// MaxDeclineRate is the most negative discrete dF/dt on the falling
	// segment, mN/s.
	MaxDeclineRate Metric `json:"maxDeclineRate"`
	// Integral is the trapezoid integral of force above baseline over
	// [start, end], clipped at zero, in mN*s.
	Integral float64 `json:"integral"`
	// WidthHalfMax is the event width at 50% of amplitude. Independent of
	// the 10% boundary convention; used to cross-validate Duration, not to
	// replace it.
	WidthHalfMax Metric `json:"widthHalfMax"`

	// EdgeTruncated marks a boundary clamped to the window edge instead of
	// resolved by threshold crossing. Duration and relaxation kinetics of
	// such events are biased and aggregate consumers may exclude them.
	EdgeTruncated bool `json:"edgeTruncated"`
}
