package analysis

import (
	"github.com/immaturegutlab/wire-myography-analyzer/internal/trace"
)

// ComputeKinetics fills the derived timing, rate and integral fields of a
// bounded contraction. Undefined quantities (a zero relaxation time, a
// half-max crossing cut off by truncation) come back absent, never zero.
func ComputeKinetics(tr trace.Trace, c *Contraction, baseline float64) {
	c.Duration = c.End.Time - c.Start.Time
	c.RiseTime = c.Peak.Time - c.Start.Time
	c.RelaxationTime = c.End.Time - c.Peak.Time

	if c.RelaxationTime > 0 {
		c.RiseFallRatio = metricOf(c.RiseTime/c.RelaxationTime, 1)
	} else {
		c.RiseFallRatio = absentMetric()
	}

	c.MaxRiseRate = extremeRate(tr, c.Start.Index, c.Peak.Index, true)
	c.MaxDeclineRate = extremeRate(tr, c.Peak.Index, c.End.Index, false)
	c.Integral = segmentIntegral(tr, c.Start.Index, c.End.Index, baseline)
	c.WidthHalfMax = widthAtHalfMax(tr, c, baseline)
}

// extremeRate returns the maximum (rising=true) or minimum discrete
// derivative of force over [from, to]; absent when the segment has no
// interval.
func extremeRate(tr trace.Trace, from, to int, rising bool) Metric {
	if to <= from {
		return absentMetric()
	}
	best := 0.0
	set := false
	for i := from; i < to; i++ {
		dt := tr.Time[i+1] - tr.Time[i]
		if dt <= 0 {
			continue
		}
		rate := (tr.Force[i+1] - tr.Force[i]) / dt
		if !set || (rising && rate > best) || (!rising && rate < best) {
			best = rate
			set = true
		}
	}
	if !set {
		return absentMetric()
	}
	return metricOf(best, to-from)
}

// segmentIntegral is the trapezoid integral of force above baseline over
// [from, to], with each sample clipped at zero so relaxation undershoot
// cannot subtract from contractile work.
func segmentIntegral(tr trace.Trace, from, to int, baseline float64) float64 {
	if to <= from {
		return 0
	}
	x := tr.Time[from : to+1]
	y := make([]float64, to-from+1)
	for i := range y {
		if v := tr.Force[from+i] - baseline; v > 0 {
			y[i] = v
		}
	}
	return trapezoid(x, y)
}

// widthAtHalfMax measures the event width at 50% of amplitude by linear
// interpolation of the two crossings around the peak. It deliberately uses
// a different level than the 10% boundary convention: the two measures
// cross-validate each other. Absent when either crossing lies outside the
// resolved boundaries.
func widthAtHalfMax(tr trace.Trace, c *Contraction, baseline float64) Metric {
	half := baseline + 0.5*c.Amplitude

	left, ok := crossingTime(tr, c.Peak.Index, c.Start.Index, half)
	if !ok {
		return absentMetric()
	}
	right, ok := crossingTime(tr, c.Peak.Index, c.End.Index, half)
	if !ok {
		return absentMetric()
	}
	return metricOf(right-left, 1)
}

// crossingTime walks from the peak toward limit until force drops to the
// level and interpolates the crossing instant.
func crossingTime(tr trace.Trace, peak, limit int, level float64) (float64, bool) {
	step := 1
	if limit < peak {
		step = -1
	}
	for i := peak + step; step*(limit-i) >= 0; i += step {
		if tr.Force[i] <= level {
			prev := i - step
			f0, f1 := tr.Force[prev], tr.Force[i]
			if f0 == f1 {
				return tr.Time[i], true
			}
			frac := (f0 - level) / (f0 - f1)
			return tr.Time[prev] + frac*(tr.Time[i]-tr.Time[prev]), true
		}
	}
	return 0, false
}
