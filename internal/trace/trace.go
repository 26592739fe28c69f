// Package trace holds an in-memory wire-myography recording: a force-versus-
// time series as exported by LabChart, with window slicing for analysis.
package trace

import (
	"fmt"
	"sort"
)

// Trace is one recorded channel: time in seconds, force in mN, sampled at a
// fixed rate with strictly increasing time. Traces are treated as immutable;
// windowing returns views that share the underlying arrays.
type Trace struct {
	Time  []float64
	Force []float64
}

// New validates the two series and wraps them in a Trace.
func New(time, force []float64) (Trace, error) {
	if len(time) != len(force) {
		return Trace{}, fmt.Errorf("trace: time has %d samples, force has %d", len(time), len(force))
	}
	for i := 1; i < len(time); i++ {
		if time[i] <= time[i-1] {
			return Trace{}, fmt.Errorf("trace: time not strictly increasing at sample %d (%.6f -> %.6f)", i, time[i-1], time[i])
		}
	}
	return Trace{Time: time, Force: force}, nil
}

// Len returns the number of samples.
func (t Trace) Len() int { return len(t.Time) }

// Duration returns the time span covered by the samples.
func (t Trace) Duration() float64 {
	if len(t.Time) < 2 {
		return 0
	}
	return t.Time[len(t.Time)-1] - t.Time[0]
}

// SamplingRate returns the acquisition rate in Hz, derived from the mean
// sample interval. LabChart exports run at 250 Hz unless reconfigured.
func (t Trace) SamplingRate() float64 {
	d := t.Duration()
	if d <= 0 {
		return 0
	}
	return float64(len(t.Time)-1) / d
}

// Window returns the sub-trace covering [start, start+duration), with start
// given in the trace's own time coordinates. A window reaching past the
// trace bounds is truncated to the available samples, never an error.
func (t Trace) Window(start, duration float64) Trace {
	lo := sort.SearchFloat64s(t.Time, start)
	hi := sort.SearchFloat64s(t.Time, start+duration)
	return Trace{Time: t.Time[lo:hi], Force: t.Force[lo:hi]}
}

// Normalize returns a copy whose time axis starts at zero. LabChart exports
// can carry an arbitrary offset depending on where the operator started the
// selection.
func (t Trace) Normalize() Trace {
	if len(t.Time) == 0 || t.Time[0] == 0 {
		return t
	}
	shifted := make([]float64, len(t.Time))
	t0 := t.Time[0]
	for i, v := range t.Time {
		shifted[i] = v - t0
	}
	return Trace{Time: shifted, Force: t.Force}
}
