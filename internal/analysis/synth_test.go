package analysis

import (
	"math"
	"testing"

	"github.com/immaturegutlab/wire-myography-analyzer/internal/trace"
)

// pulse is a synthetic triangular contraction for test traces.
type pulse struct {
	center float64 // apex time, seconds
	height float64 // apex force above the resting level, mN
	base   float64 // full base width, seconds
}

// synthTrace builds a trace at fs Hz over [0, seconds] (endpoint included)
// with a constant resting level and triangular pulses layered on top by
// max-composition, so overlapping pulses keep their apexes.
func synthTrace(t *testing.T, seconds, fs, resting float64, pulses []pulse) trace.Trace {
	t.Helper()
	n := int(seconds*fs) + 1
	times := make([]float64, n)
	forces := make([]float64, n)
	for i := 0; i < n; i++ {
		ti := float64(i) / fs
		times[i] = ti
		f := resting
		for _, p := range pulses {
			half := p.base / 2
			if d := math.Abs(ti - p.center); d < half {
				if v := resting + p.height*(1-d/half); v > f {
					f = v
				}
			}
		}
		forces[i] = f
	}
	tr, err := trace.New(times, forces)
	if err != nil {
		t.Fatalf("synthTrace: %v", err)
	}
	return tr
}

// fivePulseTrace is the reference scenario: five identical 0.2 mN pulses
// on a zero baseline, half-height width 0.5 s (base 1.0 s), 2 s apart over
// a 10 s window.
func fivePulseTrace(t *testing.T) trace.Trace {
	t.Helper()
	return synthTrace(t, 10, 250, 0, []pulse{
		{center: 1, height: 0.2, base: 1},
		{center: 3, height: 0.2, base: 1},
		{center: 5, height: 0.2, base: 1},
		{center: 7, height: 0.2, base: 1},
		{center: 9, height: 0.2, base: 1},
	})
}

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
