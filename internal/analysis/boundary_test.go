package analysis

import (
	"testing"
)

func TestResolveBoundaries_Ordering(t *testing.T) {
	tr := fivePulseTrace(t)
	p := DefaultParams()
	fs := tr.SamplingRate()

	peaks := DetectPeaks(tr.Force, 0, p, fs)
	contractions := ResolveBoundaries(tr, peaks, 0, p)
	if len(contractions) != 5 {
		t.Fatalf("contractions: got %d, want 5", len(contractions))
	}
	for i, c := range contractions {
		if !(c.Start.Time <= c.Peak.Time && c.Peak.Time <= c.End.Time) {
			t.Errorf("contraction %d: boundary order violated: start %v, peak %v, end %v",
				i, c.Start.Time, c.Peak.Time, c.End.Time)
		}
		if c.Amplitude <= 0 {
			t.Errorf("contraction %d: amplitude %v, want > 0", i, c.Amplitude)
		}
		if c.Duration <= 0 {
			t.Errorf("contraction %d: duration %v, want > 0", i, c.Duration)
		}
		if c.EdgeTruncated {
			t.Errorf("contraction %d: unexpected edge truncation", i)
		}
	}
}

func TestResolveBoundaries_TenPercentCrossing(t *testing.T) {
	// Triangle of height 0.2 and base 1.0 on a zero baseline: the 10%
	// threshold is 0.02 mN, crossed 0.45 s either side of the apex.
	tr := synthTrace(t, 10, 250, 0, []pulse{{center: 5, height: 0.2, base: 1}})
	p := DefaultParams()

	peaks := DetectPeaks(tr.Force, 0, p, tr.SamplingRate())
	if len(peaks) != 1 {
		t.Fatalf("peaks: got %d, want 1", len(peaks))
	}
	c := ResolveBoundaries(tr, peaks, 0, p)[0]

	if !near(c.Start.Time, 4.55, 0.01) {
		t.Errorf("start: got %v, want about 4.55", c.Start.Time)
	}
	if !near(c.End.Time, 5.45, 0.01) {
		t.Errorf("end: got %v, want about 5.45", c.End.Time)
	}
	if !near(c.Duration, 0.9, 0.02) {
		t.Errorf("duration: got %v, want about 0.9", c.Duration)
	}
}

func TestResolveBoundaries_EdgeTruncation(t *testing.T) {
	// Apex close to the window start: the backward scan runs out of
	// samples before crossing the threshold, so the start clamps to the
	// window edge and the event is marked.
	tr := synthTrace(t, 10, 250, 0, []pulse{{center: 0.35, height: 0.2, base: 1}})
	p := DefaultParams()

	peaks := DetectPeaks(tr.Force, 0, p, tr.SamplingRate())
	if len(peaks) != 1 {
		t.Fatalf("peaks: got %d, want 1 (%v)", len(peaks), peaks)
	}
	c := ResolveBoundaries(tr, peaks, 0, p)[0]

	if !c.EdgeTruncated {
		t.Error("expected EdgeTruncated for a contraction cut by the window start")
	}
	if c.Start.Index != 0 {
		t.Errorf("start index: got %d, want 0 (clamped)", c.Start.Index)
	}
	if c.Duration <= 0 {
		t.Errorf("duration: got %v, want > 0 even when truncated", c.Duration)
	}
}

func TestResolveBoundaries_BoundedByNeighborTrough(t *testing.T) {
	// Two contractions whose trough never relaxes below the 10%
	// threshold: each boundary stops at the shared trough instead of
	// running into the neighbor.
	tr := synthTrace(t, 10, 250, 0.1, []pulse{
		{center: 4, height: 0.3, base: 3},
		{center: 5.6, height: 0.3, base: 3},
	})
	p := DefaultParams()

	baseline, err := EstimateBaseline(tr.Force)
	if err != nil {
		t.Fatalf("baseline: %v", err)
	}
	peaks := DetectPeaks(tr.Force, baseline, p, tr.SamplingRate())
	if len(peaks) != 2 {
		t.Fatalf("peaks: got %d, want 2 (%v)", len(peaks), peaks)
	}
	cs := ResolveBoundaries(tr, peaks, baseline, p)

	if cs[0].End.Index > cs[1].Start.Index {
		t.Errorf("overlap: first ends at %d, second starts at %d",
			cs[0].End.Index, cs[1].Start.Index)
	}
	if cs[0].End.Index <= cs[0].Peak.Index {
		t.Errorf("first end %d not after its peak %d", cs[0].End.Index, cs[0].Peak.Index)
	}
}

func TestResolveBoundaries_NoPeaks(t *testing.T) {
	tr := synthTrace(t, 5, 250, 0, nil)
	if got := ResolveBoundaries(tr, nil, 0, DefaultParams()); got != nil {
		t.Errorf("no peaks: got %v, want nil", got)
	}
}
