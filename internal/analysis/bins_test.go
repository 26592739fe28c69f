package analysis

import (
	"testing"

	"github.com/immaturegutlab/wire-myography-analyzer/internal/trace"
)

func TestComputeBins_CoverageAndCounts(t *testing.T) {
	// 25 s of pulses every 2 s: five land in each full bin, two in the
	// partial final bin.
	var pulses []pulse
	for c := 1.0; c < 24; c += 2 {
		pulses = append(pulses, pulse{center: c, height: 0.2, base: 1})
	}
	tr := synthTrace(t, 25, 250, 0, pulses)
	p := DefaultParams()

	bins := ComputeBins(tr, p)
	if len(bins) != 3 {
		t.Fatalf("bins: got %d, want 3", len(bins))
	}

	for i, b := range bins {
		if b.Index != i {
			t.Errorf("bin %d: index %d", i, b.Index)
		}
		if i > 0 && b.StartTime != bins[i-1].EndTime {
			t.Errorf("bin %d: starts at %v, previous ends at %v", i, b.StartTime, bins[i-1].EndTime)
		}
	}
	if bins[0].StartTime != 0 {
		t.Errorf("first bin start: got %v, want 0", bins[0].StartTime)
	}
	if !near(bins[2].EndTime, 25, 1e-9) {
		t.Errorf("last bin end: got %v, want 25", bins[2].EndTime)
	}

	wantCounts := []int{5, 5, 2}
	for i, b := range bins {
		if b.Count != wantCounts[i] {
			t.Errorf("bin %d: count %d, want %d", i, b.Count, wantCounts[i])
		}
	}

	// The partial bin's rates use its true 5 s length.
	if !near(bins[2].WindowDuration, 5, 1e-9) {
		t.Errorf("partial bin duration: got %v, want 5", bins[2].WindowDuration)
	}
	if !near(bins[2].FrequencyCPM, 24, 1e-9) {
		t.Errorf("partial bin frequency: got %v, want 24 cpm", bins[2].FrequencyCPM)
	}
}

func TestComputeBins_LastSampleIncluded(t *testing.T) {
	tr := fivePulseTrace(t)
	p := DefaultParams()

	bins := ComputeBins(tr, p)
	if len(bins) != 1 {
		t.Fatalf("bins: got %d, want 1 for a 10 s trace", len(bins))
	}
	// The sample at exactly t = 10 belongs to the single bin.
	if got := bins[0].WindowIntegral; got <= 0 {
		t.Errorf("window integral: got %v, want > 0", got)
	}
	if bins[0].Count != 5 {
		t.Errorf("count: got %d, want 5", bins[0].Count)
	}
}

func TestComputeBins_TinyFinalBinFlagged(t *testing.T) {
	// A final bin holding a single sample cannot support a baseline; it is
	// emitted empty and flagged rather than dropped.
	n := 35
	times := make([]float64, n)
	forces := make([]float64, n)
	for i := range times {
		times[i] = float64(i) * 0.3
	}
	tr, err := trace.New(times, forces)
	if err != nil {
		t.Fatalf("trace: %v", err)
	}

	bins := ComputeBins(tr, DefaultParams())
	if len(bins) != 2 {
		t.Fatalf("bins: got %d, want 2", len(bins))
	}
	last := bins[1]
	if last.Count != 0 {
		t.Errorf("tiny bin count: got %d, want 0", last.Count)
	}
	found := false
	for _, f := range last.Flags {
		if f.Code == FlagInsufficientData {
			found = true
		}
	}
	if !found {
		t.Errorf("tiny bin flags: got %+v, want %s", last.Flags, FlagInsufficientData)
	}
}

func TestComputeBins_Empty(t *testing.T) {
	if got := ComputeBins(trace.Trace{}, DefaultParams()); got != nil {
		t.Errorf("empty trace: got %d bins, want none", len(got))
	}
}
