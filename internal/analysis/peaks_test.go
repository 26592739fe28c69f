package analysis

import (
	"reflect"
	"testing"
)

func TestDetectPeaks_FivePulses(t *testing.T) {
	tr := fivePulseTrace(t)
	p := DefaultParams()

	peaks := DetectPeaks(tr.Force, 0, p, tr.SamplingRate())
	if len(peaks) != 5 {
		t.Fatalf("peaks: got %d, want 5 (%v)", len(peaks), peaks)
	}
	want := []int{250, 750, 1250, 1750, 2250}
	if !reflect.DeepEqual(peaks, want) {
		t.Errorf("peak indices: got %v, want %v", peaks, want)
	}
}

func TestDetectPeaks_Deterministic(t *testing.T) {
	tr := synthTrace(t, 20, 250, 0.02, []pulse{
		{center: 2, height: 0.11, base: 1.4},
		{center: 5.3, height: 0.26, base: 0.9},
		{center: 9.1, height: 0.08, base: 1.1},
		{center: 14, height: 0.19, base: 2.0},
	})
	p := DefaultParams()
	first := DetectPeaks(tr.Force, 0.02, p, tr.SamplingRate())
	second := DetectPeaks(tr.Force, 0.02, p, tr.SamplingRate())
	if !reflect.DeepEqual(first, second) {
		t.Errorf("determinism: first %v, second %v", first, second)
	}
}

func TestDetectPeaks_MonotonicHeightLaw(t *testing.T) {
	// Raising min_height must never increase the count.
	tr := synthTrace(t, 30, 250, 0, []pulse{
		{center: 2, height: 0.04, base: 1},
		{center: 5, height: 0.07, base: 1},
		{center: 8, height: 0.12, base: 1},
		{center: 11, height: 0.18, base: 1},
		{center: 14, height: 0.25, base: 1},
		{center: 17, height: 0.31, base: 1},
		{center: 20, height: 0.09, base: 1},
	})
	fs := tr.SamplingRate()

	prev := -1
	for _, h := range []float64{0.01, 0.05, 0.08, 0.1, 0.2, 0.3, 0.5} {
		p := DefaultParams()
		p.MinHeight = h
		p.MinProminence = 0.01
		n := len(DetectPeaks(tr.Force, 0, p, fs))
		if prev >= 0 && n > prev {
			t.Errorf("min_height %v: count rose from %d to %d", h, prev, n)
		}
		prev = n
	}
}

func TestDetectPeaks_DistanceLaw(t *testing.T) {
	// Two candidates 0.6 s apart: only the taller survives, and no two
	// accepted peaks may sit closer than min_distance.
	tr := synthTrace(t, 10, 250, 0, []pulse{
		{center: 2.0, height: 0.2, base: 0.8},
		{center: 2.6, height: 0.3, base: 0.8},
		{center: 6.0, height: 0.15, base: 0.8},
	})
	p := DefaultParams()
	fs := tr.SamplingRate()

	peaks := DetectPeaks(tr.Force, 0, p, fs)
	if len(peaks) != 2 {
		t.Fatalf("peaks: got %d, want 2 (%v)", len(peaks), peaks)
	}
	if peaks[0] != 650 {
		t.Errorf("survivor: got index %d, want 650 (the taller candidate)", peaks[0])
	}
	minGap := int(p.MinDistance * fs)
	for i := 1; i < len(peaks); i++ {
		if peaks[i]-peaks[i-1] < minGap {
			t.Errorf("distance law violated: peaks %d and %d are %d samples apart, min %d",
				peaks[i-1], peaks[i], peaks[i]-peaks[i-1], minGap)
		}
	}
}

func TestDetectPeaks_DistanceTieKeepsEarlier(t *testing.T) {
	tr := synthTrace(t, 10, 250, 0, []pulse{
		{center: 2.0, height: 0.2, base: 0.8},
		{center: 2.6, height: 0.2, base: 0.8},
	})
	p := DefaultParams()

	peaks := DetectPeaks(tr.Force, 0, p, tr.SamplingRate())
	if len(peaks) != 1 {
		t.Fatalf("peaks: got %d, want 1 (%v)", len(peaks), peaks)
	}
	if peaks[0] != 500 {
		t.Errorf("tie: got index %d, want 500 (the earlier candidate)", peaks[0])
	}
}

func TestDetectPeaks_WidthRejectsNarrowSpikes(t *testing.T) {
	// A tall but narrow spike (electrical noise) fails the width filter;
	// the wide contraction next to it passes.
	tr := synthTrace(t, 10, 250, 0, []pulse{
		{center: 2, height: 0.5, base: 0.1},
		{center: 6, height: 0.2, base: 1.2},
	})
	p := DefaultParams()

	peaks := DetectPeaks(tr.Force, 0, p, tr.SamplingRate())
	if len(peaks) != 1 {
		t.Fatalf("peaks: got %d, want 1 (%v)", len(peaks), peaks)
	}
	if peaks[0] != 1500 {
		t.Errorf("survivor: got index %d, want 1500 (the wide pulse)", peaks[0])
	}
}

func TestDetectPeaks_EmptyAndFlat(t *testing.T) {
	p := DefaultParams()
	if got := DetectPeaks(nil, 0, p, 250); got != nil {
		t.Errorf("empty window: got %v, want no peaks", got)
	}
	flat := make([]float64, 2500)
	if got := DetectPeaks(flat, 0, p, 250); got != nil {
		t.Errorf("flat trace: got %v, want no peaks", got)
	}
}

func TestLocalMaxima_PlateauMidpoint(t *testing.T) {
	y := []float64{0, 1, 2, 2, 2, 1, 0}
	got := localMaxima(y)
	want := []int{3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("plateau: got %v, want %v", got, want)
	}
}

func TestPeakProminence(t *testing.T) {
	//            0    1    2    3    4    5    6
	y := []float64{0, 0.5, 0.2, 0.4, 0.1, 0.9, 0}
	// Peak at 3: left min 0.2, right min 0.1; prominence against the
	// higher of the two minima.
	prom, _, _ := peakProminence(y, 3)
	if !near(prom, 0.2, 1e-12) {
		t.Errorf("prominence: got %v, want 0.2", prom)
	}
}
