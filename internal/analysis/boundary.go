package analysis

import (
	"github.com/immaturegutlab/wire-myography-analyzer/internal/trace"
)

// ResolveBoundaries locates the start and end of each detected peak: the
// nearest samples, scanning outward from the peak, where force has dropped
// to baseline + BoundaryFraction * amplitude. The scan on each side is
// bounded by the trough toward the neighboring peak, so one event never
// claims samples past its neighbor's minimum; a boundary that reaches the
// trough without crossing sits at the trough (these pairs feed the
// incomplete-relaxation statistic). A boundary that reaches the window edge
// instead is clamped there and the contraction is marked EdgeTruncated.
//
// peaks must be in ascending index order, as DetectPeaks returns them.
func ResolveBoundaries(tr trace.Trace, peaks []int, baseline float64, p Params) []Contraction {
	if len(peaks) == 0 {
		return nil
	}
	out := make([]Contraction, 0, len(peaks))
	last := tr.Len() - 1

	for k, pk := range peaks {
		amp := tr.Force[pk] - baseline
		threshold := baseline + p.BoundaryFraction*amp

		leftLimit := 0
		if k > 0 {
			leftLimit = troughIndex(tr.Force, peaks[k-1], pk)
		}
		rightLimit := last
		if k < len(peaks)-1 {
			rightLimit = troughIndex(tr.Force, pk, peaks[k+1])
		}

		start, startAtEdge := scanBack(tr.Force, pk, leftLimit, threshold)
		end, endAtEdge := scanForward(tr.Force, pk, rightLimit, threshold)

		truncated := (startAtEdge && k == 0 && leftLimit == 0) ||
			(endAtEdge && k == len(peaks)-1 && rightLimit == last)

		c := Contraction{
			Peak:          Bound{Index: pk, Time: tr.Time[pk], Force: tr.Force[pk]},
			Start:         Bound{Index: start, Time: tr.Time[start], Force: tr.Force[start]},
			End:           Bound{Index: end, Time: tr.Time[end], Force: tr.Force[end]},
			Amplitude:     amp,
			EdgeTruncated: truncated,
		}
		c.Duration = c.End.Time - c.Start.Time
		out = append(out, c)
	}
	return out
}

// scanBack walks from the peak toward limit and returns the first sample at
// or below the threshold. atLimit reports that the scan ran out of samples
// without crossing.
func scanBack(force []float64, peak, limit int, threshold float64) (int, bool) {
	for i := peak - 1; i >= limit; i-- {
		if force[i] <= threshold {
			return i, false
		}
	}
	return limit, true
}

func scanForward(force []float64, peak, limit int, threshold float64) (int, bool) {
	for i := peak + 1; i <= limit; i++ {
		if force[i] <= threshold {
			return i, false
		}
	}
	return limit, true
}

// troughIndex returns the index of the minimum force strictly between two
// peaks.
func troughIndex(force []float64, a, b int) int {
	lo, hi := a+1, b-1
	if lo > hi {
		return a
	}
	min := lo
	for i := lo + 1; i <= hi; i++ {
		if force[i] < force[min] {
			min = i
		}
	}
	return min
}
