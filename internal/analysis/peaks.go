package analysis

import (
	"math"
	"sort"
)

// DetectPeaks returns the indices of candidate contraction peaks in force,
// ordered by position. A peak must satisfy all four criteria at once:
// height above baseline >= MinHeight, prominence >= MinProminence, spacing
// to any other accepted peak >= MinDistance (the taller candidate wins;
// equal heights keep the earlier one), and width at half prominence >=
// MinWidth. fs is the sampling rate used to convert the time-domain
// parameters to samples.
//
// The routine is deterministic: same trace, same parameters, same peaks.
func DetectPeaks(force []float64, baseline float64, p Params, fs float64) []int {
	if len(force) < 3 {
		return nil
	}

	candidates := localMaxima(force)

	peaks := candidates[:0:0]
	for _, i := range candidates {
		if force[i]-baseline >= p.MinHeight {
			peaks = append(peaks, i)
		}
	}

	if dist := int(math.Ceil(p.MinDistance * fs)); dist > 1 && len(peaks) > 1 {
		heights := make([]float64, len(peaks))
		for k, i := range peaks {
			heights[k] = force[i] - baseline
		}
		peaks = selectByDistance(peaks, heights, dist)
	}

	minWidthSamples := p.MinWidth * fs
	var accepted []int
	for _, i := range peaks {
		prom, leftBase, rightBase := peakProminence(force, i)
		if prom < p.MinProminence {
			continue
		}
		if peakWidth(force, i, prom, leftBase, rightBase) < minWidthSamples {
			continue
		}
		accepted = append(accepted, i)
	}
	return accepted
}

// localMaxima finds strict local maxima; a flat-topped peak resolves to the
// midpoint of its plateau.
func localMaxima(y []float64) []int {
	var peaks []int
	n := len(y)
	i := 1
	for i < n-1 {
		if y[i-1] < y[i] {
			ahead := i + 1
			for ahead < n-1 && y[ahead] == y[i] {
				ahead++
			}
			if y[ahead] < y[i] {
				peaks = append(peaks, (i+ahead-1)/2)
				i = ahead
				continue
			}
		}
		i++
	}
	return peaks
}

// peakProminence measures how far a peak stands above the higher of the two
// minima separating it from taller terrain (or the window edge). The minima
// positions come back as bases for the width measurement.
func peakProminence(y []float64, peak int) (prom float64, leftBase, rightBase int) {
	leftMin := y[peak]
	leftBase = peak
	for i := peak - 1; i >= 0; i-- {
		if y[i] > y[peak] {
			break
		}
		if y[i] < leftMin {
			leftMin = y[i]
			leftBase = i
		}
	}

	rightMin := y[peak]
	rightBase = peak
	for i := peak + 1; i < len(y); i++ {
		if y[i] > y[peak] {
			break
		}
		if y[i] < rightMin {
			rightMin = y[i]
			rightBase = i
		}
	}

	higher := leftMin
	if rightMin > higher {
		higher = rightMin
	}
	return y[peak] - higher, leftBase, rightBase
}

// peakWidth measures the width in samples (fractional, by linear
// interpolation) at the peak's own half-prominence level, bounded by its
// prominence bases.
func peakWidth(y []float64, peak int, prom float64, leftBase, rightBase int) float64 {
	height := y[peak] - prom*0.5

	i := peak
	for i > leftBase && y[i] > height {
		i--
	}
	leftIP := float64(i)
	if y[i] < height && y[i+1] != y[i] {
		leftIP += (height - y[i]) / (y[i+1] - y[i])
	}

	j := peak
	for j < rightBase && y[j] > height {
		j++
	}
	rightIP := float64(j)
	if y[j] < height && y[j-1] != y[j] {
		rightIP -= (height - y[j]) / (y[j-1] - y[j])
	}

	return rightIP - leftIP
}

// selectByDistance enforces the minimum spacing. Candidates are visited
// tallest first; each survivor suppresses anything closer than dist samples.
// Equal heights are visited earlier-index first, so on a tie the earlier
// peak is the one kept.
func selectByDistance(peaks []int, heights []float64, dist int) []int {
	order := make([]int, len(peaks))
	for k := range order {
		order[k] = k
	}
	sort.SliceStable(order, func(a, b int) bool {
		if heights[order[a]] != heights[order[b]] {
			return heights[order[a]] > heights[order[b]]
		}
		return order[a] < order[b]
	})

	keep := make([]bool, len(peaks))
	for k := range keep {
		keep[k] = true
	}
	for _, k := range order {
		if !keep[k] {
			continue
		}
		for i := k - 1; i >= 0 && peaks[k]-peaks[i] < dist; i-- {
			keep[i] = false
		}
		for i := k + 1; i < len(peaks) && peaks[i]-peaks[k] < dist; i++ {
			keep[i] = false
		}
	}

	var out []int
	for k, i := range peaks {
		if keep[k] {
			out = append(out, i)
		}
	}
	return out
}
