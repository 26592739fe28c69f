package analysis

import (
	"github.com/immaturegutlab/wire-myography-analyzer/internal/trace"
)

// BinMetrics is a RecordingMetrics scoped to one fixed-width sub-window of
// the analysis window, tagged with its position.
type BinMetrics struct {
	Index     int     `json:"index"`
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
	RecordingMetrics
}

// ComputeBins partitions the analysis window into contiguous bins of
// BinDuration seconds and re-runs the full chain (baseline, detection,
// boundaries, kinetics, aggregation) independently inside each one. A
// contraction straddling a bin edge belongs to the bin holding its peak by
// construction, since each bin only sees its own samples.
//
// The final bin may be shorter than BinDuration; it is retained and its
// true length is the denominator of its rates. A bin too short for a
// baseline (fewer than two samples) is still emitted, empty and flagged,
// rather than silently dropped.
//
// Re-detecting per bin instead of slicing the full-window pass is
// deliberate: MinDistance and prominence see a shorter signal inside a bin,
// so the two passes can legitimately disagree near bin edges. Consumers
// comparing the binned sheet against the overall sheet should expect that.
func ComputeBins(window trace.Trace, p Params) []BinMetrics {
	if window.Len() == 0 || p.BinDuration <= 0 {
		return nil
	}
	start := window.Time[0]
	end := start + window.Duration()

	var bins []BinMetrics
	for i := 0; ; i++ {
		binStart := start + float64(i)*p.BinDuration
		if binStart >= end {
			break
		}
		binEnd := binStart + p.BinDuration
		if binEnd > end {
			binEnd = end
		}

		bm := BinMetrics{Index: i, StartTime: binStart, EndTime: binEnd}
		dur := binEnd - binStart
		if binEnd >= end {
			// Bins are half-open; the very last sample still belongs to
			// the final bin.
			dur += 1e-9
		}
		sub := window.Window(binStart, dur)

		baseline, err := EstimateBaseline(sub.Force)
		if err != nil {
			bm.RecordingMetrics = RecordingMetrics{
				WindowStart:    binStart,
				WindowDuration: binEnd - binStart,
				Flags: []QualityFlag{{
					Code:    FlagInsufficientData,
					Message: err.Error(),
				}},
			}
			bins = append(bins, bm)
			continue
		}

		contractions := DetectContractions(sub, baseline, p)
		bm.RecordingMetrics = Aggregate(sub, contractions, baseline, binEnd-binStart, p)
		bm.WindowStart = binStart
		bins = append(bins, bm)
	}
	return bins
}
