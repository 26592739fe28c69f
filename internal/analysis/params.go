package analysis

// Params holds the detection and aggregation parameters for one analysis
// pass. A Params value is passed explicitly into every call; there is no
// process-wide parameter state. The same values apply uniformly to every
// file of a batch so cross-condition comparisons stay reproducible.
type Params struct {
	// MinHeight is the minimum peak height above baseline in mN. The
	// absolute floor: anything below it is not counted.
	MinHeight float64

	// MinProminence is the minimum local prominence in mN, the height of a
	// peak over the higher of its two neighboring minima. Rejects false
	// peaks riding on a drifting baseline.
	MinProminence float64

	// MinDistance is the minimum spacing between accepted peaks in seconds.
	// Intestinal contractions rarely occur faster than one per second;
	// closer candidates are double-counts of one event.
	MinDistance float64

	// MinWidth is the minimum peak width in seconds, measured at half
	// prominence. The primary noise filter: electrical spikes are narrow,
	// real contractions are wide.
	MinWidth float64

	// BoundaryFraction is the fraction of peak amplitude above baseline at
	// which a contraction starts and ends.
	BoundaryFraction float64

	// AnalysisWindow is the number of seconds analyzed from the start of
	// each recording. Trimming every file to the same window avoids
	// contractile rundown artifacts in longer recordings.
	AnalysisWindow float64

	// BinDuration is the sub-window size in seconds for the binned pass.
	BinDuration float64

	// AmplitudeQualityThreshold flags recordings whose mean amplitude falls
	// below it, in mN. Advisory only; flagged files are never excluded.
	AmplitudeQualityThreshold float64

	// MinReliableCount marks per-contraction means as unreliable below this
	// many events. Advisory only.
	MinReliableCount int
}

// DefaultParams returns the standard parameter set for drug-treated adult
// intestinal tissue at 250 Hz acquisition.
func DefaultParams() Params {
	return Params{
		MinHeight:                 0.05,
		MinProminence:             0.05,
		MinDistance:               1.0,
		MinWidth:                  0.3,
		BoundaryFraction:          0.10,
		AnalysisWindow:            150,
		BinDuration:               10,
		AmplitudeQualityThreshold: 0.03,
		MinReliableCount:          5,
	}
}
