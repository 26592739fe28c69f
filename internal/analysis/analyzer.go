package analysis

import (
	"fmt"

	"github.com/immaturegutlab/wire-myography-analyzer/internal/trace"
)

// Analyzer runs the full derivation chain for one recording with a fixed
// parameter set.
type Analyzer struct {
	params Params
}

// New returns an Analyzer bound to the given parameters.
func New(params Params) *Analyzer {
	return &Analyzer{params: params}
}

// Params returns the parameter set this Analyzer was built with.
func (a *Analyzer) Params() Params { return a.params }

// Result bundles everything derived from one recording.
type Result struct {
	// Window is the normalized analysis window actually used.
	Window trace.Trace
	// Baseline is the window's resting tone in mN.
	Baseline float64
	// Contractions are the detected events in peak order.
	Contractions []Contraction
	// Recording is the window-level metric record.
	Recording RecordingMetrics
	// Bins are the fixed-width sub-window records, in order, covering the
	// window with no gaps.
	Bins []BinMetrics
}

// Analyze processes one raw recording: normalizes its time axis, trims to
// the analysis window, and runs baseline estimation, detection, boundary
// resolution, kinetics and aggregation, plus the independent binned pass.
// Recordings too short to support a baseline fail with
// InsufficientDataError; the caller reports and skips them.
func (a *Analyzer) Analyze(raw trace.Trace) (*Result, error) {
	normalized := raw.Normalize()
	// Windows are half-open, so the epsilon keeps the sample at exactly
	// t=AnalysisWindow inside a full-length recording, matching the final
	// bin in ComputeBins.
	window := normalized.Window(0, a.params.AnalysisWindow+1e-9)

	baseline, err := EstimateBaseline(window.Force)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	contractions := DetectContractions(window, baseline, a.params)

	// A recording covering the full configured window uses the nominal
	// length as its rate denominator; a shorter one uses what it spans.
	windowDuration := window.Duration()
	if normalized.Duration() >= a.params.AnalysisWindow {
		windowDuration = a.params.AnalysisWindow
	}

	res := &Result{
		Window:       window,
		Baseline:     baseline,
		Contractions: contractions,
		Recording:    Aggregate(window, contractions, baseline, windowDuration, a.params),
		Bins:         ComputeBins(window, a.params),
	}
	return res, nil
}

// DetectContractions runs detection, boundary resolution and kinetics over
// one window, producing fully enriched contractions. Used both for the
// overall pass and for each bin.
func DetectContractions(window trace.Trace, baseline float64, p Params) []Contraction {
	peaks := DetectPeaks(window.Force, baseline, p, window.SamplingRate())
	contractions := ResolveBoundaries(window, peaks, baseline, p)
	for i := range contractions {
		ComputeKinetics(window, &contractions[i], baseline)
	}
	return contractions
}
