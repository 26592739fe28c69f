package analysis

import (
	"fmt"

	"github.com/immaturegutlab/wire-myography-analyzer/internal/trace"
)

// Quality flag codes. Flags are advisory: they surface a recording for
// manual review of its validation plot and never alter or suppress the
// computed values.
const (
	FlagLowAmplitude     = "low_amplitude"
	FlagLowCount         = "low_contraction_count"
	FlagInsufficientData = "insufficient_data"
)

// QualityFlag is an advisory annotation on a metric record.
type QualityFlag struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RecordingMetrics is the flat metric record for one analysis window.
// Immutable once produced. A zero contraction count is a valid result, not
// a failure: frequency and duty cycle are zero and the per-contraction
// means are absent.
type RecordingMetrics struct {
	WindowStart    float64 `json:"windowStart"`
	WindowDuration float64 `json:"windowDuration"`

	Count        int     `json:"count"`
	FrequencyCPM float64 `json:"frequencyCpm"`

	MeanAmplitude Metric `json:"meanAmplitude"`
	AmplitudeCV   Metric `json:"amplitudeCv"`
	MeanPeriod    Metric `json:"meanPeriod"`
	PeriodCV      Metric `json:"periodCv"`

	MeanDuration       Metric `json:"meanDuration"`
	MeanRiseTime       Metric `json:"meanRiseTime"`
	MeanRelaxationTime Metric `json:"meanRelaxationTime"`
	MeanRiseFallRatio  Metric `json:"meanRiseFallRatio"`
	MeanMaxRiseRate    Metric `json:"meanMaxRiseRate"`
	MeanMaxDeclineRate Metric `json:"meanMaxDeclineRate"`
	MeanWidthHalfMax   Metric `json:"meanWidthHalfMax"`

	// TotalIntegral sums the per-contraction integrals; WindowIntegral is
	// the whole window's force above baseline, kept for cross-validation.
	TotalIntegral  float64 `json:"totalIntegral"`
	WindowIntegral float64 `json:"windowIntegral"`

	ForcePerContraction Metric  `json:"forcePerContraction"`
	ForcePerMinute      float64 `json:"forcePerMinute"`

	DutyCyclePct float64 `json:"dutyCyclePct"`
	BaselineTone float64 `json:"baselineTone"`

	// PhasicTonicRatio normalizes phasic work against resting tone:
	// TotalIntegral / (baseline * window duration). Absent when baseline
	// is not positive.
	PhasicTonicRatio Metric `json:"phasicTonicRatio"`

	// IncompleteRelaxationPct is the share of consecutive contraction
	// pairs whose inter-peak trough never returns below the preceding
	// event's boundary threshold. Absent with fewer than two events.
	IncompleteRelaxationPct Metric `json:"incompleteRelaxationPct"`

	EdgeTruncatedCount int `json:"edgeTruncatedCount"`

	Flags []QualityFlag `json:"flags,omitempty"`
}

// Flagged reports whether any advisory flag is raised.
func (m RecordingMetrics) Flagged() bool { return len(m.Flags) > 0 }

// Aggregate reduces a window's contractions, trace and baseline into one
// RecordingMetrics record. windowDuration is the nominal window length in
// seconds (truncated to the trace where the recording is shorter) and is
// the denominator of every rate; for a partial final bin it is the bin's
// true, shorter length.
func Aggregate(tr trace.Trace, contractions []Contraction, baseline, windowDuration float64, p Params) RecordingMetrics {
	m := RecordingMetrics{
		WindowDuration: windowDuration,
		Count:          len(contractions),
		BaselineTone:   baseline,
	}
	if tr.Len() > 0 {
		m.WindowStart = tr.Time[0]
	}
	m.WindowIntegral = segmentIntegral(tr, 0, tr.Len()-1, baseline)

	if windowDuration > 0 {
		m.FrequencyCPM = float64(m.Count) * 60 / windowDuration
	}

	if m.Count > 0 {
		amplitudes := make([]float64, m.Count)
		durations := make([]float64, m.Count)
		riseTimes := make([]float64, m.Count)
		relaxTimes := make([]float64, m.Count)
		ratios := make([]Metric, m.Count)
		riseRates := make([]Metric, m.Count)
		declineRates := make([]Metric, m.Count)
		widths := make([]Metric, m.Count)
		for i, c := range contractions {
			amplitudes[i] = c.Amplitude
			durations[i] = c.Duration
			riseTimes[i] = c.RiseTime
			relaxTimes[i] = c.RelaxationTime
			ratios[i] = c.RiseFallRatio
			riseRates[i] = c.MaxRiseRate
			declineRates[i] = c.MaxDeclineRate
			widths[i] = c.WidthHalfMax
			m.TotalIntegral += c.Integral
			if c.EdgeTruncated {
				m.EdgeTruncatedCount++
			}
		}

		m.MeanAmplitude = meanOf(amplitudes)
		m.AmplitudeCV = coefficientOfVariation(amplitudes)
		m.MeanDuration = meanOf(durations)
		m.MeanRiseTime = meanOf(riseTimes)
		m.MeanRelaxationTime = meanOf(relaxTimes)
		m.MeanRiseFallRatio = meanOfValid(ratios)
		m.MeanMaxRiseRate = meanOfValid(riseRates)
		m.MeanMaxDeclineRate = meanOfValid(declineRates)
		m.MeanWidthHalfMax = meanOfValid(widths)

		if m.Count > 1 {
			periods := make([]float64, m.Count-1)
			for i := 1; i < m.Count; i++ {
				periods[i-1] = contractions[i].Peak.Time - contractions[i-1].Peak.Time
			}
			m.MeanPeriod = meanOf(periods)
			m.PeriodCV = coefficientOfVariation(periods)
		}

		m.ForcePerContraction = metricOf(m.TotalIntegral/float64(m.Count), m.Count)
		if windowDuration > 0 {
			m.ForcePerMinute = m.TotalIntegral * 60 / windowDuration
			total := 0.0
			for _, d := range durations {
				total += d
			}
			m.DutyCyclePct = total / windowDuration * 100
		}

		m.IncompleteRelaxationPct = incompleteRelaxation(tr, contractions, baseline, p.BoundaryFraction)
	}

	if baseline > 0 && windowDuration > 0 {
		m.PhasicTonicRatio = metricOf(m.TotalIntegral/(baseline*windowDuration), m.Count)
	}

	m.Flags = qualityFlags(m, p)
	return m
}

// incompleteRelaxation measures tonic overlap: for each consecutive pair,
// the trough between the peaks is compared against the preceding event's
// boundary threshold. Staying above it means the tissue never fully relaxed
// before the next contraction.
func incompleteRelaxation(tr trace.Trace, contractions []Contraction, baseline, fraction float64) Metric {
	if len(contractions) < 2 {
		return absentMetric()
	}
	pairs := len(contractions) - 1
	incomplete := 0
	for i := 0; i < pairs; i++ {
		threshold := baseline + fraction*contractions[i].Amplitude
		trough := troughIndex(tr.Force, contractions[i].Peak.Index, contractions[i+1].Peak.Index)
		if tr.Force[trough] > threshold {
			incomplete++
		}
	}
	return metricOf(float64(incomplete)/float64(pairs)*100, pairs)
}

func qualityFlags(m RecordingMetrics, p Params) []QualityFlag {
	var flags []QualityFlag
	if m.MeanAmplitude.Valid && m.MeanAmplitude.Value < p.AmplitudeQualityThreshold {
		flags = append(flags, QualityFlag{
			Code:    FlagLowAmplitude,
			Message: fmt.Sprintf("mean amplitude %.4f mN below %.2f mN, review validation plot", m.MeanAmplitude.Value, p.AmplitudeQualityThreshold),
		})
	}
	if m.Count > 0 && m.Count < p.MinReliableCount {
		flags = append(flags, QualityFlag{
			Code:    FlagLowCount,
			Message: fmt.Sprintf("only %d contractions, per-contraction means unreliable below %d", m.Count, p.MinReliableCount),
		})
	}
	return flags
}
