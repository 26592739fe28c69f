package models

import (
	"time"

	"github.com/immaturegutlab/wire-myography-analyzer/internal/analysis"
)

// AnalysisRun is one batch invocation: its parameters and file tallies.
type AnalysisRun struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time

	InputDir  string
	OutputDir string
	Preset    string

	MinHeight        float64
	MinProminence    float64
	MinDistance      float64
	MinWidth         float64
	BoundaryFraction float64
	AnalysisWindow   float64
	BinDuration      float64

	FileCount    int
	FailedCount  int
	FlaggedCount int

	Recordings []RecordingResult `gorm:"foreignKey:RunID"`
}

// RecordingResult is the overall metric row for one recording. Absent
// metrics are NULL columns, never zeroes, so downstream statistics over the
// store stay honest.
type RecordingResult struct {
	ID        uint   `gorm:"primaryKey"`
	RunID     string `gorm:"index"`
	CreatedAt time.Time

	FileName       string `gorm:"index"`
	WindowDuration float64
	Baseline       float64

	ContractionCount int
	FrequencyCPM     float64

	MeanAmplitude *float64
	AmplitudeCV   *float64
	MeanPeriod    *float64
	PeriodCV      *float64

	MeanDuration       *float64
	MeanRiseTime       *float64
	MeanRelaxationTime *float64
	MeanRiseFallRatio  *float64
	MeanMaxRiseRate    *float64
	MeanMaxDeclineRate *float64
	MeanWidthHalfMax   *float64

	TotalIntegral       float64
	WindowIntegral      float64
	ForcePerContraction *float64
	ForcePerMinute      float64

	DutyCyclePct            float64
	PhasicTonicRatio        *float64
	IncompleteRelaxationPct *float64

	EdgeTruncatedCount int
	Flags              string // comma-joined advisory codes
	PlotFile           string

	Bins []BinResult `gorm:"foreignKey:RecordingID"`
}

// BinResult is one fixed-width sub-window row.
type BinResult struct {
	ID          uint `gorm:"primaryKey"`
	RecordingID uint `gorm:"index"`

	BinIndex  int
	StartTime float64
	EndTime   float64

	ContractionCount int
	FrequencyCPM     float64
	MeanAmplitude    *float64
	AmplitudeCV      *float64
	MeanPeriod       *float64
	DutyCyclePct     float64
	TotalIntegral    float64
	Flags            string
}

// nullable converts a tagged metric into a NULL-able column value.
func nullable(m analysis.Metric) *float64 {
	if !m.Valid {
		return nil
	}
	v := m.Value
	return &v
}

func joinFlags(flags []analysis.QualityFlag) string {
	s := ""
	for i, f := range flags {
		if i > 0 {
			s += ","
		}
		s += f.Code
	}
	return s
}

// NewRecordingResult flattens one recording's metrics into a store row.
func NewRecordingResult(runID, fileName, plotFile string, res *analysis.Result) RecordingResult {
	m := res.Recording
	row := RecordingResult{
		RunID:          runID,
		FileName:       fileName,
		WindowDuration: m.WindowDuration,
		Baseline:       res.Baseline,

		ContractionCount: m.Count,
		FrequencyCPM:     m.FrequencyCPM,

		MeanAmplitude: nullable(m.MeanAmplitude),
		AmplitudeCV:   nullable(m.AmplitudeCV),
		MeanPeriod:    nullable(m.MeanPeriod),
		PeriodCV:      nullable(m.PeriodCV),

		MeanDuration:       nullable(m.MeanDuration),
		MeanRiseTime:       nullable(m.MeanRiseTime),
		MeanRelaxationTime: nullable(m.MeanRelaxationTime),
		MeanRiseFallRatio:  nullable(m.MeanRiseFallRatio),
		MeanMaxRiseRate:    nullable(m.MeanMaxRiseRate),
		MeanMaxDeclineRate: nullable(m.MeanMaxDeclineRate),
		MeanWidthHalfMax:   nullable(m.MeanWidthHalfMax),

		TotalIntegral:       m.TotalIntegral,
		WindowIntegral:      m.WindowIntegral,
		ForcePerContraction: nullable(m.ForcePerContraction),
		ForcePerMinute:      m.ForcePerMinute,

		DutyCyclePct:            m.DutyCyclePct,
		PhasicTonicRatio:        nullable(m.PhasicTonicRatio),
		IncompleteRelaxationPct: nullable(m.IncompleteRelaxationPct),

		EdgeTruncatedCount: m.EdgeTruncatedCount,
		Flags:              joinFlags(m.Flags),
		PlotFile:           plotFile,
	}
	for _, b := range res.Bins {
		row.Bins = append(row.Bins, BinResult{
			BinIndex:  b.Index,
			StartTime: b.StartTime,
			EndTime:   b.EndTime,

			ContractionCount: b.Count,
			FrequencyCPM:     b.FrequencyCPM,
			MeanAmplitude:    nullable(b.MeanAmplitude),
			AmplitudeCV:      nullable(b.AmplitudeCV),
			MeanPeriod:       nullable(b.MeanPeriod),
			DutyCyclePct:     b.DutyCyclePct,
			TotalIntegral:    b.TotalIntegral,
			Flags:            joinFlags(b.Flags),
		})
	}
	return row
}
