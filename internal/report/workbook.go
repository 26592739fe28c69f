// Package report renders batch results into the master Excel workbook
// downstream statistics tooling expects: an Overall_Metrics sheet with one
// row per recording and a 10sec_Bins sheet with one row per bin.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/immaturegutlab/wire-myography-analyzer/internal/analysis"
)

const (
	SheetOverall = "Overall_Metrics"
	SheetBins    = "10sec_Bins"
)

// Recording couples a file name with its analysis result for one workbook
// row.
type Recording struct {
	FileName string
	Result   *analysis.Result
}

// The column order is fixed; downstream converters index these sheets by
// header name and position.
var overallColumns = []string{
	"Filename",
	"Num_Contractions",
	"Frequency_cpm",
	"Mean_Amplitude_mN",
	"Amplitude_CV",
	"Mean_Period_sec",
	"Period_CV",
	"Mean_Duration_sec",
	"Mean_Rise_Time_sec",
	"Mean_Relax_Time_sec",
	"Mean_Rise_Fall_Ratio",
	"Mean_Rise_Rate_mN_per_sec",
	"Mean_Relax_Rate_mN_per_sec",
	"Mean_Width_Half_Max_sec",
	"Integral_Force_mN_sec",
	"Window_Integral_mN_sec",
	"Force_Per_Contraction_mN_sec",
	"Force_Per_Minute_mN_sec_per_min",
	"Duty_Cycle_percent",
	"Baseline_mN",
	"Phasic_Tonic_Ratio",
	"Percent_Incomplete_Relaxation",
	"N_Edge_Truncated",
	"Flags",
}

var binColumns = []string{
	"Filename",
	"Bin",
	"Time_Start_sec",
	"Time_End_sec",
	"Contractions",
	"Frequency_cpm",
	"Mean_Amplitude_mN",
	"Amplitude_CV",
	"Mean_Period_sec",
	"Duty_Cycle_percent",
	"Integral_Force_mN_sec",
	"Flags",
}

// cell renders a tagged metric: absent values become empty cells so Excel
// statistics (AVERAGE, COUNT) skip them instead of counting zeroes.
func cell(m analysis.Metric) interface{} {
	if !m.Valid {
		return nil
	}
	return m.Value
}

func flagCell(flags []analysis.QualityFlag) interface{} {
	if len(flags) == 0 {
		return nil
	}
	s := ""
	for i, f := range flags {
		if i > 0 {
			s += "; "
		}
		s += f.Message
	}
	return s
}

// WriteWorkbook writes the master workbook for one batch. Recordings are
// expected in file-name order; rows are written as given.
func WriteWorkbook(path string, recordings []Recording) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeOverall(f, recordings); err != nil {
		return err
	}
	if err := writeBins(f, recordings); err != nil {
		return err
	}

	// The default "Sheet1" is replaced by the two real sheets.
	f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex(SheetOverall); err == nil {
		f.SetActiveSheet(idx)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func writeOverall(f *excelize.File, recordings []Recording) error {
	if _, err := f.NewSheet(SheetOverall); err != nil {
		return err
	}
	if err := writeRow(f, SheetOverall, 1, toAny(overallColumns)); err != nil {
		return err
	}
	for i, rec := range recordings {
		m := rec.Result.Recording
		row := []interface{}{
			rec.FileName,
			m.Count,
			m.FrequencyCPM,
			cell(m.MeanAmplitude),
			cell(m.AmplitudeCV),
			cell(m.MeanPeriod),
			cell(m.PeriodCV),
			cell(m.MeanDuration),
			cell(m.MeanRiseTime),
			cell(m.MeanRelaxationTime),
			cell(m.MeanRiseFallRatio),
			cell(m.MeanMaxRiseRate),
			cell(m.MeanMaxDeclineRate),
			cell(m.MeanWidthHalfMax),
			m.TotalIntegral,
			m.WindowIntegral,
			cell(m.ForcePerContraction),
			m.ForcePerMinute,
			m.DutyCyclePct,
			m.BaselineTone,
			cell(m.PhasicTonicRatio),
			cell(m.IncompleteRelaxationPct),
			m.EdgeTruncatedCount,
			flagCell(m.Flags),
		}
		if err := writeRow(f, SheetOverall, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeBins(f *excelize.File, recordings []Recording) error {
	if _, err := f.NewSheet(SheetBins); err != nil {
		return err
	}
	if err := writeRow(f, SheetBins, 1, toAny(binColumns)); err != nil {
		return err
	}
	rowNum := 2
	for _, rec := range recordings {
		for _, b := range rec.Result.Bins {
			row := []interface{}{
				rec.FileName,
				b.Index + 1, // 1-based in the sheet, as operators expect
				b.StartTime,
				b.EndTime,
				b.Count,
				b.FrequencyCPM,
				cell(b.MeanAmplitude),
				cell(b.AmplitudeCV),
				cell(b.MeanPeriod),
				b.DutyCyclePct,
				b.TotalIntegral,
				flagCell(b.Flags),
			}
			if err := writeRow(f, SheetBins, rowNum, row); err != nil {
				return err
			}
			rowNum++
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	ref, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, ref, &values)
}

func toAny(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
