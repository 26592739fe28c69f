// Package plot renders per-recording validation pages. Operators review
// these before trusting the workbook numbers: every detected peak is marked
// on the trace together with the baseline and height-threshold reference
// lines, so mis-detection is visible at a glance.
package plot

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/immaturegutlab/wire-myography-analyzer/internal/analysis"
	"github.com/immaturegutlab/wire-myography-analyzer/internal/trace"
)

// maxPlotPoints caps the rendered sample count; a 150 s window at 250 Hz
// would otherwise put 37 500 points into one HTML page.
const maxPlotPoints = 4000

const zoomSeconds = 60

// WriteValidationPage renders the validation page for one recording: the
// full analysis window plus a first-minute zoom, each with peak markers and
// reference lines.
func WriteValidationPage(path, fileName string, res *analysis.Result, p analysis.Params) error {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("Validation: %s", fileName)

	full := traceChart(
		fmt.Sprintf("%s: full window", fileName),
		summaryLine(res),
		res.Window, res, p,
	)
	zoom := traceChart(
		fmt.Sprintf("%s: first %d s", fileName, zoomSeconds),
		"detection detail",
		res.Window.Window(res.Window.Time[0], zoomSeconds), res, p,
	)
	page.AddCharts(full, zoom)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create plot %s: %w", path, err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		return fmt.Errorf("render plot %s: %w", path, err)
	}
	return nil
}

// summaryLine compresses the key metrics into the chart subtitle.
func summaryLine(res *analysis.Result) string {
	m := res.Recording
	s := fmt.Sprintf("n=%d, %.1f cpm, baseline %.4f mN", m.Count, m.FrequencyCPM, m.BaselineTone)
	if m.MeanAmplitude.Valid {
		s += fmt.Sprintf(", mean amplitude %.4f mN", m.MeanAmplitude.Value)
	}
	for _, flag := range m.Flags {
		s += fmt.Sprintf(" [%s]", flag.Code)
	}
	return s
}

func traceChart(title, subtitle string, window trace.Trace, res *analysis.Result, p analysis.Params) components.Charter {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "value",
			Name: "time (s)",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:  "value",
			Name:  "force (mN)",
			Scale: opts.Bool(true),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)

	stride := window.Len()/maxPlotPoints + 1
	items := make([]opts.LineData, 0, window.Len()/stride+1)
	for i := 0; i < window.Len(); i += stride {
		items = append(items, opts.LineData{Value: []interface{}{window.Time[i], window.Force[i]}})
	}

	line.AddSeries("force", items).SetSeriesOptions(
		charts.WithLineStyleOpts(opts.LineStyle{Width: 1}),
		charts.WithMarkLineNameYAxisItemOpts(
			opts.MarkLineNameYAxisItem{Name: "baseline", YAxis: res.Baseline},
			opts.MarkLineNameYAxisItem{Name: "height threshold", YAxis: res.Baseline + p.MinHeight},
		),
	)

	// Peaks inside this chart's time span, drawn over the trace.
	lo := window.Time[0]
	hi := window.Time[window.Len()-1]
	peaks := make([]opts.ScatterData, 0, len(res.Contractions))
	for _, c := range res.Contractions {
		if c.Peak.Time < lo || c.Peak.Time > hi {
			continue
		}
		peaks = append(peaks, opts.ScatterData{
			Value:      []interface{}{c.Peak.Time, c.Peak.Force},
			SymbolSize: 10,
		})
	}
	scatter := charts.NewScatter()
	scatter.AddSeries("peaks", peaks)
	line.Overlap(scatter)

	return line
}
