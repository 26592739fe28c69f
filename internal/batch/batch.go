// Package batch runs the analysis chain over a folder of LabChart exports.
// Files are processed concurrently but reported in name order, and one bad
// file never takes down the batch: it is logged, counted and skipped.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/immaturegutlab/wire-myography-analyzer/internal/analysis"
	"github.com/immaturegutlab/wire-myography-analyzer/internal/config"
	"github.com/immaturegutlab/wire-myography-analyzer/internal/models"
	"github.com/immaturegutlab/wire-myography-analyzer/internal/plot"
	"github.com/immaturegutlab/wire-myography-analyzer/internal/report"
	"github.com/immaturegutlab/wire-myography-analyzer/internal/repository"
	"github.com/immaturegutlab/wire-myography-analyzer/internal/trace"
)

// Runner executes batches with one fixed parameter set per run.
type Runner struct {
	log     *zap.Logger
	params  analysis.Params
	batch   config.BatchConfig
	results *repository.Results // nil disables persistence
	preset  string
}

// NewRunner builds a Runner. results may be nil when no store is open.
func NewRunner(log *zap.Logger, params analysis.Params, batch config.BatchConfig, results *repository.Results, preset string) *Runner {
	return &Runner{
		log:     log,
		params:  params,
		batch:   batch,
		results: results,
		preset:  preset,
	}
}

// Summary is what one batch did, for the operator and the exit code.
type Summary struct {
	RunID        string
	WorkbookPath string
	Processed    int
	Failed       []string
	Flagged      []string
}

type fileResult struct {
	name   string
	result *analysis.Result
	plot   string
	err    error
}

// Run analyzes every *.txt file under inDir and writes the workbook, plots
// and result-store rows into outDir. An empty folder is an error; a file
// that fails to load or analyze is not.
func (r *Runner) Run(ctx context.Context, inDir, outDir string) (*Summary, error) {
	paths, err := listExports(inDir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no .txt exports found in %s", inDir)
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	r.log.Info("Batch starting",
		zap.Int("files", len(paths)),
		zap.String("input", inDir),
		zap.String("output", outDir))

	results := r.analyzeAll(ctx, paths, outDir)

	summary := &Summary{RunID: uuid.NewString()}
	var ok []report.Recording
	for _, fr := range results {
		if fr.err != nil {
			r.log.Error("Recording failed", zap.String("file", fr.name), zap.Error(fr.err))
			summary.Failed = append(summary.Failed, fr.name)
			continue
		}
		summary.Processed++
		if fr.result.Recording.Flagged() {
			summary.Flagged = append(summary.Flagged, fr.name)
		}
		ok = append(ok, report.Recording{FileName: fr.name, Result: fr.result})
	}

	if len(ok) > 0 {
		name := fmt.Sprintf("Myography_Analysis_%s.xlsx", time.Now().Format("20060102_150405"))
		summary.WorkbookPath = filepath.Join(outDir, name)
		if err := report.WriteWorkbook(summary.WorkbookPath, ok); err != nil {
			return summary, err
		}
		r.log.Info("Workbook written", zap.String("path", summary.WorkbookPath))
	}

	if err := r.persist(ctx, inDir, outDir, summary, results); err != nil {
		// The workbook already exists; a store failure downgrades to a
		// warning rather than failing the batch.
		r.log.Warn("Result store write failed", zap.Error(err))
	}

	if r.batch.MoveProcessed {
		r.moveProcessed(inDir, results)
	}

	r.log.Info("Batch finished",
		zap.String("run", summary.RunID),
		zap.Int("processed", summary.Processed),
		zap.Strings("failed", summary.Failed),
		zap.Strings("flagged", summary.Flagged))
	return summary, nil
}

// analyzeAll fans the files out to a bounded worker pool; each result lands
// in its input slot so the output keeps name order.
func (r *Runner) analyzeAll(ctx context.Context, paths []string, outDir string) []fileResult {
	workers := r.batch.Workers
	if workers < 1 {
		workers = 1
	}

	results := make([]fileResult, len(paths))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = r.analyzeOne(paths[i], outDir)
			}
		}()
	}
	for i := range paths {
		if ctx.Err() != nil {
			break
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	for i, fr := range results {
		if fr.name == "" {
			results[i] = fileResult{name: filepath.Base(paths[i]), err: ctx.Err()}
		}
	}
	return results
}

func (r *Runner) analyzeOne(path, outDir string) fileResult {
	name := filepath.Base(path)
	fr := fileResult{name: name}

	tr, err := trace.LoadLabChart(path)
	if err != nil {
		fr.err = err
		return fr
	}
	res, err := analysis.New(r.params).Analyze(tr)
	if err != nil {
		fr.err = fmt.Errorf("%s: %w", name, err)
		return fr
	}
	fr.result = res

	if r.batch.WritePlots {
		plotName := strings.TrimSuffix(name, filepath.Ext(name)) + "_validation.html"
		fr.plot = filepath.Join(outDir, plotName)
		if err := plot.WriteValidationPage(fr.plot, name, res, r.params); err != nil {
			// The numbers are good even when the plot is not.
			r.log.Warn("Validation plot failed", zap.String("file", name), zap.Error(err))
			fr.plot = ""
		}
	}

	r.log.Info("Recording analyzed",
		zap.String("file", name),
		zap.Int("contractions", res.Recording.Count),
		zap.Float64("frequency_cpm", res.Recording.FrequencyCPM),
		zap.Bool("flagged", res.Recording.Flagged()))
	return fr
}

func (r *Runner) persist(ctx context.Context, inDir, outDir string, summary *Summary, results []fileResult) error {
	if r.results == nil {
		return nil
	}
	run := &models.AnalysisRun{
		ID:        summary.RunID,
		InputDir:  inDir,
		OutputDir: outDir,
		Preset:    r.preset,

		MinHeight:        r.params.MinHeight,
		MinProminence:    r.params.MinProminence,
		MinDistance:      r.params.MinDistance,
		MinWidth:         r.params.MinWidth,
		BoundaryFraction: r.params.BoundaryFraction,
		AnalysisWindow:   r.params.AnalysisWindow,
		BinDuration:      r.params.BinDuration,

		FileCount:    len(results),
		FailedCount:  len(summary.Failed),
		FlaggedCount: len(summary.Flagged),
	}
	if err := r.results.SaveRun(ctx, run); err != nil {
		return err
	}
	for _, fr := range results {
		if fr.err != nil {
			continue
		}
		row := models.NewRecordingResult(run.ID, fr.name, fr.plot, fr.result)
		if err := r.results.AddRecording(ctx, &row); err != nil {
			return err
		}
	}
	return nil
}

// moveProcessed relocates successfully analyzed inputs so a re-run (or
// watch mode) only sees new files.
func (r *Runner) moveProcessed(inDir string, results []fileResult) {
	dest := filepath.Join(filepath.Dir(inDir), "2_Processed")
	if err := os.MkdirAll(dest, 0755); err != nil {
		r.log.Warn("Could not create processed dir", zap.Error(err))
		return
	}
	for _, fr := range results {
		if fr.err != nil {
			continue // failed inputs stay put for inspection
		}
		from := filepath.Join(inDir, fr.name)
		if err := os.Rename(from, filepath.Join(dest, fr.name)); err != nil {
			r.log.Warn("Could not move processed file", zap.String("file", fr.name), zap.Error(err))
		}
	}
}

func listExports(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}
