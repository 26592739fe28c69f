// Command myograph analyzes wire-myography LabChart exports: contraction
// detection, kinetics, binned metrics, Excel workbook, validation plots and
// a run history with a small review API.
//
// Usage:
//
//	myograph [flags] analyze PROJECT_DIR [height]
//	myograph [flags] analyze IN_DIR OUT_DIR [height]
//	myograph [flags] watch PROJECT_DIR
//	myograph [flags] serve [PROJECT_DIR]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/immaturegutlab/wire-myography-analyzer/internal/analysis"
	"github.com/immaturegutlab/wire-myography-analyzer/internal/batch"
	"github.com/immaturegutlab/wire-myography-analyzer/internal/config"
	"github.com/immaturegutlab/wire-myography-analyzer/internal/database"
	"github.com/immaturegutlab/wire-myography-analyzer/internal/logging"
	"github.com/immaturegutlab/wire-myography-analyzer/internal/repository"
	"github.com/immaturegutlab/wire-myography-analyzer/internal/router"
)

func main() {
	configRoot := flag.String("config-root", ".", "directory holding config/config.yaml and config/presets.yaml")
	presetName := flag.String("preset", "", "tissue preset for the peak-height threshold (neonatal, default, adult, noisy)")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	// Config errors surface before the real logger exists.
	bootstrap := zap.NewNop()
	cfg, err := config.Load(*configRoot, bootstrap)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := logging.Init(cfg.Logging.Options())
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var run func() error
	switch cmd, args := flag.Arg(0), flag.Args()[1:]; cmd {
	case "analyze":
		run = func() error { return runAnalyze(ctx, cfg, log, *configRoot, *presetName, args, false) }
	case "watch":
		run = func() error { return runAnalyze(ctx, cfg, log, *configRoot, *presetName, args, true) }
	case "serve":
		run = func() error { return runServe(ctx, cfg, log, args) }
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}

	if err := run(); err != nil {
		log.Error("Command failed", zap.Error(err))
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `myograph - wire myography contraction analysis

Commands:
  analyze PROJECT_DIR [height]     project mode (%s -> %s)
  analyze IN_DIR OUT_DIR [height]  explicit folders
  watch PROJECT_DIR                analyze new exports as they arrive
  serve [PROJECT_DIR]              review API over past runs

Flags:
`, "1_RawData", "3_Results")
	flag.PrintDefaults()
}

// resolveDirs maps the analyze/watch arguments onto input and output
// folders, detecting project layout, and peels off a trailing numeric
// peak-height override.
func resolveDirs(cfg *config.Config, args []string) (inDir, outDir string, height float64, hasHeight bool, err error) {
	// A trailing float is the height override.
	if n := len(args); n > 0 {
		if v, ferr := strconv.ParseFloat(args[n-1], 64); ferr == nil {
			height, hasHeight = v, true
			args = args[:n-1]
		}
	}

	switch len(args) {
	case 1:
		project := args[0]
		raw := filepath.Join(project, cfg.Paths.RawData)
		if fi, statErr := os.Stat(raw); statErr == nil && fi.IsDir() {
			return raw, filepath.Join(project, cfg.Paths.Results), height, hasHeight, nil
		}
		// A plain folder of exports outputs next to itself.
		return project, filepath.Join(project, cfg.Paths.Results), height, hasHeight, nil
	case 2:
		return args[0], args[1], height, hasHeight, nil
	default:
		return "", "", 0, false, fmt.Errorf("expected PROJECT_DIR or IN_DIR OUT_DIR, got %d arguments", len(args))
	}
}

// resolveParams builds the detection parameter value: config, then preset,
// then the explicit height override, in ascending precedence.
func resolveParams(cfg *config.Config, configRoot, presetName string, height float64, hasHeight bool, log *zap.Logger) (analysis.Params, string, error) {
	params := cfg.Analysis.Params()

	name := presetName
	if name == "" {
		name = cfg.Analysis.Preset
	}
	if name != "" {
		presets, err := config.LoadPresets(filepath.Join(configRoot, "config", "presets.yaml"))
		if err != nil {
			return params, "", err
		}
		p, err := config.FindPreset(presets, name)
		if err != nil {
			return params, "", err
		}
		params.MinHeight = p.MinHeight
		log.Info("Tissue preset applied", zap.String("preset", p.Name), zap.Float64("min_height", p.MinHeight))
	}
	if hasHeight {
		params.MinHeight = height
		log.Info("Peak height override", zap.Float64("min_height", height))
	}
	return params, name, nil
}

func runAnalyze(ctx context.Context, cfg *config.Config, log *zap.Logger, configRoot, presetName string, args []string, watch bool) error {
	inDir, outDir, height, hasHeight, err := resolveDirs(cfg, args)
	if err != nil {
		return err
	}
	params, preset, err := resolveParams(cfg, configRoot, presetName, height, hasHeight, log)
	if err != nil {
		return err
	}

	var results *repository.Results
	if db := openStore(cfg, log, outDir); db != nil {
		results = repository.NewResults(db)
	}

	runner := batch.NewRunner(log, params, cfg.Batch, results, preset)
	if watch {
		return runner.Watch(ctx, inDir, outDir)
	}

	summary, err := runner.Run(ctx, inDir, outDir)
	if err != nil {
		return err
	}
	fmt.Printf("Processed %d recording(s)", summary.Processed)
	if len(summary.Failed) > 0 {
		fmt.Printf(", %d failed: %v", len(summary.Failed), summary.Failed)
	}
	if len(summary.Flagged) > 0 {
		fmt.Printf(", %d flagged for review: %v", len(summary.Flagged), summary.Flagged)
	}
	fmt.Println()
	if summary.WorkbookPath != "" {
		fmt.Println("Workbook:", summary.WorkbookPath)
	}
	return nil
}

func runServe(ctx context.Context, cfg *config.Config, log *zap.Logger, args []string) error {
	project := "."
	if len(args) > 0 {
		project = args[0]
	}
	resultsDir := filepath.Join(project, cfg.Paths.Results)

	db := openStore(cfg, log, resultsDir)
	if db == nil {
		return fmt.Errorf("no result store under %s; run analyze first", resultsDir)
	}

	r := router.Setup(log, repository.NewResults(db), resultsDir)

	addr := ":" + cfg.Server.Port
	log.Info("Review server listening", zap.String("addr", "http://localhost"+addr))

	srv := &http.Server{Addr: addr, Handler: r}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	select {
	case <-ctx.Done():
		log.Info("Shutting down review server")
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// openStore opens the result store under outDir; a failure is logged and
// analysis continues without persistence.
func openStore(cfg *config.Config, log *zap.Logger, outDir string) *gorm.DB {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		log.Warn("Could not create results dir", zap.Error(err))
		return nil
	}
	db, err := database.Open(filepath.Join(outDir, cfg.Database.Path), log)
	if err != nil {
		log.Warn("Result store unavailable, continuing without persistence", zap.Error(err))
		return nil
	}
	return db
}
