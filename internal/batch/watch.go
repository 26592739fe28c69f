package batch

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// settleDelay gives LabChart time to finish writing an export before the
// batch picks it up; exports arrive via buffered writes, not atomic rename.
const settleDelay = 2 * time.Second

// Watch monitors inDir and runs a batch whenever new .txt exports land,
// until ctx is cancelled. It relies on processed files being moved out of
// inDir between batches; with move_processed disabled every event would
// reprocess the whole folder, so Watch refuses that configuration.
func (r *Runner) Watch(ctx context.Context, inDir, outDir string) error {
	if !r.batch.MoveProcessed {
		r.log.Warn("Watch mode forces batch.move_processed on")
		r.batch.MoveProcessed = true
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(inDir); err != nil {
		return err
	}
	r.log.Info("Watching for new exports", zap.String("dir", inDir))

	// Anything already sitting in the folder is processed first.
	if paths, _ := listExports(inDir); len(paths) > 0 {
		if _, err := r.Run(ctx, inDir, outDir); err != nil {
			r.log.Error("Initial batch failed", zap.Error(err))
		}
	}

	var pending bool
	var timer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".txt") {
				continue
			}
			// Debounce: a burst of exports becomes one batch.
			pending = true
			timer = time.After(settleDelay)

		case <-timer:
			if !pending {
				continue
			}
			pending = false
			if _, err := r.Run(ctx, inDir, outDir); err != nil {
				r.log.Error("Watch batch failed", zap.Error(err))
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.log.Error("Watcher error", zap.Error(err))
		}
	}
}
