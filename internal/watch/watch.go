// Package watch re-validates workflow files whenever they change on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"wfcheck/internal/core"
	"wfcheck/internal/output"
)

// Watcher validates a fixed set of files once, then again on every change
type Watcher struct {
	runner  *core.Runner
	printer output.Printer
	logger  zerolog.Logger
}

func New(runner *core.Runner, printer output.Printer, logger zerolog.Logger) *Watcher {
	return &Watcher{runner: runner, printer: printer, logger: logger}
}

// Run blocks until ctx is done. Parent directories are watched rather than
// the files themselves so that editors which save by rename keep working.
func (w *Watcher) Run(ctx context.Context, files []string) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	// absolute path -> name as given on the command line
	tracked := make(map[string]string, len(files))
	dirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("absolute path: %w", err)
		}
		tracked[abs] = f
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watch directory %s: %w", dir, err)
		}
	}

	if err := w.printer.Print(w.runner.Run(ctx, files)); err != nil {
		return err
	}
	w.logger.Info().Int("files", len(files)).Int("dirs", len(dirs)).Msg("watching for changes")

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			name, ok := tracked[filepath.Clean(event.Name)]
			if !ok || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.logger.Debug().Str("event", event.Op.String()).Str("file", name).Msg("file changed")
			if err := w.printer.Print([]core.Result{w.runner.CheckFile(name)}); err != nil {
				return err
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().Err(err).Msg("file watcher error")
		}
	}
}
