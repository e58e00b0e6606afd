package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/GoSim-25-26J-441/go-depgraph-backend/internal/dependency_graph/ingest/parser"
	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 250 * time.Millisecond

type Loader interface {
	LoadDocument(ctx context.Context, doc *parser.Document) error
}

// Watcher reloads the served graph whenever its source file changes.
// The parent directory is watched so editors that replace the file on save
// are still picked up.
type Watcher struct {
	path     string
	loader   Loader
	debounce time.Duration
	log      *slog.Logger
	onReload func(error)
}

func New(path string, loader Loader, debounce time.Duration, log *slog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = slog.Default()
	}
	return &Watcher{path: filepath.Clean(path), loader: loader, debounce: debounce, log: log}
}

// OnReload registers a callback invoked after every reload attempt.
func (w *Watcher) OnReload(fn func(error)) { w.onReload = fn }

// Load parses the source file and hands it to the loader. On any error the
// loader is not called, so the previous graph stays in place.
func (w *Watcher) Load(ctx context.Context) error {
	doc, err := parser.ParseFile(w.path)
	if err != nil {
		return fmt.Errorf("reload %s: %w", w.path, err)
	}
	if err := w.loader.LoadDocument(ctx, doc); err != nil {
		return fmt.Errorf("reload %s: %w", w.path, err)
	}
	return nil
}

// Run blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", w.path, err)
	}
	w.log.Info("watching graph source", "path", w.path)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", "path", w.path, "error", err)
		case <-timer.C:
			err := w.Load(ctx)
			if err != nil {
				w.log.Error("graph reload failed, keeping previous graph", "path", w.path, "error", err)
			} else {
				w.log.Info("graph reloaded", "path", w.path)
			}
			if w.onReload != nil {
				w.onReload(err)
			}
		}
	}
}
