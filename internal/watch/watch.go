// Package watch rebuilds the site when source files change. It watches
// every configured source root recursively, debounces change bursts into a
// single rebuild, and keeps the loop alive across failed rebuilds so the
// last good output stays served.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sitegen/config"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/siteerr"
)

// DefaultDebounce is the quiet window required after the last change before
// a rebuild starts.
const DefaultDebounce = time.Second

// Rebuilder runs one full build pass.
type Rebuilder func(ctx context.Context) error

// Watcher drives the change-detection and rebuild loop for one site.
type Watcher struct {
	cfg      *config.Config
	rebuild  Rebuilder
	debounce time.Duration
	recorder metrics.Recorder
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides the debounce window.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithRecorder attaches a metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(w *Watcher) { w.recorder = r }
}

// New creates a watcher that invokes rebuild after changes settle.
func New(cfg *config.Config, rebuild Rebuilder, opts ...Option) *Watcher {
	w := &Watcher{
		cfg:      cfg,
		rebuild:  rebuild,
		debounce: DefaultDebounce,
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run blocks until ctx is canceled, rebuilding on file changes. Failed
// rebuilds are logged and the loop continues; only watcher setup errors
// are returned.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return siteerr.Wrap(err, siteerr.CategoryWatch, siteerr.SeverityFatal, "create filesystem watcher")
	}
	defer func() { _ = watcher.Close() }()

	for _, root := range w.cfg.WatchRoots() {
		if st, statErr := os.Stat(root); statErr != nil || !st.IsDir() {
			slog.Debug("watch root missing, skipping", logfields.Path(root))
			continue
		}
		if err := addDirsRecursive(watcher, root); err != nil {
			return siteerr.Wrap(err, siteerr.CategoryWatch, siteerr.SeverityFatal, "register watch roots")
		}
		slog.Info("watching", logfields.Path(root))
	}
	if w.cfg.ConfigPath != "" {
		if err := watcher.Add(filepath.Dir(w.cfg.ConfigPath)); err != nil {
			slog.Warn("cannot watch config directory", logfields.Error(err))
		}
	}

	requests, trigger := newDebouncer(w.debounce)
	go runWorker(ctx, requests, w.rebuild, func(err error) {
		w.recorder.IncRebuild()
		if err != nil {
			slog.Error("rebuild failed, keeping previous output", logfields.Error(err))
			return
		}
		slog.Info("rebuild complete")
	})

	for {
		select {
		case <-ctx.Done():
			slog.Info("stopping watcher")
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(watcher, ev, trigger)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", logfields.Error(werr))
		}
	}
}

func (w *Watcher) handleEvent(watcher *fsnotify.Watcher, ev fsnotify.Event, trigger func()) {
	if shouldIgnore(ev.Name) {
		return
	}
	if w.insideOutput(ev.Name) {
		return
	}
	// New directories must join the watch set or changes inside them go
	// unseen.
	if ev.Op&fsnotify.Create == fsnotify.Create {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = addDirsRecursive(watcher, ev.Name)
		}
	}
	slog.Debug("change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
	trigger()
}

func (w *Watcher) insideOutput(path string) bool {
	out, err := filepath.Abs(w.cfg.OutputDir)
	if err != nil {
		return false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return abs == out || strings.HasPrefix(abs, out+string(filepath.Separator))
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.Add(path); err != nil {
				slog.Warn("watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnore reports whether a path is editor noise rather than a source
// change.
func shouldIgnore(path string) bool {
	base := filepath.Base(path)

	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, ".#") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	if base == "Thumbs.db" {
		return true
	}
	return false
}
