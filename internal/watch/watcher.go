// Package watch turns writes of a build-output marker file into
// build-finished events.
package watch

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	ferrors "git.home.luguber.info/inful/releasepub/internal/foundation/errors"
	"git.home.luguber.info/inful/releasepub/internal/logfields"
)

const (
	// DefaultMarker is written last by the server build.
	DefaultMarker   = "nitro.json"
	DefaultDebounce = 2 * time.Second
)

// BuildFunc handles one build-finished event.
type BuildFunc func(ctx context.Context) error

// Watcher monitors an output root for the marker file.
type Watcher struct {
	root     string
	marker   string
	debounce time.Duration
	onBuild  BuildFunc
	logger   *slog.Logger

	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	trigger  chan struct{}
	stopChan chan struct{}
	done     chan struct{}
	stopped  bool
}

// Option configures a Watcher.
type Option func(*Watcher)

func WithMarker(name string) Option {
	return func(w *Watcher) { w.marker = name }
}

func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// New creates a Watcher for the output root. onBuild runs once per debounced
// marker write; its errors are logged and watching continues.
func New(root string, onBuild BuildFunc, opts ...Option) *Watcher {
	w := &Watcher{
		root:     root,
		marker:   DefaultMarker,
		debounce: DefaultDebounce,
		onBuild:  onBuild,
		logger:   slog.Default(),
		trigger:  make(chan struct{}, 1),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start registers the watches and begins processing events. The output root
// may not exist yet; its parent directory is watched so a recreated root is
// picked up again.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	abs, err := filepath.Abs(w.root)
	if err != nil {
		return ferrors.FileSystemError("failed to resolve output root").WithCause(err).WithContext("path", w.root).Build()
	}
	w.root = abs

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return ferrors.FileSystemError("failed to create file watcher").WithCause(err).Build()
	}
	parent := filepath.Dir(abs)
	if err := fw.Add(parent); err != nil {
		_ = fw.Close()
		return ferrors.FileSystemError("failed to watch output parent directory").
			WithCause(err).WithContext("path", parent).Build()
	}
	w.watcher = fw
	w.watchRoot()

	w.logger.Info("Watching for finished builds",
		logfields.Directory(w.root),
		logfields.Path(w.markerPath()))

	go w.watchLoop(ctx)
	go w.publishLoop(ctx)
	return nil
}

// Stop ends watching. It is safe to call more than once.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.stopChan)
	if w.watcher == nil {
		return nil
	}
	return w.watcher.Close()
}

// Done is closed once the publish loop has exited.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

func (w *Watcher) markerPath() string {
	return filepath.Join(w.root, w.marker)
}

// watchRoot adds the output root when it exists.
func (w *Watcher) watchRoot() {
	if err := w.watcher.Add(w.root); err != nil && !errors.Is(err, os.ErrNotExist) {
		w.logger.Warn("Failed to watch output root", logfields.Directory(w.root), logfields.Error(err))
	}
}

func (w *Watcher) watchLoop(ctx context.Context) {
	marker := w.markerPath()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopChan:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			switch event.Name {
			case w.root:
				if event.Has(fsnotify.Create) {
					w.logger.Debug("Output root created", logfields.Directory(w.root))
					w.mu.Lock()
					w.watchRoot()
					w.mu.Unlock()
					// The marker may have been written before the watch was added.
					if _, err := os.Stat(marker); err == nil {
						w.triggerBuild()
					}
				}
			case marker:
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
					w.logger.Debug("Build marker written", logfields.Path(event.Name))
					w.triggerBuild()
				}
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Build watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) triggerBuild() {
	select {
	case w.trigger <- struct{}{}:
	default:
	}
}

// publishLoop debounces triggers and runs one build handler at a time.
func (w *Watcher) publishLoop(ctx context.Context) {
	defer close(w.done)

	var timer *time.Timer
	var fire <-chan time.Time
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
		}
	}

	for {
		select {
		case <-ctx.Done():
			stopTimer()
			return
		case <-w.stopChan:
			stopTimer()
			return
		case <-w.trigger:
			stopTimer()
			timer = time.NewTimer(w.debounce)
			fire = timer.C
		case <-fire:
			fire = nil
			w.logger.Info("Build finished", logfields.Directory(w.root))
			if err := w.onBuild(ctx); err != nil {
				w.logger.Error("Publishing after build failed", logfields.Error(err))
			}
		}
	}
}
