// SPDX-License-Identifier: MPL-2.0

// Package watch reports deletions below a project directory as host
// notifications.
//
// Only the project root and a few configured subdirectories are watched,
// non-recursively: a component disappears when its top-level directory is
// removed or renamed. Deletions are debounced and a path recreated within
// the debounce window (an editor replacing a directory, a reinstall) is not
// reported.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/aplus-courses/coursekit/internal/host"
)

// defaultDebounce is the quiet period after the last deletion before the
// collected paths are published.
const defaultDebounce = 300 * time.Millisecond

// defaultIgnores lists paths, relative to BaseDir, whose deletion is never
// reported.
var defaultIgnores = []string{
	".*",
	"**/.*",
	"**/*.swp",
	"**/*~",
}

type (
	// Publisher receives the deletion events.
	Publisher interface {
		Publish(e host.Event)
	}

	// Config holds the parameters for a Watcher.
	Config struct {
		// BaseDir is the project directory. Empty means the working directory.
		BaseDir string
		// Subdirs are additional directories, relative to BaseDir, whose
		// entries are watched. They may be created after the watcher starts.
		Subdirs []string
		// Ignore are doublestar patterns, relative to BaseDir, merged with
		// the built-in ignores.
		Ignore []string
		// Debounce falls back to defaultDebounce when zero or negative.
		Debounce  time.Duration
		Publisher Publisher
		Logger    *slog.Logger
	}

	// Watcher publishes host.FilesDeleted events. Run must be called exactly
	// once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		ignores  []string
		debounce time.Duration
		baseDir  string
		subdirs  map[string]struct{}
		logger   *slog.Logger
		started  atomic.Bool
	}
)

// New resolves BaseDir, validates the ignore patterns and registers the
// directories to watch.
func New(cfg Config) (*Watcher, error) {
	if cfg.Publisher == nil {
		return nil, fmt.Errorf("watch: publisher is required")
	}
	if err := validatePatterns(cfg.Ignore); err != nil {
		return nil, err
	}

	baseDir := cfg.BaseDir
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
		baseDir = wd
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve base directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		ignores:  append(slices.Clone(defaultIgnores), cfg.Ignore...),
		debounce: debounce,
		baseDir:  absBase,
		subdirs:  make(map[string]struct{}, len(cfg.Subdirs)),
		logger:   logger,
	}

	if err := fsw.Add(absBase); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch: add %q: %w", absBase, err)
	}
	for _, sub := range cfg.Subdirs {
		path := filepath.Join(absBase, sub)
		w.subdirs[path] = struct{}{}
		w.maybeAddDir(path)
	}
	return w, nil
}

// Run blocks until ctx is cancelled. It returns nil on cancellation and an
// error when the underlying watcher fails irrecoverably.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return fmt.Errorf("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
	)

	fire := func() {
		if ctx.Err() != nil {
			return
		}
		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		deleted := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		w.logger.Info("files deleted", "paths", deleted)
		w.cfg.Publisher.Publish(host.Event{Kind: host.FilesDeleted, Paths: deleted})
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("watch: close fsnotify", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return fmt.Errorf("watch: fsnotify event channel closed unexpectedly")
			}
			if w.isIgnored(evt.Name) {
				continue
			}

			switch {
			case evt.Has(fsnotify.Create):
				w.maybeAddDir(evt.Name)
				mu.Lock()
				delete(pending, evt.Name)
				mu.Unlock()

			case evt.Has(fsnotify.Remove), evt.Has(fsnotify.Rename):
				mu.Lock()
				pending[evt.Name] = struct{}{}
				if timer == nil {
					timer = time.AfterFunc(w.debounce, fire)
				} else {
					timer.Reset(w.debounce)
				}
				mu.Unlock()
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return fmt.Errorf("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("watch: fsnotify error", "error", err)
		}
	}
}

// maybeAddDir watches path when it is one of the configured subdirectories
// and exists as a directory.
func (w *Watcher) maybeAddDir(path string) {
	if _, ok := w.subdirs[path]; !ok {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		w.logger.Warn("watch: add directory", "path", path, "error", err)
	}
}

// isIgnored matches the path relative to BaseDir against the ignore patterns.
func (w *Watcher) isIgnored(path string) bool {
	rel, err := filepath.Rel(w.baseDir, path)
	if err != nil {
		return true
	}
	normalized := filepath.ToSlash(rel)
	for _, pat := range w.ignores {
		if matched, matchErr := doublestar.Match(pat, normalized); matchErr == nil && matched {
			return true
		}
	}
	return false
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}

func validatePatterns(patterns []string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid ignore pattern %q", pat)
		}
	}
	return nil
}
