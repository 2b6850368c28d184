// SPDX-License-Identifier: MPL-2.0

// Package watch reports package files that change under a directory.
//
// Events are debounced: a burst of writes, such as an editor saving through
// a temporary file, produces one callback listing every changed file.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 300 * time.Millisecond

var (
	// DefaultPatterns select package documents.
	DefaultPatterns = []string{
		"**/*.pkg.txt",
		"**/*.pkg.cue",
		"**/*.pkg.json",
		"**/*.pkg.yaml",
		"**/*.pkg.yml",
	}

	defaultIgnores = []string{
		".git/**",
		"**/.git/**",
		"**/*.swp",
		"**/*~",
		"**/.DS_Store",
	}

	// ErrAlreadyRunning is returned by a second call to Run.
	ErrAlreadyRunning = errors.New("watcher is already running")
)

type (
	// Config holds the parameters of a Watcher.
	Config struct {
		// Dir is watched recursively. Empty means the working directory.
		Dir string
		// Patterns are doublestar globs relative to Dir that select the
		// files reported. Empty means DefaultPatterns.
		Patterns []string
		// Ignore is added to the built-in ignore patterns.
		Ignore []string
		// Debounce is the quiet period after the last event before OnChange
		// runs. Zero or negative means 300ms.
		Debounce time.Duration
		// OnChange receives the absolute paths of the changed files, sorted.
		// It runs on the Run goroutine, so events arriving meanwhile are
		// reported in the next call.
		OnChange func(ctx context.Context, changed []string) error
		Logger   *log.Logger
	}

	// Watcher monitors a directory tree. Run must be called once.
	Watcher struct {
		dir      string
		patterns []string
		ignores  []string
		debounce time.Duration
		onChange func(ctx context.Context, changed []string) error
		logger   *log.Logger
		fsw      *fsnotify.Watcher
		started  atomic.Bool
	}
)

// New validates cfg and registers every directory under cfg.Dir that is
// not ignored.
func New(cfg Config) (*Watcher, error) {
	dir := cfg.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
		dir = wd
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve directory: %w", err)
	}

	w := &Watcher{
		dir:      dir,
		patterns: cfg.Patterns,
		ignores:  append(slices.Clone(defaultIgnores), cfg.Ignore...),
		debounce: cfg.Debounce,
		onChange: cfg.OnChange,
		logger:   cfg.Logger,
	}
	if len(w.patterns) == 0 {
		w.patterns = DefaultPatterns
	}
	if w.debounce <= 0 {
		w.debounce = defaultDebounce
	}
	if w.logger == nil {
		w.logger = log.New(io.Discard)
	}
	if err := validatePatterns(w.patterns); err != nil {
		return nil, err
	}
	if err := validatePatterns(cfg.Ignore); err != nil {
		return nil, err
	}

	if w.fsw, err = fsnotify.NewWatcher(); err != nil {
		return nil, fmt.Errorf("watch: create watcher: %w", err)
	}
	if err := w.addTree(dir); err != nil {
		_ = w.fsw.Close()
		return nil, err
	}
	return w, nil
}

// Dir returns the absolute path of the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Run processes events until ctx is cancelled, which is a clean stop and
// returns nil. It returns an error when the watcher breaks, for example
// when the inotify watch limit is reached.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer func() {
		if err := w.fsw.Close(); err != nil {
			w.logger.Warn("closing watcher", "err", err)
		}
	}()

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed")
			}
			if evt.Has(fsnotify.Create) {
				w.addNewDir(evt.Name)
			}
			if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) {
				continue
			}
			if !w.Matches(evt.Name) {
				continue
			}
			w.logger.Debug("file changed", "path", evt.Name, "op", evt.Op.String())
			pending[evt.Name] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed")
			}
			if isFatal(err) {
				return fmt.Errorf("watch: %w", err)
			}
			w.logger.Warn("watch error", "err", err)

		case <-timer.C:
			if len(pending) == 0 || w.onChange == nil {
				continue
			}
			changed := slices.Sorted(maps.Keys(pending))
			clear(pending)
			if err := w.onChange(ctx, changed); err != nil {
				w.logger.Error("change handler failed", "err", err)
			}
		}
	}
}

// Matches reports whether path, absolute or relative to the watched
// directory, is selected by the patterns and not ignored.
func (w *Watcher) Matches(path string) bool {
	rel := path
	if filepath.IsAbs(path) {
		r, err := filepath.Rel(w.dir, path)
		if err != nil {
			return false
		}
		rel = r
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return false
	}
	return matchAny(w.patterns, rel) && !matchAny(w.ignores, rel)
}

// Files returns the absolute paths of the files currently under the
// watched directory that Matches selects, sorted.
func (w *Watcher) Files() ([]string, error) {
	var out []string
	err := filepath.WalkDir(w.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != w.dir && w.ignoredDir(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if w.Matches(path) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("watch: list files: %w", err)
	}
	return out, nil
}

// addTree registers dir and every directory below it that is not ignored.
// Unreadable directories are skipped with a warning.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("not watching inaccessible path", "path", path, "err", err)
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.dir && w.ignoredDir(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watch: add %s: %w", path, err)
		}
		return nil
	})
}

// addNewDir extends the watch to a directory created after New.
func (w *Watcher) addNewDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if w.ignoredDir(path) {
		return
	}
	if err := w.addTree(path); err != nil {
		w.logger.Warn("not watching new directory", "path", path, "err", err)
	}
}

func (w *Watcher) ignoredDir(path string) bool {
	rel, err := filepath.Rel(w.dir, path)
	if err != nil {
		return true
	}
	rel = filepath.ToSlash(rel)
	return matchAny(w.ignores, rel) || matchAny(w.ignores, rel+"/")
}

func matchAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func validatePatterns(patterns []string) error {
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			return fmt.Errorf("watch: invalid pattern %q", pat)
		}
	}
	return nil
}
