// SPDX-License-Identifier: MPL-2.0

// Package watch reports changes to settings files.
//
// A Watcher registers the parent directory of every target with fsnotify so
// that editors which save through a temporary file and rename are still seen.
// Events are filtered down to the targets and coalesced over a debounce
// window, after which the OnChange callback fires once with every changed
// file.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// defaultDebounce is the quiet period after the last event before OnChange
// fires.
const defaultDebounce = 300 * time.Millisecond

// defaultIgnores are editor and OS artifacts that never trigger a reload even
// when a target pattern would match them.
var defaultIgnores = []string{
	"*.swp",
	"*.swo",
	"*.swx",
	"*~",
	".#*",
	"#*#",
	".DS_Store",
}

// ErrInvalidWatchConfig is the sentinel error wrapped by InvalidWatchConfigError.
var ErrInvalidWatchConfig = errors.New("invalid watch config")

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Files are the settings files to watch. An entry may carry glob
		// meta characters in its final element (for example
		// "/etc/color-scheme/*.toml"); the directory part must be literal.
		Files []string

		// Ignore are extra doublestar patterns matched against the base name
		// of a changed file. They are merged with the built-in ignores.
		Ignore []string

		// Debounce is the quiet period after the last event before the
		// callback fires. Zero or negative values fall back to defaultDebounce.
		Debounce time.Duration

		// OnChange receives the sorted absolute paths that changed during the
		// debounce window. A nil callback is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		// Logger receives diagnostics. nil means slog.Default().
		Logger *slog.Logger
	}

	// InvalidWatchConfigError is returned when Config has invalid fields.
	// It wraps ErrInvalidWatchConfig for errors.Is() compatibility.
	InvalidWatchConfigError struct {
		FieldErrors []error
	}

	// Watcher monitors settings files and fires a debounced callback when
	// they change. Run must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		targets  []target
		ignores  []string
		logger   *slog.Logger
		debounce time.Duration
		started  atomic.Bool
	}

	// target is one watched entry split into its directory and the pattern
	// matched against file names inside it.
	target struct {
		dir     string
		pattern string
	}
)

// Error implements the error interface for InvalidWatchConfigError.
func (e *InvalidWatchConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return fmt.Sprintf("invalid watch config: %v", e.FieldErrors[0])
	}
	return fmt.Sprintf("invalid watch config: %d field errors", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidWatchConfig for errors.Is() compatibility.
func (e *InvalidWatchConfigError) Unwrap() error { return ErrInvalidWatchConfig }

// Validate reports empty file entries, globs in directory parts, and
// malformed patterns.
func (c Config) Validate() error {
	var errs []error
	if len(c.Files) == 0 {
		errs = append(errs, errors.New("at least one file is required"))
	}
	for _, f := range c.Files {
		if strings.TrimSpace(f) == "" {
			errs = append(errs, fmt.Errorf("file %q must not be empty", f))
			continue
		}
		slashed := filepath.ToSlash(filepath.Clean(f))
		if !doublestar.ValidatePattern(slashed) {
			errs = append(errs, fmt.Errorf("file pattern %q is malformed", f))
			continue
		}
		if _, pattern := doublestar.SplitPattern(slashed); strings.Contains(pattern, "/") {
			errs = append(errs, fmt.Errorf("file pattern %q may only use globs in its last element", f))
		}
	}
	for _, pat := range c.Ignore {
		if pat == "" || !doublestar.ValidatePattern(pat) {
			errs = append(errs, fmt.Errorf("ignore pattern %q is malformed", pat))
		}
	}
	if len(errs) > 0 {
		return &InvalidWatchConfigError{FieldErrors: errs}
	}
	return nil
}

// New creates a Watcher from cfg and registers the directory of every
// target. Targets whose directory does not exist yet are skipped with a
// debug log; New fails only when no directory can be watched at all.
func New(cfg Config) (*Watcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	targets, err := splitTargets(cfg.Files)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	ignores := make([]string, 0, len(defaultIgnores)+len(cfg.Ignore))
	ignores = append(ignores, defaultIgnores...)
	ignores = append(ignores, cfg.Ignore...)

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		targets:  targets,
		ignores:  ignores,
		logger:   logger,
		debounce: debounce,
	}

	if err := w.addDirectories(); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			logger.Warn("watch: close after init failure", "error", closeErr)
		}
		return nil, err
	}

	return w, nil
}

// Dirs returns the directories registered with fsnotify.
func (w *Watcher) Dirs() []string {
	dirs := w.fsw.WatchList()
	slices.Sort(dirs)
	return dirs
}

// Run blocks until ctx is cancelled, dispatching debounced callbacks. It
// returns nil on cancellation and propagates fatal watcher errors. A second
// call returns an error immediately.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return errors.New("watch: Run called more than once")
	}

	var (
		mu      sync.Mutex
		pending = make(map[string]struct{})
		timer   *time.Timer
		running atomic.Bool
	)

	// fire may run after ctx is cancelled because time.AfterFunc schedules
	// it; ctx.Err() is checked first. A callback still in progress causes
	// the timer to be re-armed instead of running concurrently.
	fire := func() {
		if ctx.Err() != nil {
			return
		}
		if !running.CompareAndSwap(false, true) {
			w.logger.Debug("watch: reload still in progress, deferring")
			mu.Lock()
			if timer != nil {
				timer.Reset(w.debounce)
			}
			mu.Unlock()
			return
		}
		defer running.Store(false)

		mu.Lock()
		if len(pending) == 0 {
			mu.Unlock()
			return
		}
		changed := slices.Sorted(maps.Keys(pending))
		clear(pending)
		mu.Unlock()

		if w.cfg.OnChange != nil {
			if err := w.cfg.OnChange(ctx, changed); err != nil {
				w.logger.Warn("watch: callback failed", "error", err)
			}
		}
	}

	defer func() {
		mu.Lock()
		if timer != nil {
			timer.Stop()
		}
		mu.Unlock()
		if closeErr := w.fsw.Close(); closeErr != nil {
			w.logger.Warn("watch: close fsnotify", "error", closeErr)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			if evt.Has(fsnotify.Chmod) && !evt.Has(fsnotify.Write) {
				continue
			}
			path := filepath.Clean(evt.Name)
			if !w.matches(path) {
				continue
			}
			w.logger.Debug("watch: settings file changed", "path", path, "op", evt.Op.String())

			mu.Lock()
			pending[path] = struct{}{}
			if timer == nil {
				timer = time.AfterFunc(w.debounce, fire)
			} else {
				timer.Reset(w.debounce)
			}
			mu.Unlock()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.logger.Warn("watch: fsnotify error", "error", err)
		}
	}
}

// addDirectories registers every distinct target directory that exists.
func (w *Watcher) addDirectories() error {
	seen := make(map[string]struct{}, len(w.targets))
	for _, t := range w.targets {
		if _, dup := seen[t.dir]; dup {
			continue
		}
		seen[t.dir] = struct{}{}

		info, err := os.Stat(t.dir)
		if err != nil || !info.IsDir() {
			w.logger.Debug("watch: settings directory missing, not watched", "dir", t.dir)
			continue
		}
		if err := w.fsw.Add(t.dir); err != nil {
			return fmt.Errorf("watch: add directory %q: %w", t.dir, err)
		}
	}
	if len(w.fsw.WatchList()) == 0 {
		return errors.New("watch: none of the settings directories exist")
	}
	return nil
}

// matches reports whether path is a target and not an ignored artifact.
func (w *Watcher) matches(path string) bool {
	dir, name := filepath.Split(path)
	dir = filepath.Clean(dir)
	if w.isIgnored(name) {
		return false
	}
	for _, t := range w.targets {
		if t.dir != dir {
			continue
		}
		if matched, err := doublestar.Match(t.pattern, name); err == nil && matched {
			return true
		}
	}
	return false
}

func (w *Watcher) isIgnored(name string) bool {
	for _, pat := range w.ignores {
		if matched, err := doublestar.Match(pat, name); err == nil && matched {
			return true
		}
	}
	return false
}

// splitTargets resolves every entry to an absolute directory and a file
// name pattern.
func splitTargets(files []string) ([]target, error) {
	targets := make([]target, 0, len(files))
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("watch: resolve %q: %w", f, err)
		}
		base, pattern := doublestar.SplitPattern(filepath.ToSlash(abs))
		targets = append(targets, target{
			dir:     filepath.Clean(filepath.FromSlash(base)),
			pattern: pattern,
		})
	}
	return targets, nil
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	return slices.Clone(defaultIgnores)
}

// isFatalFsnotifyError reports errors after which the watcher would miss
// changes without noticing, so Run stops instead of logging them.
func isFatalFsnotifyError(err error) bool {
	return slices.ContainsFunc(fatalErrnos, func(errno syscall.Errno) bool {
		return errors.Is(err, errno)
	})
}
