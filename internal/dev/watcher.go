package dev

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Change is one debounced file change.
type Change struct {
	Path string
	Op   fsnotify.Op
}

// WatcherConfig configures a Watcher.
type WatcherConfig struct {
	// Paths are files or directories. A file is watched through its
	// directory so that editors replacing it on save are still seen.
	Paths []string

	// Ignore holds base-name globs to skip.
	Ignore []string

	// Debounce groups bursts of events. Default: 100ms.
	Debounce time.Duration

	Logger *slog.Logger
}

// DefaultIgnore contains editor and VCS noise.
var DefaultIgnore = []string{
	".git",
	"*.swp",
	"*.tmp",
	"*~",
	"4913",
}

// Watcher reports batches of file changes.
type Watcher struct {
	config WatcherConfig
	fs     *fsnotify.Watcher

	// files restricts a watched directory to the named files. A directory
	// watched for itself has no entry.
	files map[string]map[string]bool

	mu       sync.Mutex
	onChange func([]Change)
	pending  map[string]Change
	timer    *time.Timer
}

// NewWatcher starts watching config.Paths.
func NewWatcher(config WatcherConfig) (*Watcher, error) {
	if config.Debounce == 0 {
		config.Debounce = 100 * time.Millisecond
	}
	if config.Ignore == nil {
		config.Ignore = DefaultIgnore
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		config:  config,
		fs:      fsw,
		files:   make(map[string]map[string]bool),
		pending: make(map[string]Change),
	}

	whole := make(map[string]bool)
	for _, p := range config.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		dir := abs
		if !info.IsDir() {
			dir = filepath.Dir(abs)
			if !whole[dir] {
				if w.files[dir] == nil {
					w.files[dir] = make(map[string]bool)
				}
				w.files[dir][filepath.Base(abs)] = true
			}
		} else {
			whole[dir] = true
			delete(w.files, dir)
		}
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// OnChange sets the callback for debounced changes.
func (w *Watcher) OnChange(fn func([]Change)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onChange = fn
}

// Run dispatches events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.config.Logger.Warn("file watcher error", "error", err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	return w.fs.Close()
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Op == fsnotify.Chmod || w.ignored(ev.Name) {
		return
	}
	if only, ok := w.files[filepath.Dir(ev.Name)]; ok && !only[filepath.Base(ev.Name)] {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	prev := w.pending[ev.Name]
	w.pending[ev.Name] = Change{Path: ev.Name, Op: prev.Op | ev.Op}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.config.Debounce, w.flush)
}

func (w *Watcher) ignored(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range w.config.Ignore {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	changes := make([]Change, 0, len(w.pending))
	for _, c := range w.pending {
		changes = append(changes, c)
	}
	w.pending = make(map[string]Change)
	fn := w.onChange
	w.mu.Unlock()

	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	if fn != nil {
		fn(changes)
	}
}
