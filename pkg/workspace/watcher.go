package workspace

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period before a changed file is reported.
const DefaultDebounce = 200 * time.Millisecond

// WatchOptions configures a Watcher.
type WatchOptions struct {
	// Config selects which files are reported.
	Config Config
	// Debounce groups rapid writes to one file into a single change.
	Debounce time.Duration
	// OnChange is called after a selected file is created or written and
	// has been quiet for Debounce.
	OnChange func(path string)
	// OnRemove is called when a selected file is removed or renamed away.
	OnRemove func(path string)
}

// Watcher reports changes to component sources under a root directory.
//
// Directories are registered recursively, including ones created after
// Start. Callbacks run on timer or event goroutines.
//
// Usage:
//
//	w, err := NewWatcher(WatchOptions{Config: DefaultConfig(), OnChange: recompile}, logger)
//	if err != nil {
//	    return err
//	}
//	if err := w.Start("components"); err != nil {
//	    return err
//	}
//	defer w.Stop()
type Watcher struct {
	watcher *fsnotify.Watcher
	logger  *slog.Logger
	options WatchOptions
	root    string

	debounceTimers map[string]*time.Timer
	debounceMu     sync.Mutex

	stopChan chan struct{}
	stopped  bool
	started  bool
	mu       sync.Mutex
}

// NewWatcher creates a watcher. Call Start to begin watching.
func NewWatcher(options WatchOptions, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := options.Config.Validate(); err != nil {
		return nil, err
	}
	if options.Debounce <= 0 {
		options.Debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	return &Watcher{
		watcher:        watcher,
		logger:         logger,
		options:        options,
		debounceTimers: make(map[string]*time.Timer),
		stopChan:       make(chan struct{}),
	}, nil
}

// Start begins watching rootPath and every directory below it.
func (w *Watcher) Start(rootPath string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return fmt.Errorf("watcher already stopped")
	}
	if w.started {
		return fmt.Errorf("watcher already started")
	}

	root, err := filepath.Abs(rootPath)
	if err != nil {
		return fmt.Errorf("failed to resolve root path: %w", err)
	}
	w.root = root

	if err := w.addTree(root); err != nil {
		return err
	}

	w.started = true
	w.logger.Info("file watcher started", "root", root)

	go w.eventLoop()
	return nil
}

// addTree registers dir and its subdirectories, skipping excluded ones.
func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("failed to watch %s: %w", dir, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != w.root && w.ignoredDir(path) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			if path == dir {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		}
		return nil
	})
}

func (w *Watcher) ignoredDir(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	return w.options.Config.excluded(filepath.ToSlash(rel))
}

// Stop stops the watcher and cancels pending notifications. Safe to call
// multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}

	w.stopped = true
	close(w.stopChan)

	w.debounceMu.Lock()
	for _, timer := range w.debounceTimers {
		timer.Stop()
	}
	w.debounceTimers = make(map[string]*time.Timer)
	w.debounceMu.Unlock()

	err := w.watcher.Close()
	w.logger.Info("file watcher stopped")
	return err
}

func (w *Watcher) eventLoop() {
	for {
		select {
		case <-w.stopChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("file watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !w.ignoredDir(path) {
				if err := w.addTree(path); err != nil {
					w.logger.Warn("failed to watch new directory", "path", path, "error", err)
				}
				w.reportExisting(path)
			}
			return
		}
	}

	if !w.options.Config.Matches(w.root, path) {
		return
	}

	w.logger.Debug("file event", "op", event.Op.String(), "file", path)

	switch {
	case event.Op.Has(fsnotify.Write), event.Op.Has(fsnotify.Create):
		w.debounceChange(path)
	case event.Op.Has(fsnotify.Remove), event.Op.Has(fsnotify.Rename):
		w.remove(path)
	}
}

// reportExisting schedules changes for files already inside a directory
// created after Start, since their create events may precede the watch.
func (w *Watcher) reportExisting(dir string) {
	files, err := DiscoverFiles(dir, Config{Include: []string{"**"}})
	if err != nil {
		return
	}
	for _, f := range files {
		if w.options.Config.Matches(w.root, f) {
			w.debounceChange(f)
		}
	}
}

// debounceChange schedules OnChange after the debounce delay, replacing a
// pending notification for the same file.
func (w *Watcher) debounceChange(path string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, exists := w.debounceTimers[path]; exists {
		timer.Stop()
	}

	w.debounceTimers[path] = time.AfterFunc(w.options.Debounce, func() {
		w.debounceMu.Lock()
		delete(w.debounceTimers, path)
		w.debounceMu.Unlock()

		if w.options.OnChange != nil {
			w.options.OnChange(path)
		}
	})
}

func (w *Watcher) remove(path string) {
	w.debounceMu.Lock()
	if timer, exists := w.debounceTimers[path]; exists {
		timer.Stop()
		delete(w.debounceTimers, path)
	}
	w.debounceMu.Unlock()

	if w.options.OnRemove != nil {
		w.options.OnRemove(path)
	}
}

// GetStats returns file watcher statistics.
func (w *Watcher) GetStats() WatcherStats {
	w.debounceMu.Lock()
	pending := len(w.debounceTimers)
	w.debounceMu.Unlock()

	w.mu.Lock()
	running := w.started && !w.stopped
	w.mu.Unlock()

	return WatcherStats{
		PendingChanges: pending,
		IsRunning:      running,
	}
}

// WatcherStats contains file watcher statistics.
type WatcherStats struct {
	PendingChanges int
	IsRunning      bool
}
