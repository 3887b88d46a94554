// Package services holds the background helpers used by the dashboard.
package services

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FeatureWatchDebounce is the debounce window for watcher events.
const FeatureWatchDebounce = 600 * time.Millisecond

// FeatureWatchService watches a local features directory and signals when
// any .feature file (or directory) below it changes.
type FeatureWatchService struct {
	Started     bool
	Waiting     bool
	Root        string
	Events      chan struct{}
	Done        chan struct{}
	Paths       map[string]struct{}
	Mu          sync.Mutex
	Watcher     *fsnotify.Watcher
	LastRefresh time.Time
	logf        func(string, ...any)
	running     sync.WaitGroup
}

// NewFeatureWatchService creates a new FeatureWatchService.
func NewFeatureWatchService(logf func(string, ...any)) *FeatureWatchService {
	return &FeatureWatchService{logf: logf}
}

// Start watches root recursively and starts the background goroutine.
// It reports false when root is empty, missing or already watched.
func (w *FeatureWatchService) Start(root string) (bool, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return false, nil
	}
	if w.Started && w.Root == root {
		return false, nil
	}
	if w.Started {
		w.Stop()
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		w.debugf("auto refresh: %s is not a local directory", root)
		return false, nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return false, err
	}

	w.Mu.Lock()
	w.Started = true
	w.Waiting = false
	w.Watcher = watcher
	w.Root = root
	w.Events = make(chan struct{}, 1)
	w.Done = make(chan struct{})
	w.Paths = make(map[string]struct{})
	w.Mu.Unlock()
	w.addWatchTree(root)

	w.running.Add(1)
	go func(done <-chan struct{}, events chan<- struct{}) {
		defer w.running.Done()
		w.run(watcher, done, events, root)
	}(w.Done, w.Events)
	return true, nil
}

// Stop stops the watcher and closes its channels. A receiver blocked on the
// Events channel returned by NextEvent is released.
func (w *FeatureWatchService) Stop() {
	if !w.Started {
		return
	}
	close(w.Done)
	w.Started = false
	if w.Watcher != nil {
		_ = w.Watcher.Close()
	}
	w.running.Wait()
	close(w.Events)
	w.Events = nil
	w.Waiting = false
}

// NextEvent returns the event channel if waiting is not already active.
func (w *FeatureWatchService) NextEvent() <-chan struct{} {
	if w.Events == nil || w.Waiting {
		return nil
	}
	w.Waiting = true
	return w.Events
}

// ResetWaiting clears the waiting flag after an event is processed.
func (w *FeatureWatchService) ResetWaiting() {
	w.Waiting = false
}

// ShouldRefresh checks debounce timing for watcher events.
func (w *FeatureWatchService) ShouldRefresh(now time.Time) bool {
	if !w.LastRefresh.IsZero() && now.Sub(w.LastRefresh) < FeatureWatchDebounce {
		return false
	}
	w.LastRefresh = now
	return true
}

// Signal notifies listeners of watcher activity.
func (w *FeatureWatchService) Signal() {
	if !w.Started {
		return
	}
	signal(w.Done, w.Events)
}

func signal(done <-chan struct{}, events chan<- struct{}) {
	select {
	case <-done:
		return
	default:
	}
	select {
	case events <- struct{}{}:
	default:
	}
}

// IsUnderRoot reports whether the path is the watch root or below it.
func (w *FeatureWatchService) IsUnderRoot(path string) bool {
	return underRoot(w.Root, path)
}

func underRoot(root, path string) bool {
	if path == "" || root == "" {
		return false
	}
	return path == root || strings.HasPrefix(path, root+string(filepath.Separator))
}

// Relevant reports whether an event on path can change the feature tree.
func Relevant(path string) bool {
	if strings.HasSuffix(path, ".feature") {
		return true
	}
	info, err := os.Stat(path)
	if err != nil {
		// Removed paths cannot be inspected; a removed directory matters.
		return filepath.Ext(path) == ""
	}
	return info.IsDir()
}

func (w *FeatureWatchService) run(watcher *fsnotify.Watcher, done <-chan struct{}, events chan<- struct{}, root string) {
	for {
		select {
		case <-done:
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				w.maybeWatchNewDir(watcher, root, event.Name)
			}
			if !Relevant(event.Name) {
				continue
			}
			signal(done, events)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.debugf("feature watcher error: %v", err)
		}
	}
}

func (w *FeatureWatchService) maybeWatchNewDir(watcher *fsnotify.Watcher, root, path string) {
	if !underRoot(root, path) {
		return
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	w.addWatchDir(watcher, path)
}

func (w *FeatureWatchService) addWatchDir(watcher *fsnotify.Watcher, path string) {
	if path == "" {
		return
	}

	w.Mu.Lock()
	defer w.Mu.Unlock()

	if watcher != w.Watcher {
		return
	}
	if _, ok := w.Paths[path]; ok {
		return
	}
	if err := watcher.Add(path); err != nil {
		w.debugf("feature watcher add failed for %s: %v", path, err)
		return
	}
	w.Paths[path] = struct{}{}
}

func (w *FeatureWatchService) addWatchTree(root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		w.addWatchDir(w.Watcher, path)
		return nil
	})
}

func (w *FeatureWatchService) debugf(format string, args ...any) {
	if w.logf == nil {
		return
	}
	w.logf(format, args...)
}
