// Package watcher provides debounced file system watching for the registrar data files.
package watcher

import (
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zjrosen/registrar/internal/log"
)

// Watcher monitors a set of files in one directory and sends a notification
// after writes to them settle.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	dir       string
	files     []string
	debounce  time.Duration
	ownWrites func() time.Time
	ownWindow time.Duration
	onChange  chan struct{}
	done      chan struct{}
}

// Config holds watcher configuration options.
type Config struct {
	// Dir is the directory to watch.
	Dir string
	// Files are the base names that trigger a notification.
	Files       []string
	DebounceDur time.Duration
	// OwnWrites reports when this process last wrote the watched files.
	// Events within OwnWriteWindow of that time are ignored. May be nil.
	OwnWrites      func() time.Time
	OwnWriteWindow time.Duration
}

// DefaultOwnWriteWindow covers the events a single store write produces.
const DefaultOwnWriteWindow = 250 * time.Millisecond

// DefaultConfig watches files in dir with a half-second debounce.
func DefaultConfig(dir string, files ...string) Config {
	return Config{
		Dir:         dir,
		Files:          files,
		DebounceDur:    500 * time.Millisecond,
		OwnWriteWindow: DefaultOwnWriteWindow,
	}
}

// New creates a new watcher.
func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		fsWatcher: fsw,
		dir:       cfg.Dir,
		files:     slices.Clone(cfg.Files),
		debounce:  cfg.DebounceDur,
		ownWrites: cfg.OwnWrites,
		ownWindow: cfg.OwnWriteWindow,
		onChange:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching the directory.
// Returns a channel that receives a signal when a watched file changes.
func (w *Watcher) Start() (<-chan struct{}, error) {
	if err := w.fsWatcher.Add(w.dir); err != nil {
		return nil, fmt.Errorf("watching directory %s: %w", w.dir, err)
	}

	go w.loop()

	log.Debug(log.CatWatcher, "Watching data files", "dir", w.dir, "files", len(w.files))
	return w.onChange, nil
}

// Stop terminates the watcher and releases resources.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.fsWatcher.Close()
}

// loop processes file system events with debouncing.
func (w *Watcher) loop() {
	var (
		timer   *time.Timer
		pending bool
	)

	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			if !w.isRelevantEvent(event) {
				continue
			}
			if w.isOwnWrite() {
				log.Debug(log.CatWatcher, "Ignoring own write", "file", filepath.Base(event.Name))
				continue
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			pending = true

		case <-func() <-chan time.Time {
			if timer != nil {
				return timer.C
			}
			return nil
		}():
			if pending {
				// Non-blocking send; a signal already queued covers this one
				select {
				case w.onChange <- struct{}{}:
				default:
				}
				pending = false
				log.Debug(log.CatWatcher, "Data files changed")
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Warn(log.CatWatcher, "Watch error", "error", err)

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// isRelevantEvent reports whether the event is a write or create of a
// watched file. Atomic replacement shows up as a create of the final name.
func (w *Watcher) isRelevantEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	return slices.Contains(w.files, filepath.Base(event.Name))
}

func (w *Watcher) isOwnWrite() bool {
	if w.ownWrites == nil {
		return false
	}
	last := w.ownWrites()
	return !last.IsZero() && time.Since(last) < w.ownWindow
}
