// Package watcher triggers rebuilds on filesystem changes for the watch and
// dev commands. Rebuilds stay blocking and sequential; the watcher only
// decides when to fire the next one.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// debounceDelay coalesces editor save bursts into one rebuild.
const debounceDelay = 300 * time.Millisecond

// watchedExtensions are the file types that trigger a rebuild.
var watchedExtensions = []string{".poh", ".json"}

// Watcher observes a project tree and invokes a callback after changes.
type Watcher struct {
	root     string
	onChange func(paths []string)
}

// New creates a watcher over root. onChange receives the batch of paths that
// changed since the last invocation.
func New(root string, onChange func(paths []string)) *Watcher {
	return &Watcher{root: root, onChange: onChange}
}

// Run blocks, dispatching debounced change batches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := addRecursive(fsw, w.root); err != nil {
		return err
	}

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending = map[string]struct{}{}
	)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}

			// New directories must be added to the watch set.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addRecursive(fsw, event.Name)
					continue
				}
			}

			if !relevant(event.Name) {
				continue
			}

			pending[event.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(debounceDelay)
				timerC = timer.C
			} else {
				// A tick may already be buffered if the timer fired while
				// this event was being read; drain it so Reset starts a
				// fresh quiet period instead of delivering early.
				if !timer.Stop() {
					select {
					case <-timerC:
					default:
					}
				}
				timer.Reset(debounceDelay)
			}

		case <-timerC:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			pending = map[string]struct{}{}
			timer = nil
			timerC = nil

			w.onChange(paths)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watch error")
		}
	}
}

// relevant filters events down to source files plhub cares about.
func relevant(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}

	for _, ext := range watchedExtensions {
		if strings.HasSuffix(base, ext) {
			return true
		}
	}

	return false
}

// addRecursive watches root and every non-hidden subdirectory.
func addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		if !d.IsDir() {
			return nil
		}

		name := d.Name()
		if path != root && (strings.HasPrefix(name, ".") || name == "node_modules" || name == "build") {
			return filepath.SkipDir
		}

		return fsw.Add(path)
	})
}
