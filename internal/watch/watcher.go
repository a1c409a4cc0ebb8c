// Package watch reports edits to a data repository so the dashboard can
// reload it.
package watch

import (
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a repository must be quiet before a change
// is reported.
const DefaultDebounce = 250 * time.Millisecond

// Change is one coalesced burst of repository edits.
type Change struct {
	Files []string // Absolute paths, sorted
}

// Watcher monitors a repository directory for edits to its manifest and
// catalog database using fsnotify.
type Watcher struct {
	Dir      string
	Changes  <-chan Change // Read-only external channel
	Debounce time.Duration

	changes chan Change
	names   map[string]bool
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// New creates a watcher for dir that reacts to the named files. A database
// file also matches its -wal and -journal siblings.
func New(dir string, files ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	names := make(map[string]bool, len(files))
	for _, f := range files {
		names[filepath.Base(f)] = true
	}

	ch := make(chan Change, 1)
	return &Watcher{
		Dir:      dir,
		Changes:  ch,
		Debounce: DefaultDebounce,
		changes:  ch,
		names:    names,
		done:     make(chan struct{}),
		watcher:  fw,
	}, nil
}

// Start begins watching the directory.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.Dir); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	pending := make(map[string]struct{})
	var last time.Time
	ticker := time.NewTicker(debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event.Name) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending[event.Name] = struct{}{}
				last = time.Now()
			}

		case <-ticker.C:
			if len(pending) == 0 || time.Since(last) < debounce {
				continue
			}
			files := make([]string, 0, len(pending))
			for f := range pending {
				files = append(files, f)
			}
			sort.Strings(files)
			clear(pending)
			w.emit(Change{Files: files})

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal.
		}
	}
}

// emit never blocks: an unread change already means a reload is due.
func (w *Watcher) emit(c Change) {
	select {
	case w.changes <- c:
	default:
	}
}

func (w *Watcher) relevant(name string) bool {
	base := filepath.Base(name)
	if w.names[base] {
		return true
	}
	for _, suffix := range []string{"-wal", "-journal"} {
		if stem, ok := strings.CutSuffix(base, suffix); ok && w.names[stem] {
			return true
		}
	}
	return false
}
