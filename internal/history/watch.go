package history

import (
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/adamavenir/recall/internal/types"
	"github.com/fsnotify/fsnotify"
)

// Change is emitted when the persisted history differs from the last one seen.
type Change struct {
	Snapshot  types.History
	Added     types.History
	Removed   types.History
	Timestamp time.Time
}

// Watcher monitors the file backing a store and emits changes to its history.
type Watcher struct {
	store     *Store
	path      string
	fsWatcher *fsnotify.Watcher
	events    chan Change
	errors    chan error
	done      chan struct{}
	debounce  time.Duration

	mu       sync.Mutex
	last     types.History
	timer    *time.Timer
	closeOne sync.Once
}

// NewWatcher watches path (a sqlite database or JSON file) and reports history
// changes read through store.
func NewWatcher(store *Store, path string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch the directory: sqlite writes land in -wal/-journal siblings and
	// the file store replaces its file on every save.
	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		_ = fsWatcher.Close()
		return nil, err
	}

	w := &Watcher{
		store:     store,
		path:      path,
		fsWatcher: fsWatcher,
		events:    make(chan Change, 16),
		errors:    make(chan error, 4),
		done:      make(chan struct{}),
		debounce:  150 * time.Millisecond,
		last:      store.Snapshot(),
	}

	go w.run()

	return w, nil
}

// Events returns the channel of history changes.
func (w *Watcher) Events() <-chan Change {
	return w.events
}

// Errors returns the channel of watcher errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	var err error
	w.closeOne.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()
	})
	return err
}

func (w *Watcher) run() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			select {
			case w.errors <- err:
			default:
			}
		}
	}
}

func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
		return
	}
	if !strings.HasPrefix(filepath.Base(event.Name), filepath.Base(w.path)) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.check)
}

func (w *Watcher) check() {
	current := w.store.Snapshot()

	w.mu.Lock()
	previous := w.last
	if reflect.DeepEqual(normalize(previous), normalize(current)) {
		w.mu.Unlock()
		return
	}
	w.last = current
	w.mu.Unlock()

	change := Change{
		Snapshot:  current,
		Added:     diff(current, previous),
		Removed:   diff(previous, current),
		Timestamp: time.Now(),
	}
	select {
	case <-w.done:
	case w.events <- change:
	}
}

// diff returns the values present in a but not in b, per key.
func diff(a, b types.History) types.History {
	out := types.History{}
	for key, values := range a {
		seen := make(map[string]struct{}, len(b[key]))
		for _, value := range b[key] {
			seen[value] = struct{}{}
		}
		for _, value := range values {
			if _, ok := seen[value]; !ok {
				out[key] = append(out[key], value)
			}
		}
	}
	return out
}

// normalize drops empty keys so {"a": []} and {} compare equal.
func normalize(h types.History) types.History {
	out := types.History{}
	for key, values := range h {
		if len(values) > 0 {
			out[key] = values
		}
	}
	return out
}
