package history_test

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/adamavenir/recall/internal/db"
	"github.com/adamavenir/recall/internal/history"
	"github.com/adamavenir/recall/internal/types"
)

func TestWatcherReportsChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	kv := db.NewFileKV(path)
	store := history.NewStore(kv)
	if err := store.Add("comment", "hello"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	w, err := history.NewWatcher(store, path)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	defer w.Close()

	// A second store over the same file stands in for another process.
	other := history.NewStore(db.NewFileKV(path))
	if err := other.Add("comment", "help"); err != nil {
		t.Fatalf("add: %v", err)
	}

	select {
	case change := <-w.Events():
		if !reflect.DeepEqual(change.Added, types.History{"comment": {"help"}}) {
			t.Fatalf("unexpected added: %v", change.Added)
		}
		if len(change.Removed) != 0 {
			t.Fatalf("unexpected removed: %v", change.Removed)
		}
		if !reflect.DeepEqual(change.Snapshot["comment"], []string{"hello", "help"}) {
			t.Fatalf("unexpected snapshot: %v", change.Snapshot)
		}
	case err := <-w.Errors():
		t.Fatalf("watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for change")
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")
	store := history.NewStore(db.NewFileKV(path))
	w, err := history.NewWatcher(store, path)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	_ = w.Close()
}
