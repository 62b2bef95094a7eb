package db

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/adamavenir/recall/internal/history"
)

func TestSchemaExists(t *testing.T) {
	db := openTestDB(t)
	exists, err := SchemaExists(db)
	if err != nil {
		t.Fatalf("schema exists: %v", err)
	}
	if exists {
		t.Fatal("schema should not exist yet")
	}
	requireSchema(t, db)
	requireSchema(t, db)
	if exists, _ := SchemaExists(db); !exists {
		t.Fatal("schema missing after init")
	}
}

func TestValueRoundTrip(t *testing.T) {
	db := openTestDB(t)
	requireSchema(t, db)

	if _, ok, err := GetValue(db, "missing"); err != nil || ok {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}
	if err := SetValue(db, "k", "one"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := SetValue(db, "k", "two"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	value, ok, err := GetValue(db, "k")
	if err != nil || !ok || value != "two" {
		t.Fatalf("get: %q %v %v", value, ok, err)
	}

	entries, err := GetAllValues(db)
	if err != nil {
		t.Fatalf("all: %v", err)
	}
	if len(entries) != 1 || entries[0].Key != "k" || entries[0].UpdatedAt == 0 {
		t.Fatalf("unexpected entries: %+v", entries)
	}

	if err := DeleteValue(db, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := DeleteValue(db, "k"); err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if _, ok, _ := GetValue(db, "k"); ok {
		t.Fatal("key survived delete")
	}
}

func TestKVBacksHistoryStore(t *testing.T) {
	db := openTestDB(t)
	requireSchema(t, db)
	store := history.NewStore(NewKV(db))

	_ = store.Add("comment", "hello")
	_ = store.Add("comment", "help")
	_ = store.Remove("comment", "hello")

	reopened := history.NewStore(NewKV(db))
	if got := reopened.Get("comment"); !reflect.DeepEqual(got, []string{"help"}) {
		t.Fatalf("unexpected history: %v", got)
	}
	raw, _, _ := GetValue(db, history.DefaultStorageKey)
	if raw != `{"comment":["help"]}` {
		t.Fatalf("unexpected blob: %s", raw)
	}
}

func TestFileKV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.json")
	kv := NewFileKV(path)

	if _, ok, err := kv.Get("k"); err != nil || ok {
		t.Fatalf("missing file: ok=%v err=%v", ok, err)
	}
	if err := kv.Set("k", "v"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if value, ok, _ := NewFileKV(path).Get("k"); !ok || value != "v" {
		t.Fatalf("reopen: %q %v", value, ok)
	}
	if err := kv.Delete("k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := kv.Get("k"); ok {
		t.Fatal("key survived delete")
	}
}

func TestFileKVCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("{oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	kv := NewFileKV(path)
	if _, _, err := kv.Get("k"); err == nil {
		t.Fatal("expected read error for corrupt file")
	}

	store := history.NewStore(kv)
	if got := store.Get("comment"); len(got) != 0 {
		t.Fatalf("corrupt file should read as empty, got %v", got)
	}
	if err := store.Add("comment", "hello"); err != nil {
		t.Fatalf("add over corrupt file: %v", err)
	}
	if got := store.Get("comment"); !reflect.DeepEqual(got, []string{"hello"}) {
		t.Fatalf("unexpected history: %v", got)
	}
}
