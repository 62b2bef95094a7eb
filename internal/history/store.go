package history

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/adamavenir/recall/internal/types"
)

// DefaultStorageKey is the well-known key the whole history blob lives under.
const DefaultStorageKey = "__AUTOCOMPLETE_SEARCH_KEY"

// Store is the persistent collection of per-field suggestion histories.
//
// Every mutation reads the whole blob, changes one key and rewrites the whole
// blob. The mutex only serializes callers inside this process; two processes
// writing the same backend race and the later write wins.
type Store struct {
	kv         KV
	storageKey string
	logger     *slog.Logger
	mu         sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithStorageKey overrides DefaultStorageKey.
func WithStorageKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.storageKey = key
		}
	}
}

// WithLogger sets the logger used for recoverable read problems.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore creates a store on top of kv.
func NewStore(kv KV, opts ...Option) *Store {
	s := &Store{
		kv:         kv,
		storageKey: DefaultStorageKey,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StorageKey returns the key the blob is persisted under.
func (s *Store) StorageKey() string {
	return s.storageKey
}

// Get returns the values stored for key. Missing or unreadable data yields an
// empty slice.
func (s *Store) Get(key string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	values := s.load()[key]
	return append([]string{}, values...)
}

// Add appends value to key's history unless it is empty or already present.
func (s *Store) Add(key, value string) error {
	if value == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	blob := s.load()
	for _, existing := range blob[key] {
		if existing == value {
			return nil
		}
	}
	blob[key] = append(blob[key], value)
	return s.save(blob)
}

// Remove deletes value from key's history if present.
func (s *Store) Remove(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob := s.load()
	values, ok := blob[key]
	if !ok {
		return nil
	}
	idx := -1
	for i, existing := range values {
		if existing == value {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	updated := make([]string, 0, len(values)-1)
	updated = append(updated, values[:idx]...)
	updated = append(updated, values[idx+1:]...)
	blob[key] = updated
	return s.save(blob)
}

// Rename replaces from with to in key's history. Equal values are left alone
// so the entry keeps its position.
func (s *Store) Rename(key, from, to string) error {
	if from == to {
		return nil
	}
	if err := s.Remove(key, from); err != nil {
		return err
	}
	return s.Add(key, to)
}

// Snapshot returns a copy of the whole history.
func (s *Store) Snapshot() types.History {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Keys returns the field keys with stored history, sorted.
func (s *Store) Keys() []string {
	snapshot := s.Snapshot()
	keys := make([]string, 0, len(snapshot))
	for key := range snapshot {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Reset deletes the whole blob.
func (s *Store) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.kv.Delete(s.storageKey); err != nil {
		return fmt.Errorf("reset history: %w", err)
	}
	return nil
}

// Import merges incoming into the stored history, keeping uniqueness.
func (s *Store) Import(incoming types.History) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blob := s.load()
	added := 0
	for key, values := range incoming {
		seen := make(map[string]struct{}, len(blob[key]))
		for _, existing := range blob[key] {
			seen[existing] = struct{}{}
		}
		for _, value := range values {
			if value == "" {
				continue
			}
			if _, ok := seen[value]; ok {
				continue
			}
			seen[value] = struct{}{}
			blob[key] = append(blob[key], value)
			added++
		}
	}
	if added == 0 {
		return 0, nil
	}
	return added, s.save(blob)
}

// Decode parses a raw blob. Anything unparseable is treated as empty.
func Decode(raw string) (types.History, error) {
	blob := types.History{}
	if raw == "" || raw == "null" {
		return blob, nil
	}
	if err := json.Unmarshal([]byte(raw), &blob); err != nil {
		return types.History{}, err
	}
	if blob == nil {
		blob = types.History{}
	}
	return blob, nil
}

func (s *Store) load() types.History {
	raw, ok, err := s.kv.Get(s.storageKey)
	if err != nil {
		s.logger.Debug("history read failed", "key", s.storageKey, "err", err)
		return types.History{}
	}
	if !ok {
		return types.History{}
	}
	blob, err := Decode(raw)
	if err != nil {
		s.logger.Debug("history blob unreadable", "key", s.storageKey, "err", err)
	}
	return blob
}

func (s *Store) save(blob types.History) error {
	data, err := json.Marshal(blob)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.kv.Set(s.storageKey, string(data)); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return nil
}
