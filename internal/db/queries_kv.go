package db

import (
	"database/sql"
	"time"
)

// KVEntry is one stored key/value pair.
type KVEntry struct {
	Key       string `json:"key"`
	Value     string `json:"value"`
	UpdatedAt int64  `json:"updated_at"`
}

// GetValue returns the value for key and whether it exists.
func GetValue(db DBTX, key string) (string, bool, error) {
	row := db.QueryRow("SELECT value FROM recall_kv WHERE key = ?", key)
	var value string
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

// SetValue upserts a value.
func SetValue(db DBTX, key, value string) error {
	_, err := db.Exec(`
		INSERT INTO recall_kv (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
		  value = excluded.value,
		  updated_at = excluded.updated_at
	`, key, value, time.Now().UnixMilli())
	return err
}

// DeleteValue removes a key. Missing keys are not an error.
func DeleteValue(db DBTX, key string) error {
	_, err := db.Exec("DELETE FROM recall_kv WHERE key = ?", key)
	return err
}

// GetAllValues returns every stored entry ordered by key.
func GetAllValues(db DBTX) ([]KVEntry, error) {
	rows, err := db.Query("SELECT key, value, updated_at FROM recall_kv ORDER BY key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []KVEntry
	for rows.Next() {
		var entry KVEntry
		if err := rows.Scan(&entry.Key, &entry.Value, &entry.UpdatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// KV exposes the recall_kv table through the history store's KV interface.
type KV struct {
	db *sql.DB
}

// NewKV wraps an open database whose schema has been initialized.
func NewKV(db *sql.DB) *KV {
	return &KV{db: db}
}

func (k *KV) Get(key string) (string, bool, error) {
	return GetValue(k.db, key)
}

func (k *KV) Set(key, value string) error {
	return SetValue(k.db, key, value)
}

func (k *KV) Delete(key string) error {
	return DeleteValue(k.db, key)
}
