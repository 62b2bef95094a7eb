package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/adamavenir/recall/internal/history"
	"github.com/adamavenir/recall/internal/rank"
	"github.com/adamavenir/recall/internal/types"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreFile   = "file"
	StoreMemory = "memory"
)

// Config is the user configuration, stored as JSON.
type Config struct {
	Version    int      `json:"version"`
	Store      string   `json:"store"`
	DBPath     string   `json:"db_path,omitempty"`
	FilePath   string   `json:"file_path,omitempty"`
	StorageKey string   `json:"storage_key"`
	Limit      int      `json:"limit"`
	Threshold  float64  `json:"threshold"`
	Exclude    []string `json:"exclude"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	return Config{
		Version:    1,
		Store:      StoreSQLite,
		StorageKey: history.DefaultStorageKey,
		Limit:      rank.DefaultLimit,
		Exclude:    []string{},
	}
}

func (c *Config) normalize() {
	defaults := DefaultConfig()
	if c.Version == 0 {
		c.Version = defaults.Version
	}
	if c.Store == "" {
		c.Store = defaults.Store
	}
	if c.StorageKey == "" {
		c.StorageKey = defaults.StorageKey
	}
	if c.Limit <= 0 {
		c.Limit = defaults.Limit
	}
	if c.Exclude == nil {
		c.Exclude = []string{}
	}
}

// ReadConfig reads the config file at path. A missing file yields defaults.
func ReadConfig(path string) (Config, error) {
	config := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, err
	}
	if err := json.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("parse %s: %w", path, err)
	}
	config.normalize()
	return config, nil
}

// WriteConfig writes config to path.
func WriteConfig(path string, config Config) error {
	config.normalize()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// ApplyEnv overrides config fields from RECALL_* environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("RECALL_STORE"); v != "" {
		c.Store = v
	}
	if v := getenv("RECALL_DB"); v != "" {
		c.DBPath = v
	}
	if v := getenv("RECALL_FILE"); v != "" {
		c.FilePath = v
	}
	if v := getenv("RECALL_STORAGE_KEY"); v != "" {
		c.StorageKey = v
	}
}

// ConfigKeys lists the keys accepted by Get and Set.
func ConfigKeys() []string {
	keys := []string{"store", "db_path", "file_path", "storage_key", "limit", "threshold", "exclude"}
	sort.Strings(keys)
	return keys
}

// Get returns a config value as a string.
func (c Config) Get(key string) (string, error) {
	switch key {
	case "store":
		return c.Store, nil
	case "db_path":
		return c.DBPath, nil
	case "file_path":
		return c.FilePath, nil
	case "storage_key":
		return c.StorageKey, nil
	case "limit":
		return strconv.Itoa(c.Limit), nil
	case "threshold":
		return strconv.FormatFloat(c.Threshold, 'f', -1, 64), nil
	case "exclude":
		return strings.Join(c.Exclude, ","), nil
	}
	return "", fmt.Errorf("unknown config key %q", key)
}

// Set parses and assigns a config value.
func (c *Config) Set(key, value string) error {
	switch key {
	case "store":
		switch value {
		case StoreSQLite, StoreFile, StoreMemory:
			c.Store = value
		default:
			return fmt.Errorf("invalid store %q (want %s, %s or %s)", value, StoreSQLite, StoreFile, StoreMemory)
		}
	case "db_path":
		c.DBPath = value
	case "file_path":
		c.FilePath = value
	case "storage_key":
		if value == "" {
			return fmt.Errorf("storage_key cannot be empty")
		}
		c.StorageKey = value
	case "limit":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("limit must be a positive integer")
		}
		c.Limit = n
	case "threshold":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("threshold must be a number")
		}
		c.Threshold = f
	case "exclude":
		c.Exclude = splitList(value)
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

// Entries returns every config value in key order.
func (c Config) Entries() []types.ConfigEntry {
	keys := ConfigKeys()
	entries := make([]types.ConfigEntry, 0, len(keys))
	for _, key := range keys {
		value, _ := c.Get(key)
		entries = append(entries, types.ConfigEntry{Key: key, Value: value})
	}
	return entries
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
