package core

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// NewLogger returns a debug logger writing to path when enabled, and a
// discarding logger otherwise. The returned closer releases the file.
func NewLogger(path string, enabled bool) (*slog.Logger, func() error) {
	if !enabled {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() error { return nil }
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})), func() error { return nil }
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})), func() error { return nil }
	}
	handler := slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler), f.Close
}

// DebugEnabled reports whether RECALL_DEBUG asks for debug logging.
func DebugEnabled(getenv func(string) string) bool {
	switch getenv("RECALL_DEBUG") {
	case "1", "true", "yes":
		return true
	}
	return false
}
