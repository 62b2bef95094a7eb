package command

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/adamavenir/recall/internal/core"
	"github.com/adamavenir/recall/internal/db"
	"github.com/adamavenir/recall/internal/history"
	"github.com/spf13/cobra"
)

// CommandContext provides shared command resources.
type CommandContext struct {
	Config   core.Config
	Paths    core.Paths
	JSONMode bool
	Logger   *slog.Logger
	// DB is set for the sqlite backend only.
	DB    *sql.DB
	KV    history.KV
	Store *history.Store
	// StorePath is the file backing the store, empty for the memory backend.
	StorePath string

	closeLog func() error
}

// GetContext resolves config and opens the history store for a command.
// Settings come from the config file, then RECALL_* variables, then flags.
func GetContext(cmd *cobra.Command) (*CommandContext, error) {
	jsonMode, _ := cmd.Flags().GetBool("json")
	debug, _ := cmd.Flags().GetBool("debug")

	config, paths, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	logger, closeLog := core.NewLogger(paths.DebugLog(), debug || core.DebugEnabled(os.Getenv))
	ctx := &CommandContext{
		Config:   config,
		Paths:    paths,
		JSONMode: jsonMode,
		Logger:   logger,
		closeLog: closeLog,
	}

	switch config.Store {
	case core.StoreSQLite:
		path := config.DBPath
		if path == "" {
			path = paths.DB()
		}
		conn, err := db.OpenDatabase(path)
		if err != nil {
			ctx.Close()
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		if err := db.InitSchema(conn); err != nil {
			_ = conn.Close()
			ctx.Close()
			return nil, err
		}
		ctx.DB = conn
		ctx.KV = db.NewKV(conn)
		ctx.StorePath = path
	case core.StoreFile:
		path := config.FilePath
		if path == "" {
			path = paths.File()
		}
		ctx.KV = db.NewFileKV(path)
		ctx.StorePath = path
	case core.StoreMemory:
		ctx.KV = history.NewMemoryKV()
	default:
		ctx.Close()
		return nil, fmt.Errorf("unknown store %q", config.Store)
	}

	ctx.Store = history.NewStore(ctx.KV,
		history.WithStorageKey(config.StorageKey),
		history.WithLogger(logger),
	)
	logger.Debug("opened store", "backend", config.Store, "path", ctx.StorePath)
	return ctx, nil
}

// loadConfig reads the config file without opening any store.
func loadConfig(cmd *cobra.Command) (core.Config, core.Paths, error) {
	paths, err := core.ResolvePaths("")
	if err != nil {
		return core.Config{}, core.Paths{}, err
	}
	if configPath, _ := cmd.Flags().GetString("config"); configPath != "" {
		paths.ConfigFile = configPath
	}

	config, err := core.ReadConfig(paths.ConfigFile)
	if err != nil {
		return core.Config{}, core.Paths{}, err
	}
	config.ApplyEnv(os.Getenv)

	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		config.Store = core.StoreSQLite
		config.DBPath = dbPath
	}
	if filePath, _ := cmd.Flags().GetString("file"); filePath != "" {
		config.Store = core.StoreFile
		config.FilePath = filePath
	}
	if store, _ := cmd.Flags().GetString("store"); store != "" {
		config.Store = store
	}
	return config, paths, nil
}

// Close releases the database and the debug log.
func (c *CommandContext) Close() {
	if c.DB != nil {
		_ = c.DB.Close()
	}
	if c.closeLog != nil {
		_ = c.closeLog()
	}
}

// LastModified reports when the history was last written, when the backend
// can tell.
func (c *CommandContext) LastModified() (time.Time, bool) {
	if c.DB != nil {
		entries, err := db.GetAllValues(c.DB)
		if err != nil {
			return time.Time{}, false
		}
		for _, entry := range entries {
			if entry.Key == c.Config.StorageKey {
				return time.UnixMilli(entry.UpdatedAt), true
			}
		}
		return time.Time{}, false
	}
	if c.StorePath == "" {
		return time.Time{}, false
	}
	info, err := os.Stat(c.StorePath)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}
