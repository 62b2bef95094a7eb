package core

import (
	"os"
	"path/filepath"
)

const (
	// ProjectDirName marks a directory whose history is kept apart from the
	// user's global history.
	ProjectDirName = ".recall"
	dbFileName     = "recall.db"
	fileStoreName  = "history.json"
	configFileName = "config.json"
	debugLogName   = "debug.log"
)

// Paths locates recall's files.
type Paths struct {
	// Dir holds the database, file store and debug log.
	Dir string
	// ConfigFile is always the global config file.
	ConfigFile string
}

// DB returns the default sqlite database path.
func (p Paths) DB() string { return filepath.Join(p.Dir, dbFileName) }

// File returns the default JSON file store path.
func (p Paths) File() string { return filepath.Join(p.Dir, fileStoreName) }

// DebugLog returns the debug log path.
func (p Paths) DebugLog() string { return filepath.Join(p.Dir, debugLogName) }

// GlobalDir returns ~/.config/recall.
func GlobalDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "recall"), nil
}

// ResolvePaths walks up from startDir looking for a .recall directory and
// falls back to the global directory.
func ResolvePaths(startDir string) (Paths, error) {
	global, err := GlobalDir()
	if err != nil {
		return Paths{}, err
	}
	paths := Paths{Dir: global, ConfigFile: filepath.Join(global, configFileName)}

	if dir, ok := discoverProjectDir(startDir); ok {
		paths.Dir = dir
	}
	return paths, nil
}

func discoverProjectDir(startDir string) (string, bool) {
	current := startDir
	if current == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", false
		}
		current = cwd
	}
	current, err := filepath.Abs(current)
	if err != nil {
		return "", false
	}

	for {
		dir := filepath.Join(current, ProjectDirName)
		info, err := os.Stat(dir)
		if err == nil && info.IsDir() {
			return dir, true
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}

// InitProjectDir creates a .recall directory in dir.
func InitProjectDir(dir string) (string, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	target := filepath.Join(root, ProjectDirName)
	if err := os.MkdirAll(target, 0o755); err != nil {
		return "", err
	}
	return target, nil
}
