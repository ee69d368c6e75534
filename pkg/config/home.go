package config

import (
	"os"
	"path/filepath"
	"sync"
)

const envHome = "EXPLORER_HOME"

var (
	homeOnce sync.Once
	homeDir  string
)

// GetHome returns the panel's home directory.
//
// Resolution order:
//  1. $EXPLORER_HOME environment variable
//  2. <user config dir>/explorer
//  3. Current working directory
func GetHome() string {
	homeOnce.Do(func() {
		homeDir = resolveHome()
	})
	return homeDir
}

// GetLogPath returns <home>/logs/explorer.log.
func GetLogPath() string {
	return filepath.Join(GetHome(), "logs", "explorer.log")
}

// GetHistoryDBPath returns <home>/history.db.
func GetHistoryDBPath() string {
	return filepath.Join(GetHome(), "history.db")
}

// GetCodeDir returns <home>/code, where saved generated code lands by default.
func GetCodeDir() string {
	return filepath.Join(GetHome(), "code")
}

func resolveHome() string {
	if env := os.Getenv(envHome); env != "" {
		return env
	}

	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "explorer")
	}

	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}

	return "."
}

// ResetHome resets the cached home directory (for testing).
func ResetHome() {
	homeOnce = sync.Once{}
	homeDir = ""
}
