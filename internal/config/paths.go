package config

import (
	"os"
	"path/filepath"
)

// AppName is used for the config directory and environment prefix.
const AppName = "clf"

// GetCLFDir returns the directory holding settings, history and logs.
// It honours XDG_CONFIG_HOME (via os.UserConfigDir) and falls back to ~/.clf.
func GetCLFDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "." + AppName
	}
	return filepath.Join(home, "."+AppName)
}

// GetRuntimeDir returns the directory for lock files.
func GetRuntimeDir() string {
	return filepath.Join(GetCLFDir(), "run")
}

// GetLogsDir returns the directory for debug logs.
func GetLogsDir() string {
	return filepath.Join(GetCLFDir(), "logs")
}

// GetHistoryPath returns the path of the completion history database.
func GetHistoryPath() string {
	return filepath.Join(GetCLFDir(), "history.db")
}

// EnsureDirs creates the application directories.
func EnsureDirs() error {
	for _, dir := range []string{GetCLFDir(), GetRuntimeDir(), GetLogsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}
