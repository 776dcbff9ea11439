package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var (
	debugMu   sync.Mutex
	debugPath string
	debugFile *os.File
)

// ConfigureDebug enables the debug log at path. An empty path disables it.
func ConfigureDebug(path string) error {
	debugMu.Lock()
	defer debugMu.Unlock()

	if debugFile != nil {
		_ = debugFile.Close()
		debugFile = nil
	}
	debugPath = path
	if path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open debug log: %w", err)
	}
	debugFile = f
	return nil
}

// DebugEnabled reports whether Debug writes anywhere.
func DebugEnabled() bool {
	debugMu.Lock()
	defer debugMu.Unlock()
	return debugFile != nil
}

// Debug writes a message to the debug log file
func Debug(format string, args ...any) {
	// add timestamp to each debug message
	timestamp := time.Now().Format("2006-01-02 15:04:05.000")

	debugMu.Lock()
	defer debugMu.Unlock()
	if debugFile != nil {
		fmt.Fprintf(debugFile, "[%s] %s\n", timestamp, fmt.Sprintf(format, args...))
		_ = debugFile.Sync() // Flush immediately
	}
}
