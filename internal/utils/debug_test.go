package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDebugWritesOnlyWhenConfigured(t *testing.T) {
	if err := ConfigureDebug(""); err != nil {
		t.Fatal(err)
	}
	Debug("dropped %d", 1)
	if DebugEnabled() {
		t.Fatal("debug log should be disabled")
	}

	path := filepath.Join(t.TempDir(), "logs", "debug.log")
	if err := ConfigureDebug(path); err != nil {
		t.Fatalf("ConfigureDebug: %v", err)
	}
	defer func() { _ = ConfigureDebug("") }()

	Debug("poll tick %s", "abc")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "poll tick abc") {
		t.Errorf("log missing message: %q", string(data))
	}
	if strings.Contains(string(data), "dropped") {
		t.Errorf("message logged while disabled: %q", string(data))
	}
}
