// ABOUTME: Tests for the file-backed debug logger
// ABOUTME: Verifies log file creation and the disabled no-op mode

package debuglog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitWritesToFile(t *testing.T) {
	dir := t.TempDir()
	if err := Init(Options{ConfigDir: dir}); err != nil {
		t.Fatalf("Init: %v", err)
	}

	Log("hello %s", "world")
	Warn("tui session ended: %v", "expired")
	Error("client.refresh_failed", errors.New("boom"))
	Close()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "hello world") {
		t.Errorf("expected debug message in log, got %q", out)
	}
	if !strings.Contains(out, "tui session ended: expired") {
		t.Errorf("expected warning in log, got %q", out)
	}
	if !strings.Contains(out, "client.refresh_failed") || !strings.Contains(out, "boom") {
		t.Errorf("expected error entry in log, got %q", out)
	}
}

func TestInitDisabled(t *testing.T) {
	if err := Init(Options{}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Close()

	// Must not panic with no sinks
	Log("ignored")
	Warn("ignored %d", 1)
	Error("ctx", nil)
	if L() == nil {
		t.Error("expected non-nil logger")
	}
}
