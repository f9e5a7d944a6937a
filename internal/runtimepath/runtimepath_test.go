package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDir_UsesXDGRuntimeDirWhenSet(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got != td {
		t.Fatalf("Dir() = %q, want %q", got, td)
	}
}

func TestDir_FallbacksWhenXDGRuntimeDirMissing(t *testing.T) {
	t.Setenv("XDG_RUNTIME_DIR", "")

	got, err := Dir()
	if err != nil {
		t.Fatalf("Dir() error: %v", err)
	}
	if got == "" {
		t.Fatal("Dir() returned empty path")
	}

	wantRun := fmt.Sprintf("/run/user/%d", os.Getuid())
	wantTmp := filepath.Join(os.TempDir(), fmt.Sprintf("remmeter-runtime-%d", os.Getuid()))
	if got != wantRun && got != wantTmp {
		t.Fatalf("Dir() = %q, want %q or %q", got, wantRun, wantTmp)
	}
}

func TestLogPath(t *testing.T) {
	td := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", td)

	path, err := LogPath()
	if err != nil {
		t.Fatalf("LogPath() error: %v", err)
	}
	if !strings.HasPrefix(path, td) || filepath.Base(path) != "remmeter.log" {
		t.Fatalf("LogPath() = %q, want remmeter.log under %q", path, td)
	}
}
