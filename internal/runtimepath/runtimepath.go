package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the per-user runtime directory for remmeter's log file.
// Priority:
// 1) XDG_RUNTIME_DIR (if set)
// 2) /run/user/<uid> (if present)
// 3) <tmp>/remmeter-runtime-<uid> (created)
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	uid := os.Getuid()
	if runtime.GOOS != "windows" {
		runUserDir := fmt.Sprintf("/run/user/%d", uid)
		if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
			return runUserDir, nil
		}
	}

	tmpDir := filepath.Join(os.TempDir(), fmt.Sprintf("remmeter-runtime-%d", uid))
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// LogPath returns the default log file path used when log_file is not set.
func LogPath() (string, error) {
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, "remmeter.log"), nil
}
