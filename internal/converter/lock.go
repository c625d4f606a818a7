package converter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// LockPath returns the path of the marker that flags a project as exported
// for editing.
func LockPath(projectPath string) string {
	return strings.TrimSuffix(projectPath, filepath.Ext(projectPath)) + ".lock"
}

// IsLocked reports whether the project has a pending export and names the
// exported document.
func IsLocked(projectPath string) (string, bool) {
	data, err := os.ReadFile(LockPath(projectPath))
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(string(data)), true
}

func lock(projectPath, docPath string) error {
	if err := os.WriteFile(LockPath(projectPath), []byte(docPath+"\n"), 0o644); err != nil {
		return fmt.Errorf("locking %s: %w", filepath.Base(projectPath), err)
	}
	return nil
}

func unlock(projectPath string) error {
	err := os.Remove(LockPath(projectPath))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("unlocking %s: %w", filepath.Base(projectPath), err)
	}
	return nil
}
