package health

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"golang.org/x/sys/unix"
)

// Access modes passed to access(2).
const (
	accessRead      = unix.R_OK
	accessReadWrite = unix.R_OK | unix.W_OK
)

// checkAccess verifies the real uid may use path with the given mode.
func checkAccess(path string, mode uint32) error {
	if err := unix.Access(path, mode); err != nil {
		return fmt.Errorf("access %s: %w", path, err)
	}
	return nil
}

// pathExists reports whether path can be stat'ed.
func pathExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// ensureDir creates path (and parents) when missing. An existing path must
// be a directory.
func ensureDir(path string) (created bool, err error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(path, 0o755); err != nil {
			return false, fmt.Errorf("create %s: %w", path, err)
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return false, fmt.Errorf("%w: %s", ErrNotDirectory, path)
	}
	return false, nil
}
