package health

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// FilesystemCheckerConfig configures the filesystem checker.
type FilesystemCheckerConfig struct {
	// Dirs are the critical directories. Missing ones are created.
	Dirs []string

	// LogsDir receives the transient probe file.
	LogsDir string

	// ProbeFile is the probe file name inside LogsDir.
	// Default: "health-test.log"
	ProbeFile string

	// LockTimeout bounds the wait for the probe lock on LogsDir.
	// Default: 2 seconds
	LockTimeout time.Duration
}

// FilesystemChecker verifies the critical directories and performs a
// create-write-delete cycle on a probe file in the logs directory.
type FilesystemChecker struct {
	config FilesystemCheckerConfig
	now    func() time.Time
}

// NewFilesystemChecker creates a new filesystem checker.
func NewFilesystemChecker(config FilesystemCheckerConfig) *FilesystemChecker {
	if config.ProbeFile == "" {
		config.ProbeFile = "health-test.log"
	}
	if config.LockTimeout <= 0 {
		config.LockTimeout = 2 * time.Second
	}
	return &FilesystemChecker{config: config, now: time.Now}
}

// Name returns the name of this checker.
func (f *FilesystemChecker) Name() string {
	return "filesystem"
}

// ProbePath returns the full path of the transient probe file.
func (f *FilesystemChecker) ProbePath() string {
	return filepath.Join(f.config.LogsDir, f.config.ProbeFile)
}

// Check performs the filesystem checks.
func (f *FilesystemChecker) Check(ctx context.Context) Result {
	if r, done := contextResult(ctx); done {
		return r
	}

	for _, dir := range f.config.Dirs {
		if _, err := ensureDir(dir); err != nil {
			return Unhealthy(fmt.Sprintf("directory %s unavailable", dir), err)
		}
		if err := checkAccess(dir, accessRead); err != nil {
			return Unhealthy(fmt.Sprintf("directory %s not readable", dir), err)
		}
	}

	if _, err := ensureDir(f.config.LogsDir); err != nil {
		return Unhealthy("logs directory unavailable", err)
	}

	if err := f.probe(ctx); err != nil {
		return Unhealthy("probe file write failed", err)
	}

	return Healthy(fmt.Sprintf("%d directories readable, logs writable", len(f.config.Dirs))).WithDetails(map[string]any{
		"probe_file": f.ProbePath(),
	})
}

// probe holds the logs directory lock for the duration of the write cycle.
func (f *FilesystemChecker) probe(ctx context.Context) error {
	lock := flock.New(f.config.LogsDir, flock.SetFlag(os.O_RDONLY))

	lockCtx, cancel := context.WithTimeout(ctx, f.config.LockTimeout)
	defer cancel()

	locked, err := lock.TryLockContext(lockCtx, 25*time.Millisecond)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrLockTimeout
		}
		return fmt.Errorf("lock %s: %w", f.config.LogsDir, err)
	}
	if !locked {
		return ErrLockTimeout
	}
	defer func() { _ = lock.Unlock() }()

	return writeProbeFile(f.ProbePath(), f.now(), RunIDFromContext(ctx))
}

// writeProbeFile creates path with a timestamp line and always removes it
// before returning.
func writeProbeFile(path string, now time.Time, runID string) (err error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		removeStaleProbeFile(path)
		return fmt.Errorf("create probe file: %w", err)
	}
	defer func() {
		rmErr := os.Remove(path)
		if rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) && err == nil {
			err = fmt.Errorf("remove probe file: %w", rmErr)
		}
	}()

	line := "Health check at " + now.UTC().Format(time.RFC3339Nano)
	if runID != "" {
		line += " run " + runID
	}
	_, writeErr := fmt.Fprintln(file, line)
	closeErr := file.Close()
	if writeErr != nil {
		return fmt.Errorf("write probe file: %w", writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close probe file: %w", closeErr)
	}
	return nil
}

// removeStaleProbeFile deletes a leftover regular probe file that could not
// be reopened. Anything else at path is left alone.
func removeStaleProbeFile(path string) {
	info, err := os.Lstat(path)
	if err != nil || !info.Mode().IsRegular() {
		return
	}
	_ = os.Remove(path)
}
