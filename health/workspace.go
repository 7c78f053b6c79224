package health

import (
	"context"
	"fmt"
)

// WorkspaceChecker makes sure the working directories exist and are
// readable and writable, creating them when missing.
type WorkspaceChecker struct {
	dirs []string
}

// NewWorkspaceChecker creates a new workspace checker over dirs.
func NewWorkspaceChecker(dirs []string) *WorkspaceChecker {
	return &WorkspaceChecker{dirs: dirs}
}

// Name returns the name of this checker.
func (w *WorkspaceChecker) Name() string {
	return "memory"
}

// Check performs the workspace checks.
func (w *WorkspaceChecker) Check(ctx context.Context) Result {
	if r, done := contextResult(ctx); done {
		return r
	}

	var created []string
	for _, dir := range w.dirs {
		made, err := ensureDir(dir)
		if err != nil {
			return Unhealthy(fmt.Sprintf("workspace %s unavailable", dir), err)
		}
		if made {
			created = append(created, dir)
		}

		if err := checkAccess(dir, accessReadWrite); err != nil {
			return Unhealthy(fmt.Sprintf("workspace %s not writable", dir), err)
		}
	}

	return Healthy(fmt.Sprintf("%d workspace(s) ready", len(w.dirs))).WithDetails(map[string]any{
		"created": created,
	})
}
