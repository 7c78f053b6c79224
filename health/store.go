package health

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite"
)

// StoreCheckerConfig configures the data store checker.
type StoreCheckerConfig struct {
	// Paths are the candidate data store files. Missing files are skipped.
	Paths []string

	// VerifyIntegrity opens each existing store read-only and runs
	// PRAGMA quick_check.
	// Default: false
	VerifyIntegrity bool
}

// StoreChecker verifies that every existing data store file is readable
// and writable.
type StoreChecker struct {
	config StoreCheckerConfig
}

// NewStoreChecker creates a new data store checker.
func NewStoreChecker(config StoreCheckerConfig) *StoreChecker {
	return &StoreChecker{config: config}
}

// Name returns the name of this checker.
func (s *StoreChecker) Name() string {
	return "database"
}

// Check performs the store checks.
func (s *StoreChecker) Check(ctx context.Context) Result {
	if r, done := contextResult(ctx); done {
		return r
	}

	present := make([]string, 0, len(s.config.Paths))
	for _, path := range s.config.Paths {
		// Only a missing file is skipped; any other stat error fails the check.
		exists, err := pathExists(path)
		if err != nil {
			return Unhealthy(fmt.Sprintf("store %s unreadable", path), err)
		}
		if !exists {
			continue
		}
		present = append(present, path)

		if err := checkAccess(path, accessReadWrite); err != nil {
			return Unhealthy(fmt.Sprintf("store %s not accessible", path), err)
		}

		if s.config.VerifyIntegrity {
			if err := quickCheck(ctx, path); err != nil {
				return Unhealthy(fmt.Sprintf("store %s failed integrity check", path), err)
			}
		}
	}

	details := map[string]any{
		"candidates": len(s.config.Paths),
		"present":    present,
	}
	if len(present) == 0 {
		return Healthy("no data stores present").WithDetails(details)
	}
	return Healthy(fmt.Sprintf("%d data store(s) accessible", len(present))).WithDetails(details)
}

func quickCheck(ctx context.Context, path string) error {
	dsn := (&url.URL{Scheme: "file", Path: path, RawQuery: "mode=ro"}).String()
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()

	var verdict string
	if err := db.QueryRowContext(ctx, "PRAGMA quick_check").Scan(&verdict); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrIntegrity, path, err)
	}
	if verdict != "ok" {
		return fmt.Errorf("%w: %s: %s", ErrIntegrity, path, verdict)
	}
	return nil
}
