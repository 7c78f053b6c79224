package health

import "errors"

var (
	// ErrCheckPanicked indicates a check panicked instead of returning a result.
	ErrCheckPanicked = errors.New("health: check panicked")

	// ErrNoCheckers indicates no checkers are registered.
	ErrNoCheckers = errors.New("health: no checkers registered")

	// ErrUnexpectedStatus indicates the probed endpoint answered with a non-200 status.
	ErrUnexpectedStatus = errors.New("health: unexpected status code")

	// ErrNotDirectory indicates a path expected to be a directory is not one.
	ErrNotDirectory = errors.New("health: not a directory")

	// ErrIntegrity indicates a data store failed its integrity check.
	ErrIntegrity = errors.New("health: integrity check failed")

	// ErrLockTimeout indicates the probe file lock could not be acquired in time.
	ErrLockTimeout = errors.New("health: probe lock timeout")
)
