package probe

import "errors"

var (
	// ErrNilConfig indicates New was called without a configuration.
	ErrNilConfig = errors.New("probe: nil config")

	// ErrUnknownCheck indicates a checker replacement names no battery check.
	ErrUnknownCheck = errors.New("probe: unknown check")

	// ErrUnhealthy indicates a battery completed with a failing verdict.
	ErrUnhealthy = errors.New("probe: verdict unhealthy")
)
