package health

import "context"

type runIDKey struct{}

// WithRunID attaches a probe run identifier to ctx. Checks that leave
// artifacts, such as the filesystem probe file, stamp them with it.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunIDFromContext returns the run identifier set by WithRunID, or "".
func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}
