package health

import "context"

// IndexChecker reports whether the index service answers.
type IndexChecker interface {
	IsServerReady(ctx context.Context) bool
}

// HostChecker checks the host access-check endpoint.
type HostChecker interface {
	HealthCheck(ctx context.Context) error
}
