package deps

import "context"

// Limiter is a per-identity sliding-window command limiter
type Limiter interface {
	// CheckAndRecord reports whether identity is over budget. A request that
	// is not limited is recorded.
	CheckAndRecord(identity string) bool
	Reset(identity string)
	Remaining(identity string) int
	// Run sweeps idle identities until ctx is cancelled
	Run(ctx context.Context)
}
