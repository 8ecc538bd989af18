package round

import "context"

// Store persists rounds. Implementations must make UpdateActive an atomic
// conditional transition: the mutation commits only if the round is still
// active at commit time, so a second racer observes the finished state and
// fails with ErrInvalidState instead of double-settling.
type Store interface {
	// Create stores a new round. The ID must not already exist.
	Create(ctx context.Context, r *Round) error

	// Get returns the round or ErrRoundNotFound.
	Get(ctx context.Context, id string) (*Round, error)

	// UpdateActive loads the round, verifies it is still active, applies fn
	// and commits, all as one conditional operation. fn may finish the
	// round; an error from fn aborts the commit.
	UpdateActive(ctx context.Context, id string, fn func(r *Round) error) (*Round, error)
}
