package guesthouse

import "context"

// GuesthouseRepository defines the persistence contract for the guesthouse catalog.
// Ledger and sales are never persisted.
type GuesthouseRepository interface {
	// FindByID retrieves a guesthouse by identifier.
	FindByID(ctx context.Context, id string) (*Guesthouse, error)

	// ListAll returns the whole catalog ordered by identifier.
	ListAll(ctx context.Context) ([]*Guesthouse, error)

	// Count returns the number of guesthouses.
	Count(ctx context.Context) (int64, error)

	// Save persists a new guesthouse.
	Save(ctx context.Context, gh *Guesthouse) error

	// Update persists catalog changes with optimistic locking.
	Update(ctx context.Context, gh *Guesthouse) error
}
