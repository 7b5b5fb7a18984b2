package booking

import (
	"context"

	"github.com/google/uuid"
)

// BookingRepository defines the persistence contract for committed and cancelled bookings.
// Queued bookings are never persisted.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByCustomer retrieves a customer's bookings in history order.
	FindByCustomer(ctx context.Context, customerEmail string) ([]*Booking, error)

	// FindByGuesthouse retrieves every booking made against a guesthouse.
	FindByGuesthouse(ctx context.Context, guesthouseID string) ([]*Booking, error)

	// LoadAll retrieves every booking in commit order, used to rebuild ledgers at startup.
	LoadAll(ctx context.Context) ([]*Booking, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Save persists a newly committed booking.
	Save(ctx context.Context, booking *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, booking *Booking) error
}
