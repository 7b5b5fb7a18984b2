package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/calendar"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/pkg/domain"
)

// MaxNights is the longest stay a single booking may cover.
const MaxNights = 365

// Booking is the aggregate root for a guesthouse stay.
// The identifier stays uuid.Nil until the booking is committed.
type Booking struct {
	id            uuid.UUID
	guesthouseID  string
	customerEmail string
	stay          calendar.Range
	partySize     int
	totalAmount   decimal.Decimal
	status        BookingStatus

	requestedAt time.Time
	committedAt *time.Time
	cancelledAt *time.Time

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewBooking creates a pending booking with status=requested.
// quotedAmount is informational; the charged amount is fixed by Commit.
func NewBooking(
	guesthouseID string,
	customerEmail string,
	start calendar.Date,
	nights int,
	partySize int,
	quotedAmount decimal.Decimal,
	requestedAt time.Time,
) (*Booking, error) {
	if strings.TrimSpace(guesthouseID) == "" {
		return nil, domain.NewValidationError("guesthouse ID is required")
	}
	if strings.TrimSpace(customerEmail) == "" {
		return nil, domain.NewValidationError("customer email is required")
	}
	if start.IsZero() {
		return nil, domain.NewValidationError("start date is required")
	}
	if nights < 1 || nights > MaxNights {
		return nil, domain.NewValidationError(fmt.Sprintf("nights must be between 1 and %d", MaxNights))
	}
	if partySize < 1 {
		return nil, domain.NewValidationError("party size must be at least 1")
	}

	now := requestedAt.UTC()
	return &Booking{
		guesthouseID:  guesthouseID,
		customerEmail: strings.ToLower(customerEmail),
		stay:          calendar.Range{Start: start, Nights: nights},
		partySize:     partySize,
		totalAmount:   quotedAmount,
		status:        StatusRequested,
		requestedAt:   now,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructBooking rebuilds a Booking from persistence data (no validation).
func ReconstructBooking(
	id uuid.UUID,
	guesthouseID string,
	customerEmail string,
	start calendar.Date,
	nights int,
	partySize int,
	totalAmount decimal.Decimal,
	status BookingStatus,
	requestedAt time.Time,
	committedAt *time.Time,
	cancelledAt *time.Time,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) *Booking {
	return &Booking{
		id:            id,
		guesthouseID:  guesthouseID,
		customerEmail: strings.ToLower(customerEmail),
		stay:          calendar.Range{Start: start, Nights: nights},
		partySize:     partySize,
		totalAmount:   totalAmount,
		status:        status,
		requestedAt:   requestedAt,
		committedAt:   committedAt,
		cancelledAt:   cancelledAt,
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// --- Getters ---

// ID returns the booking identifier, or uuid.Nil while pending.
func (b *Booking) ID() uuid.UUID { return b.id }

// GuesthouseID returns the booked guesthouse.
func (b *Booking) GuesthouseID() string { return b.guesthouseID }

// CustomerEmail returns the owning customer's email.
func (b *Booking) CustomerEmail() string { return b.customerEmail }

// Stay returns the booked range of nights.
func (b *Booking) Stay() calendar.Range { return b.stay }

// StartDate returns the check-in date.
func (b *Booking) StartDate() calendar.Date { return b.stay.Start }

// EndDate returns the checkout date, always StartDate + Nights.
func (b *Booking) EndDate() calendar.Date { return b.stay.End() }

// Nights returns the number of nights.
func (b *Booking) Nights() int { return b.stay.Nights }

// PartySize returns the number of guests.
func (b *Booking) PartySize() int { return b.partySize }

// TotalAmount returns the amount charged at commit, or the quote while pending.
func (b *Booking) TotalAmount() decimal.Decimal { return b.totalAmount }

// Status returns the current booking status.
func (b *Booking) Status() BookingStatus { return b.status }

// IsCancelled reports whether the booking reached the cancelled state.
func (b *Booking) IsCancelled() bool { return b.status == StatusCancelled }

// IsActive reports whether the booking holds ledger capacity.
func (b *Booking) IsActive() bool { return b.status == StatusCommitted }

// RequestedAt returns when the booking was requested.
func (b *Booking) RequestedAt() time.Time { return b.requestedAt }

// CommittedAt returns the commit time, or nil if never committed.
func (b *Booking) CommittedAt() *time.Time { return b.committedAt }

// CancelledAt returns the cancellation time, or nil.
func (b *Booking) CancelledAt() *time.Time { return b.cancelledAt }

// Version returns the entity version for optimistic locking.
func (b *Booking) Version() int64 { return b.version }

// CreatedAt returns the creation timestamp.
func (b *Booking) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns the last-updated timestamp.
func (b *Booking) UpdatedAt() time.Time { return b.updatedAt }

// --- Behavior ---

// Queue parks a requested booking on the waiting list.
func (b *Booking) Queue(at time.Time) error {
	if !b.status.CanTransitionTo(StatusQueued) {
		return domain.NewInvalidStateError(string(b.status), string(StatusQueued))
	}
	b.status = StatusQueued
	b.updatedAt = at.UTC()
	return nil
}

// Commit assigns the identifier and fixes the charged amount.
func (b *Booking) Commit(id uuid.UUID, totalAmount decimal.Decimal, at time.Time) error {
	if !b.status.CanTransitionTo(StatusCommitted) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCommitted))
	}
	if id == uuid.Nil {
		return domain.NewValidationError("booking ID is required to commit")
	}
	t := at.UTC()
	b.id = id
	b.totalAmount = totalAmount
	b.status = StatusCommitted
	b.committedAt = &t
	b.updatedAt = t
	return nil
}

// Cancel marks a committed booking cancelled. Cancelled is terminal.
func (b *Booking) Cancel(at time.Time) error {
	if !b.status.CanBeCancelled() {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	t := at.UTC()
	b.status = StatusCancelled
	b.cancelledAt = &t
	b.updatedAt = t
	return nil
}

// Reschedule replaces the stay of a committed booking, keeping its identifier.
func (b *Booking) Reschedule(start calendar.Date, nights, partySize int, totalAmount decimal.Decimal, at time.Time) error {
	if b.status != StatusCommitted {
		return domain.NewInvalidStateError(string(b.status), string(StatusCommitted))
	}
	if nights < 1 || partySize < 1 {
		return domain.NewValidationError("nights and party size must be at least 1")
	}
	if nights > MaxNights {
		return domain.NewValidationError(fmt.Sprintf("nights cannot exceed %d", MaxNights))
	}
	b.stay = calendar.Range{Start: start, Nights: nights}
	b.partySize = partySize
	b.totalAmount = totalAmount
	b.updatedAt = at.UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
}

// Clone returns an independent copy safe to hand outside the engine.
func (b *Booking) Clone() *Booking {
	c := *b
	return &c
}
