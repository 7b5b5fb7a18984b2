package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/booking"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/calendar"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/pkg/kafka"
)

// EventSource is the CloudEvents source of everything this service publishes.
const EventSource = "service-guesthouse"

// Topics.
const (
	TopicBookingEvents = "guesthouse.booking.events"
	TopicAccountEvents = "guesthouse.account.events"
)

// Event types.
const (
	BookingCommitted = "booking.committed"
	BookingQueued    = "booking.queued"
	BookingPromoted  = "booking.promoted"
	BookingUpdated   = "booking.updated"
	BookingCancelled = "booking.cancelled"
	AccountCredited  = "account.credited"
)

// EventPublisher publishes CloudEvents. *kafka.Producer satisfies it.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// BookingEvent is the payload of every booking.* event.
type BookingEvent struct {
	BookingID     uuid.UUID       `json:"booking_id"`
	GuesthouseID  string          `json:"guesthouse_id"`
	CustomerEmail string          `json:"customer_email"`
	StartDate     calendar.Date   `json:"start_date"`
	EndDate       calendar.Date   `json:"end_date"`
	Nights        int             `json:"nights"`
	PartySize     int             `json:"party_size"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Refund        decimal.Decimal `json:"refund,omitempty"`
	Status        string          `json:"status"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

// AccountCreditedEvent tops up a customer's balance. It is consumed from TopicAccountEvents.
type AccountCreditedEvent struct {
	CustomerEmail string          `json:"customer_email"`
	Amount        decimal.Decimal `json:"amount"`
	OccurredAt    time.Time       `json:"occurred_at"`
}

func newBookingEvent(bk *booking.Booking) BookingEvent {
	return BookingEvent{
		BookingID:     bk.ID(),
		GuesthouseID:  bk.GuesthouseID(),
		CustomerEmail: bk.CustomerEmail(),
		StartDate:     bk.StartDate(),
		EndDate:       bk.EndDate(),
		Nights:        bk.Nights(),
		PartySize:     bk.PartySize(),
		TotalAmount:   bk.TotalAmount(),
		Status:        string(bk.Status()),
		OccurredAt:    time.Now().UTC(),
	}
}

// nopPublisher drops events when Kafka is not configured.
type nopPublisher struct{}

func (nopPublisher) PublishEvent(context.Context, string, kafka.CloudEvent) error { return nil }
