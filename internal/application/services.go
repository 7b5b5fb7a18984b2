package application

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/booking"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/customer"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/guesthouse"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/reservation"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/pkg/kafka"
)

// RecommendationCache stores computed recommendations per customer.
// Any change to sales or booking history must call Invalidate. Load returns the generation it
// read and Store writes only under that generation.
type RecommendationCache interface {
	Load(ctx context.Context, email string, dst any) (int64, bool)
	Store(ctx context.Context, gen int64, email string, v any)
	Invalidate(ctx context.Context)
}

// Deps groups what the application services need.
type Deps struct {
	Engine      *reservation.Engine
	Guesthouses guesthouse.GuesthouseRepository
	Customers   customer.CustomerRepository
	Bookings    booking.BookingRepository
	Publisher   EventPublisher
	Cache       RecommendationCache
	Logger      *zap.Logger
}

// Services bundles the application services. They share one write lock so the order in which
// changes reach the repositories matches the order the engine applied them.
type Services struct {
	Bookings    *BookingService
	Customers   *CustomerService
	Guesthouses *GuesthouseService
}

// NewServices wires the application services around a hydrated engine.
func NewServices(d Deps) *Services {
	if d.Publisher == nil {
		d.Publisher = nopPublisher{}
	}
	if d.Cache == nil {
		d.Cache = nopCache{}
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}

	base := &core{
		engine:      d.Engine,
		guesthouses: d.Guesthouses,
		customers:   d.Customers,
		bookings:    d.Bookings,
		producer:    d.Publisher,
		cache:       d.Cache,
		logger:      d.Logger,
	}
	return &Services{
		Bookings:    &BookingService{core: base},
		Customers:   &CustomerService{core: base},
		Guesthouses: &GuesthouseService{core: base},
	}
}

// core holds the state shared by every service.
type core struct {
	mu sync.Mutex

	engine      *reservation.Engine
	guesthouses guesthouse.GuesthouseRepository
	customers   customer.CustomerRepository
	bookings    booking.BookingRepository
	producer    EventPublisher
	cache       RecommendationCache
	logger      *zap.Logger
}

// persistBalance writes the engine's current balance for a customer.
// The engine is authoritative, so failures are logged and not returned.
func (c *core) persistBalance(ctx context.Context, email string) {
	cust, err := c.engine.Customer(email)
	if err != nil {
		c.logger.Error("failed to read customer for persistence", zap.String("customer_email", email), zap.Error(err))
		return
	}
	if err := c.customers.UpdateBalance(ctx, cust); err != nil {
		c.logger.Error("failed to persist customer balance",
			zap.String("customer_email", email),
			zap.String("balance", cust.Balance().String()),
			zap.Error(err),
		)
	}
}

func (c *core) saveBooking(ctx context.Context, bk *booking.Booking) {
	if err := c.bookings.Save(ctx, bk); err != nil {
		c.logger.Error("failed to save booking", zap.String("booking_id", bk.ID().String()), zap.Error(err))
	}
}

func (c *core) updateBooking(ctx context.Context, bk *booking.Booking) {
	if err := c.bookings.Update(ctx, bk); err != nil {
		c.logger.Error("failed to update booking", zap.String("booking_id", bk.ID().String()), zap.Error(err))
	}
}

func (c *core) publishEvent(ctx context.Context, topic, eventType, key string, data any) {
	cloudEvent, err := kafka.NewCloudEvent(EventSource, eventType, data)
	if err != nil {
		c.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	cloudEvent.Subject = key

	if err := c.producer.PublishEvent(ctx, topic, cloudEvent); err != nil {
		c.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

type nopCache struct{}

func (nopCache) Load(context.Context, string, any) (int64, bool) { return -1, false }
func (nopCache) Store(context.Context, int64, string, any)       {}
func (nopCache) Invalidate(context.Context)                      {}
