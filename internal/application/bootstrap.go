package application

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/booking"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/customer"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/guesthouse"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/reservation"
)

// HydrateStats summarizes a Hydrate run.
type HydrateStats struct {
	Guesthouses int
	Customers   int
	Bookings    int
	Skipped     int
}

// Hydrate loads the catalog, the customers and every persisted booking into the engine.
// Bookings that cannot be restored are logged and skipped; repository failures abort.
func Hydrate(
	ctx context.Context,
	engine *reservation.Engine,
	ghRepo guesthouse.GuesthouseRepository,
	customerRepo customer.CustomerRepository,
	bookingRepo booking.BookingRepository,
	logger *zap.Logger,
) (HydrateStats, error) {
	var stats HydrateStats

	ghs, err := ghRepo.ListAll(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to load guesthouses: %w", err)
	}
	for _, gh := range ghs {
		if err := engine.RegisterGuesthouse(gh); err != nil {
			return stats, err
		}
		stats.Guesthouses++
	}

	customers, err := customerRepo.ListAll(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to load customers: %w", err)
	}
	for _, c := range customers {
		if err := engine.RegisterCustomer(c); err != nil {
			return stats, err
		}
		stats.Customers++
	}

	bookings, err := bookingRepo.LoadAll(ctx)
	if err != nil {
		return stats, fmt.Errorf("failed to load bookings: %w", err)
	}
	for _, bk := range bookings {
		if err := engine.Restore(bk); err != nil {
			logger.Warn("skipping booking on load",
				zap.String("booking_id", bk.ID().String()),
				zap.String("guesthouse_id", bk.GuesthouseID()),
				zap.String("customer_email", bk.CustomerEmail()),
				zap.Error(err),
			)
			stats.Skipped++
			continue
		}
		stats.Bookings++
	}

	logger.Info("engine hydrated",
		zap.Int("guesthouses", stats.Guesthouses),
		zap.Int("customers", stats.Customers),
		zap.Int("bookings", stats.Bookings),
		zap.Int("skipped", stats.Skipped),
	)
	return stats, nil
}
