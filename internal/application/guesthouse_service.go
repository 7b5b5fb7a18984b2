package application

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/calendar"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/pkg/domain"
)

// GuesthouseService implements catalog queries and administration.
type GuesthouseService struct {
	*core
}

// ListGuesthouses returns the catalog in registration order.
func (s *GuesthouseService) ListGuesthouses(ctx context.Context) []GuesthouseDTO {
	ghs := s.engine.Guesthouses()
	out := make([]GuesthouseDTO, len(ghs))
	for i, gh := range ghs {
		out[i] = toGuesthouseDTO(gh)
	}
	return out
}

// GetGuesthouse returns one catalog entry.
func (s *GuesthouseService) GetGuesthouse(ctx context.Context, id string) (*GuesthouseDTO, error) {
	gh, err := s.engine.Guesthouse(id)
	if err != nil {
		return nil, err
	}
	result := toGuesthouseDTO(gh)
	return &result, nil
}

// HasFeature reports whether a guesthouse carries a feature tag or is of the named kind.
func (s *GuesthouseService) HasFeature(ctx context.Context, id, feature string) (*FeatureDTO, error) {
	ok, err := s.engine.HasFeature(id, feature)
	if err != nil {
		return nil, err
	}
	return &FeatureDTO{GuesthouseID: id, Feature: feature, Present: ok}, nil
}

// OccupancyRate returns the booked percentage of one guesthouse on a date.
func (s *GuesthouseService) OccupancyRate(ctx context.Context, id string, d calendar.Date) (*OccupancyDTO, error) {
	rate, err := s.engine.OccupancyRate(id, d)
	if err != nil {
		return nil, err
	}
	return &OccupancyDTO{GuesthouseID: id, Date: d, Rate: rate}, nil
}

// AggregateOccupancyRate returns the booked percentage across the catalog on a date.
func (s *GuesthouseService) AggregateOccupancyRate(ctx context.Context, d calendar.Date) (*OccupancyDTO, error) {
	rate, err := s.engine.AggregateOccupancyRate(d)
	if err != nil {
		return nil, err
	}
	return &OccupancyDTO{Date: d, Rate: rate}, nil
}

// ListGuesthouseBookings returns every booking made against a guesthouse.
func (s *GuesthouseService) ListGuesthouseBookings(ctx context.Context, id string) ([]BookingDTO, error) {
	bks, err := s.engine.BookingsByGuesthouse(id)
	if err != nil {
		return nil, err
	}
	return toBookingDTOs(bks), nil
}

// ApplyPromotion discounts a guesthouse's nightly price and persists it (admin).
func (s *GuesthouseService) ApplyPromotion(ctx context.Context, id string, rate decimal.Decimal) (*GuesthouseDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	gh, err := s.engine.ApplyPromotion(id, rate)
	if err != nil {
		return nil, err
	}
	if err := s.guesthouses.Update(ctx, gh); err != nil {
		s.logger.Error("failed to persist promotion", zap.String("guesthouse_id", id), zap.Error(err))
	}
	s.cache.Invalidate(ctx)

	s.logger.Info("promotion applied",
		zap.String("guesthouse_id", id),
		zap.String("rate", rate.String()),
		zap.String("price_per_night", gh.PricePerNight().String()),
	)
	result := toGuesthouseDTO(gh)
	return &result, nil
}

// MonthlyRevenue returns per-guesthouse revenue for bookings checking in during a month (admin).
func (s *GuesthouseService) MonthlyRevenue(ctx context.Context, year int, month time.Month) ([]RevenueDTO, error) {
	if month < time.January || month > time.December {
		return nil, domain.NewValidationError("month must be between 1 and 12")
	}
	lines := s.engine.MonthlyRevenue(year, month)
	out := make([]RevenueDTO, len(lines))
	for i, l := range lines {
		out[i] = toRevenueDTO(l)
	}
	return out, nil
}
