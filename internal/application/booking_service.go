package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/booking"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/customer"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/reservation"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/pkg/domain"
)

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	*core
}

// CreateBooking books a stay for the customer. When the dates are full the request is
// queued; the returned booking then has status queued and no ID.
func (s *BookingService) CreateBooking(ctx context.Context, email string, req CreateBookingRequest) (*BookingDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bk, err := s.engine.Create(email, req.GuesthouseID, req.StartDate, req.Nights, req.PartySize)
	if err != nil {
		return nil, err
	}

	if bk.Status() == booking.StatusQueued {
		s.logger.Info("booking request queued",
			zap.String("customer_email", bk.CustomerEmail()),
			zap.String("guesthouse_id", bk.GuesthouseID()),
			zap.String("start_date", bk.StartDate().String()),
			zap.Int("party_size", bk.PartySize()),
		)
		s.publishEvent(ctx, TopicBookingEvents, BookingQueued, bk.CustomerEmail(), newBookingEvent(bk))
		result := toBookingDTO(bk)
		return &result, nil
	}

	s.saveBooking(ctx, bk)
	s.persistBalance(ctx, bk.CustomerEmail())
	s.cache.Invalidate(ctx)

	s.logger.Info("booking committed",
		zap.String("booking_id", bk.ID().String()),
		zap.String("customer_email", bk.CustomerEmail()),
		zap.String("guesthouse_id", bk.GuesthouseID()),
		zap.String("total_amount", bk.TotalAmount().String()),
	)
	s.publishEvent(ctx, TopicBookingEvents, BookingCommitted, bk.ID().String(), newBookingEvent(bk))

	result := toBookingDTO(bk)
	return &result, nil
}

// CancelBooking cancels one of the customer's bookings and promotes waiting requests.
func (s *BookingService) CancelBooking(ctx context.Context, email string, bookingID uuid.UUID) (*CancelResultDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.engine.Cancel(email, bookingID)
	if err != nil {
		return nil, err
	}

	s.updateBooking(ctx, res.Booking)
	s.persistBalance(ctx, res.Booking.CustomerEmail())

	evt := newBookingEvent(res.Booking)
	evt.Refund = res.Refund
	s.publishEvent(ctx, TopicBookingEvents, BookingCancelled, res.Booking.ID().String(), evt)
	s.logger.Info("booking cancelled",
		zap.String("booking_id", res.Booking.ID().String()),
		zap.String("refund", res.Refund.String()),
		zap.Int("promoted", len(res.Promoted)),
	)

	for _, p := range res.Promoted {
		s.saveBooking(ctx, p)
		s.persistBalance(ctx, p.CustomerEmail())
		s.publishEvent(ctx, TopicBookingEvents, BookingPromoted, p.ID().String(), newBookingEvent(p))
		s.logger.Info("waiting request promoted",
			zap.String("booking_id", p.ID().String()),
			zap.String("customer_email", p.CustomerEmail()),
		)
	}
	for _, u := range res.Unfunded {
		s.logger.Warn("waiting request fits but cannot be paid for",
			zap.String("customer_email", u.CustomerEmail()),
			zap.String("guesthouse_id", u.GuesthouseID()),
			zap.String("start_date", u.StartDate().String()),
		)
	}
	s.cache.Invalidate(ctx)

	return &CancelResultDTO{
		Booking:  toBookingDTO(res.Booking),
		Refund:   res.Refund,
		Promoted: toBookingDTOs(res.Promoted),
		Unfunded: toBookingDTOs(res.Unfunded),
	}, nil
}

// UpdateBooking moves one of the customer's bookings to a new stay.
func (s *BookingService) UpdateBooking(ctx context.Context, email string, bookingID uuid.UUID, req UpdateBookingRequest) (*BookingDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	bk, err := s.engine.Update(email, bookingID, req.StartDate, req.Nights, req.PartySize)
	if err != nil {
		return nil, err
	}

	s.updateBooking(ctx, bk)
	s.persistBalance(ctx, bk.CustomerEmail())
	s.cache.Invalidate(ctx)
	s.publishEvent(ctx, TopicBookingEvents, BookingUpdated, bk.ID().String(), newBookingEvent(bk))

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBooking returns one of the customer's bookings.
func (s *BookingService) GetBooking(ctx context.Context, email string, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.engine.Booking(bookingID)
	if err != nil {
		return nil, err
	}
	if bk.CustomerEmail() != customer.NormalizeEmail(email) {
		return nil, reservation.ErrNotOwner
	}
	result := toBookingDTO(bk)
	return &result, nil
}

// ListCustomerBookings returns the customer's booking history.
func (s *BookingService) ListCustomerBookings(ctx context.Context, email string) ([]BookingDTO, error) {
	bks, err := s.engine.ListBookings(email)
	if err != nil {
		return nil, err
	}
	return toBookingDTOs(bks), nil
}

// Recommend ranks the catalog for the customer.
func (s *BookingService) Recommend(ctx context.Context, email string) (*RecommendationDTO, error) {
	email = customer.NormalizeEmail(email)

	var cached RecommendationDTO
	gen, ok := s.cache.Load(ctx, email, &cached)
	if ok {
		return &cached, nil
	}

	res, err := s.engine.Recommend(email)
	if err != nil {
		return nil, err
	}
	result := toRecommendationDTO(email, res)
	s.cache.Store(ctx, gen, email, result)
	return &result, nil
}

// WaitingList returns the queued requests in the order they will be offered capacity.
func (s *BookingService) WaitingList(ctx context.Context) []WaitingEntryDTO {
	entries := s.engine.Waiting()
	out := make([]WaitingEntryDTO, len(entries))
	for i, e := range entries {
		out[i] = toWaitingEntryDTO(e)
	}
	return out
}

// --- Admin methods ---

// ListAllBookings returns a paginated list of persisted bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bks, total, err := s.bookings.ListAll(ctx, page, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	result := domain.NewPaginatedResult(toBookingDTOs(bks), total, page, limit)
	return &result, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
		Waiting:       len(s.engine.Waiting()),
	}, nil
}
