package application

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/booking"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/calendar"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/customer"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/guesthouse"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/recommend"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/reservation"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/pkg/domain"
)

// CreateBookingRequest holds the data needed to book a stay.
type CreateBookingRequest struct {
	GuesthouseID string        `json:"guesthouse_id" binding:"required"`
	StartDate    calendar.Date `json:"start_date"`
	Nights       int           `json:"nights" binding:"required,min=1,max=365"`
	PartySize    int           `json:"party_size" binding:"required,min=1"`
}

// UpdateBookingRequest holds the new stay for an existing booking.
type UpdateBookingRequest struct {
	StartDate calendar.Date `json:"start_date"`
	Nights    int           `json:"nights" binding:"required,min=1,max=365"`
	PartySize int           `json:"party_size" binding:"required,min=1"`
}

// PromotionRequest discounts a guesthouse's nightly price.
type PromotionRequest struct {
	Rate decimal.Decimal `json:"rate"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID            *uuid.UUID      `json:"id,omitempty"`
	GuesthouseID  string          `json:"guesthouse_id"`
	CustomerEmail string          `json:"customer_email"`
	StartDate     calendar.Date   `json:"start_date"`
	EndDate       calendar.Date   `json:"end_date"`
	Nights        int             `json:"nights"`
	PartySize     int             `json:"party_size"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Currency      string          `json:"currency"`
	Status        string          `json:"status"`
	RequestedAt   time.Time       `json:"requested_at"`
	CommittedAt   *time.Time      `json:"committed_at,omitempty"`
	CancelledAt   *time.Time      `json:"cancelled_at,omitempty"`
	Version       int64           `json:"version"`
}

// CancelResultDTO reports a cancellation and the waiting-list promotions it caused.
type CancelResultDTO struct {
	Booking  BookingDTO      `json:"booking"`
	Refund   decimal.Decimal `json:"refund"`
	Promoted []BookingDTO    `json:"promoted"`
	Unfunded []BookingDTO    `json:"unfunded,omitempty"`
}

// GuesthouseDTO is the response representation of a catalog entry.
type GuesthouseDTO struct {
	ID            string                    `json:"id"`
	Name          string                    `json:"name"`
	Kind          string                    `json:"kind"`
	Attributes    guesthouse.KindAttributes `json:"attributes"`
	PricePerNight decimal.Decimal           `json:"price_per_night"`
	MaxOccupancy  int                       `json:"max_occupancy"`
	Description   string                    `json:"description,omitempty"`
	Features      []string                  `json:"features"`
	Sales         decimal.Decimal           `json:"sales"`
	Currency      string                    `json:"currency"`
}

// CustomerDTO is the response representation of a customer.
type CustomerDTO struct {
	Email        string          `json:"email"`
	Name         string          `json:"name"`
	Balance      decimal.Decimal `json:"balance"`
	Currency     string          `json:"currency"`
	BookingCount int             `json:"booking_count"`
}

// RecommendationItemDTO is one ranked guesthouse.
type RecommendationItemDTO struct {
	Guesthouse   GuesthouseDTO   `json:"guesthouse"`
	Weight       decimal.Decimal `json:"weight"`
	BookingCount int             `json:"booking_count"`
}

// RecommendationDTO is an ordered recommendation for a customer.
type RecommendationDTO struct {
	CustomerEmail string                  `json:"customer_email"`
	Personalized  bool                    `json:"personalized"`
	Items         []RecommendationItemDTO `json:"items"`
}

// OccupancyDTO reports a booked percentage on a date.
type OccupancyDTO struct {
	GuesthouseID string        `json:"guesthouse_id,omitempty"`
	Date         calendar.Date `json:"date"`
	Rate         float64       `json:"rate"`
}

// FeatureDTO answers a feature lookup.
type FeatureDTO struct {
	GuesthouseID string `json:"guesthouse_id"`
	Feature      string `json:"feature"`
	Present      bool   `json:"present"`
}

// WaitingEntryDTO is one queued request.
type WaitingEntryDTO struct {
	Position    int        `json:"position"`
	RequestedAt time.Time  `json:"requested_at"`
	Booking     BookingDTO `json:"booking"`
}

// RevenueDTO is one guesthouse's revenue for a month.
type RevenueDTO struct {
	GuesthouseID   string          `json:"guesthouse_id"`
	GuesthouseName string          `json:"guesthouse_name"`
	Revenue        decimal.Decimal `json:"revenue"`
	Bookings       int             `json:"bookings"`
	Currency       string          `json:"currency"`
}

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
	Waiting       int              `json:"waiting"`
}

// --- Converters ---

func toBookingDTO(bk *booking.Booking) BookingDTO {
	dto := BookingDTO{
		GuesthouseID:  bk.GuesthouseID(),
		CustomerEmail: bk.CustomerEmail(),
		StartDate:     bk.StartDate(),
		EndDate:       bk.EndDate(),
		Nights:        bk.Nights(),
		PartySize:     bk.PartySize(),
		TotalAmount:   bk.TotalAmount(),
		Currency:      domain.CurrencyKRW,
		Status:        string(bk.Status()),
		RequestedAt:   bk.RequestedAt(),
		CommittedAt:   bk.CommittedAt(),
		CancelledAt:   bk.CancelledAt(),
		Version:       bk.Version(),
	}
	if id := bk.ID(); id != uuid.Nil {
		dto.ID = &id
	}
	return dto
}

func toBookingDTOs(bks []*booking.Booking) []BookingDTO {
	out := make([]BookingDTO, len(bks))
	for i, bk := range bks {
		out[i] = toBookingDTO(bk)
	}
	return out
}

func toGuesthouseDTO(gh *guesthouse.Guesthouse) GuesthouseDTO {
	return GuesthouseDTO{
		ID:            gh.ID(),
		Name:          gh.Name(),
		Kind:          string(gh.Kind()),
		Attributes:    gh.Attributes(),
		PricePerNight: gh.PricePerNight(),
		MaxOccupancy:  gh.MaxOccupancy(),
		Description:   gh.Description(),
		Features:      gh.Features(),
		Sales:         gh.Sales(),
		Currency:      domain.CurrencyKRW,
	}
}

func toCustomerDTO(c *customer.Customer) CustomerDTO {
	return CustomerDTO{
		Email:        c.Email(),
		Name:         c.Name(),
		Balance:      c.Balance(),
		Currency:     domain.CurrencyKRW,
		BookingCount: len(c.Bookings()),
	}
}

func toRecommendationDTO(email string, res recommend.Result) RecommendationDTO {
	items := make([]RecommendationItemDTO, len(res.Items))
	for i, it := range res.Items {
		items[i] = RecommendationItemDTO{
			Guesthouse:   toGuesthouseDTO(it.Guesthouse),
			Weight:       it.Weight,
			BookingCount: it.BookingCount,
		}
	}
	return RecommendationDTO{CustomerEmail: email, Personalized: res.Personalized, Items: items}
}

func toWaitingEntryDTO(w reservation.WaitingEntry) WaitingEntryDTO {
	return WaitingEntryDTO{Position: w.Position, RequestedAt: w.RequestedAt, Booking: toBookingDTO(w.Booking)}
}

func toRevenueDTO(line reservation.RevenueLine) RevenueDTO {
	return RevenueDTO{
		GuesthouseID:   line.GuesthouseID,
		GuesthouseName: line.GuesthouseName,
		Revenue:        line.Revenue,
		Bookings:       line.Bookings,
		Currency:       domain.CurrencyKRW,
	}
}
