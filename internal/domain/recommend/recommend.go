package recommend

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/booking"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/guesthouse"
)

var (
	// SalesWeight scales a guesthouse's cumulative sales.
	SalesWeight = decimal.RequireFromString("0.4")
	// BookingCountWeight scales how often the customer booked the guesthouse.
	BookingCountWeight = decimal.RequireFromString("0.6")
)

// DefaultLimit is the number of ranked guesthouses returned when no limit is configured.
const DefaultLimit = 5

// Ranked is one entry of a recommendation.
type Ranked struct {
	Guesthouse   *guesthouse.Guesthouse
	Weight       decimal.Decimal
	BookingCount int
}

// Result is an ordered recommendation. Personalized is false when the customer had no history
// and the guesthouses are returned in their input order.
type Result struct {
	Items        []Ranked
	Personalized bool
}

// Weight computes sales x 0.4 + bookingCount x 0.6.
func Weight(sales decimal.Decimal, bookingCount int) decimal.Decimal {
	return sales.Mul(SalesWeight).Add(decimal.NewFromInt(int64(bookingCount)).Mul(BookingCountWeight))
}

// Rank orders guesthouses for a customer with the given booking history.
// Cancelled bookings still count. Ties keep input order. A limit <= 0 returns every guesthouse.
func Rank(ghs []*guesthouse.Guesthouse, history []*booking.Booking, limit int) Result {
	if len(history) == 0 {
		items := make([]Ranked, len(ghs))
		for i, gh := range ghs {
			items[i] = Ranked{Guesthouse: gh, Weight: decimal.Zero}
		}
		return Result{Items: items, Personalized: false}
	}

	counts := make(map[string]int, len(ghs))
	for _, bk := range history {
		counts[bk.GuesthouseID()]++
	}

	items := make([]Ranked, len(ghs))
	for i, gh := range ghs {
		n := counts[gh.ID()]
		items[i] = Ranked{
			Guesthouse:   gh,
			Weight:       Weight(gh.Sales(), n),
			BookingCount: n,
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Weight.GreaterThan(items[j].Weight)
	})

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return Result{Items: items, Personalized: true}
}
