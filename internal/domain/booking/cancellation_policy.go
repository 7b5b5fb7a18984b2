package booking

import (
	"github.com/shopspring/decimal"

	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/calendar"
)

// CancellationPolicy decides whether a booking may still be cancelled and how much is refunded.
type CancellationPolicy struct {
	// RefundRate is the share of the charged amount returned on cancellation.
	RefundRate decimal.Decimal
	// CutoffDays: cancelling requires today < check-in minus CutoffDays.
	CutoffDays int
}

// DefaultCancellationPolicy refunds half and closes two days before check-in.
func DefaultCancellationPolicy() CancellationPolicy {
	return CancellationPolicy{
		RefundRate: decimal.RequireFromString("0.5"),
		CutoffDays: 2,
	}
}

// CanCancel reports whether a booking checking in on checkIn may be cancelled on today.
func (p CancellationPolicy) CanCancel(today, checkIn calendar.Date) bool {
	return today.Before(checkIn.AddDays(-p.CutoffDays))
}

// Refund returns the amount credited back for a booking charged total.
func (p CancellationPolicy) Refund(total decimal.Decimal) decimal.Decimal {
	return total.Mul(p.RefundRate)
}
