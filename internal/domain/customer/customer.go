package customer

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/booking"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/pkg/domain"
)

// ErrInsufficientFunds is returned when a debit exceeds the balance.
var ErrInsufficientFunds = domain.NewError(domain.KindUnprocessable, "INSUFFICIENT_FUNDS", "insufficient funds")

// Customer is the aggregate root for a guest, owning an account and a booking history.
type Customer struct {
	email    string
	name     string
	account  Account
	bookings []*booking.Booking

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewCustomer creates a customer with an opening balance.
func NewCustomer(name, email string, balance decimal.Decimal) (*Customer, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.NewValidationError("customer name is required")
	}
	if !strings.Contains(email, "@") {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid email: %s", email))
	}
	acct, err := NewAccount(balance)
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	now := time.Now().UTC()
	return &Customer{
		email:     NormalizeEmail(email),
		name:      strings.TrimSpace(name),
		account:   acct,
		version:   1,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// Reconstruct rebuilds a Customer from persistence data (no validation).
// Booking history is attached separately.
func Reconstruct(
	name, email string,
	balance decimal.Decimal,
	version int64,
	createdAt, updatedAt time.Time,
) *Customer {
	return &Customer{
		email:     NormalizeEmail(email),
		name:      name,
		account:   Account{balance: balance},
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

// NormalizeEmail lowercases and trims an email so it can be used as a key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// --- Getters ---

func (c *Customer) Email() string            { return c.email }
func (c *Customer) Name() string             { return c.name }
func (c *Customer) Account() Account         { return c.account }
func (c *Customer) Balance() decimal.Decimal { return c.account.balance }
func (c *Customer) Version() int64           { return c.version }
func (c *Customer) CreatedAt() time.Time     { return c.createdAt }
func (c *Customer) UpdatedAt() time.Time     { return c.updatedAt }

// Bookings returns the booking history in insertion order.
func (c *Customer) Bookings() []*booking.Booking {
	out := make([]*booking.Booking, len(c.bookings))
	copy(out, c.bookings)
	return out
}

// HasHistory reports whether the customer ever committed a booking.
func (c *Customer) HasHistory() bool {
	return len(c.bookings) > 0
}

// FindBooking returns the booking with id from this customer's history.
func (c *Customer) FindBooking(id uuid.UUID) (*booking.Booking, bool) {
	for _, bk := range c.bookings {
		if bk.ID() == id {
			return bk, true
		}
	}
	return nil, false
}

// --- Behavior ---

// Debit withdraws amount, refusing to overdraw.
func (c *Customer) Debit(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return domain.NewValidationError("debit amount cannot be negative")
	}
	if !c.account.CanAfford(amount) {
		return ErrInsufficientFunds.Withf("insufficient funds: balance %s, required %s",
			c.account.balance.StringFixed(2), amount.StringFixed(2))
	}
	c.account.balance = c.account.balance.Sub(amount)
	return nil
}

// Credit deposits amount.
func (c *Customer) Credit(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return domain.NewValidationError("credit amount cannot be negative")
	}
	c.account.balance = c.account.balance.Add(amount)
	return nil
}

// AddBooking appends a committed booking to the history.
func (c *Customer) AddBooking(bk *booking.Booking) {
	c.bookings = append(c.bookings, bk)
}

// Clone returns a copy whose history holds cloned bookings.
func (c *Customer) Clone() *Customer {
	out := *c
	out.bookings = make([]*booking.Booking, len(c.bookings))
	for i, bk := range c.bookings {
		out.bookings[i] = bk.Clone()
	}
	return &out
}
