package customer

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Account holds a customer's prepaid balance. The balance never goes negative.
type Account struct {
	balance decimal.Decimal
}

// NewAccount opens an account with an initial balance.
func NewAccount(initial decimal.Decimal) (Account, error) {
	if initial.IsNegative() {
		return Account{}, fmt.Errorf("initial balance cannot be negative")
	}
	return Account{balance: initial}, nil
}

// Balance returns the current balance.
func (a Account) Balance() decimal.Decimal { return a.balance }

// CanAfford reports whether amount can be debited.
func (a Account) CanAfford(amount decimal.Decimal) bool {
	return a.balance.GreaterThanOrEqual(amount)
}
