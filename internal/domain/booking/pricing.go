package booking

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PricingStrategy defines the interface for calculating booking totals.
type PricingStrategy interface {
	// Calculate returns the amount to charge for the given parameters.
	Calculate(params PricingParams) (decimal.Decimal, error)
}

// PricingParams holds the inputs for price calculation.
type PricingParams struct {
	PricePerNight decimal.Decimal
	Nights        int
	PartySize     int
}

// StandardPricingStrategy charges per guest per night.
type StandardPricingStrategy struct{}

// NewStandardPricingStrategy creates a new StandardPricingStrategy.
func NewStandardPricingStrategy() *StandardPricingStrategy {
	return &StandardPricingStrategy{}
}

// Calculate computes price-per-night x nights x party size.
func (s *StandardPricingStrategy) Calculate(params PricingParams) (decimal.Decimal, error) {
	if params.PricePerNight.IsNegative() {
		return decimal.Zero, fmt.Errorf("price per night cannot be negative")
	}
	if params.Nights < 1 {
		return decimal.Zero, fmt.Errorf("nights must be at least 1")
	}
	if params.PartySize < 1 {
		return decimal.Zero, fmt.Errorf("party size must be at least 1")
	}
	return params.PricePerNight.
		Mul(decimal.NewFromInt(int64(params.Nights))).
		Mul(decimal.NewFromInt(int64(params.PartySize))), nil
}
