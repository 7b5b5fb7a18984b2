package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	customerDomain "github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/customer"
	ghDomain "github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/guesthouse"
)

type seedGuesthouse struct {
	id, name    string
	kind        ghDomain.Kind
	attrs       ghDomain.KindAttributes
	price       int64
	max         int
	description string
	features    []string
}

type seedCustomer struct {
	name, email string
	balance     int64
}

var defaultGuesthouses = []seedGuesthouse{
	{
		id: "GH001", name: "Music Zone Studio", kind: ghDomain.KindMusic,
		attrs:       ghDomain.KindAttributes{HasInstruments: true, Soundproof: true, InstrumentRental: true},
		price:       100, max: 5,
		description: "Fully soundproofed, drums and guitars on site",
		features:    []string{"soundproof", "instruments"},
	},
	{
		id: "GH002", name: "Pet Palace Dog House", kind: ghDomain.KindPet,
		attrs:       ghDomain.KindAttributes{PetType: "dog", CareSystemPrice: decimal.NewFromInt(30), EmergencyCare: true},
		price:       80, max: 3,
		description: "Medium-sized dogs only, emergency care available",
		features:    []string{"dog", "emergency-care"},
	},
	{
		id: "GH003", name: "Pet Palace Cat House", kind: ghDomain.KindPet,
		attrs:       ghDomain.KindAttributes{PetType: "cat", CareSystemPrice: decimal.NewFromInt(25)},
		price:       75, max: 2,
		description: "Cats only, quiet indoor rooms",
		features:    []string{"cat", "quiet"},
	},
	{
		id: "GH004", name: "Party Zone Rooftop", kind: ghDomain.KindParty,
		attrs:       ghDomain.KindAttributes{MinAge: 19},
		price:       150, max: 10,
		description: "Rooftop party space with a DJ booth",
		features:    []string{"rooftop", "dj-booth"},
	},
	{
		id: "GH005", name: "Standard Guesthouse", kind: ghDomain.KindStandard,
		price: 50, max: 4,
		description: "Affordable and clean",
	},
}

var defaultCustomers = []seedCustomer{
	{name: "Hong Gildong", email: "hong@naver.com", balance: 1000},
	{name: "Kim Cheolsu", email: "kim@naver.com", balance: 800},
	{name: "Lee Younghee", email: "lee@naver.com", balance: 1200},
}

// SeedDefaults fills an empty catalog and an empty customer table with the demo data.
// Tables that already hold rows are left untouched.
func SeedDefaults(
	ctx context.Context,
	guesthouses ghDomain.GuesthouseRepository,
	customers customerDomain.CustomerRepository,
	logger *zap.Logger,
) error {
	n, err := guesthouses.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count guesthouses: %w", err)
	}
	if n == 0 {
		for _, s := range defaultGuesthouses {
			gh, err := ghDomain.NewGuesthouse(s.id, s.name, s.kind, s.attrs,
				decimal.NewFromInt(s.price), s.max, s.description, s.features)
			if err != nil {
				return fmt.Errorf("invalid seed guesthouse %s: %w", s.id, err)
			}
			if err := guesthouses.Save(ctx, gh); err != nil {
				return fmt.Errorf("failed to seed guesthouse %s: %w", s.id, err)
			}
		}
		logger.Info("seeded guesthouse catalog", zap.Int("count", len(defaultGuesthouses)))
	}

	n, err = customers.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count customers: %w", err)
	}
	if n == 0 {
		for _, s := range defaultCustomers {
			c, err := customerDomain.NewCustomer(s.name, s.email, decimal.NewFromInt(s.balance))
			if err != nil {
				return fmt.Errorf("invalid seed customer %s: %w", s.email, err)
			}
			if err := customers.Save(ctx, c); err != nil {
				return fmt.Errorf("failed to seed customer %s: %w", s.email, err)
			}
		}
		logger.Info("seeded customers", zap.Int("count", len(defaultCustomers)))
	}
	return nil
}
