package guesthouse

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/calendar"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/pkg/domain"
)

// Guesthouse is the aggregate root owning a capacity ledger.
// It is not safe for concurrent use; the reservation engine serializes access.
type Guesthouse struct {
	id            string
	name          string
	kind          Kind
	attrs         KindAttributes
	pricePerNight decimal.Decimal
	maxOccupancy  int
	description   string
	features      []string

	sales     decimal.Decimal
	occupancy map[calendar.Date]int

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// NewGuesthouse creates a guesthouse with an empty ledger.
func NewGuesthouse(
	id, name string,
	kind Kind,
	attrs KindAttributes,
	pricePerNight decimal.Decimal,
	maxOccupancy int,
	description string,
	features []string,
) (*Guesthouse, error) {
	if strings.TrimSpace(id) == "" {
		return nil, domain.NewValidationError("guesthouse ID is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, domain.NewValidationError("guesthouse name is required")
	}
	if !kind.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid guesthouse kind: %s", kind))
	}
	if pricePerNight.IsNegative() {
		return nil, domain.NewValidationError("price per night cannot be negative")
	}
	if maxOccupancy < 0 {
		return nil, domain.NewValidationError("max occupancy cannot be negative")
	}
	if err := attrs.Validate(kind); err != nil {
		return nil, domain.NewValidationError(err.Error())
	}

	now := time.Now().UTC()
	return &Guesthouse{
		id:            id,
		name:          name,
		kind:          kind,
		attrs:         attrs.Normalize(kind),
		pricePerNight: pricePerNight,
		maxOccupancy:  maxOccupancy,
		description:   description,
		features:      dedupeFeatures(features),
		sales:         decimal.Zero,
		occupancy:     make(map[calendar.Date]int),
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// ReconstructGuesthouse rebuilds a Guesthouse from persistence data (no validation).
// The ledger and sales start empty; they are process-lifetime state.
func ReconstructGuesthouse(
	id, name string,
	kind Kind,
	attrs KindAttributes,
	pricePerNight decimal.Decimal,
	maxOccupancy int,
	description string,
	features []string,
	version int64,
	createdAt, updatedAt time.Time,
) *Guesthouse {
	return &Guesthouse{
		id:            id,
		name:          name,
		kind:          kind,
		attrs:         attrs.Normalize(kind),
		pricePerNight: pricePerNight,
		maxOccupancy:  maxOccupancy,
		description:   description,
		features:      dedupeFeatures(features),
		sales:         decimal.Zero,
		occupancy:     make(map[calendar.Date]int),
		version:       version,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
	}
}

// --- Getters ---

func (g *Guesthouse) ID() string                     { return g.id }
func (g *Guesthouse) Name() string                   { return g.name }
func (g *Guesthouse) Kind() Kind                     { return g.kind }
func (g *Guesthouse) Attributes() KindAttributes     { return g.attrs }
func (g *Guesthouse) PricePerNight() decimal.Decimal { return g.pricePerNight }
func (g *Guesthouse) MaxOccupancy() int              { return g.maxOccupancy }
func (g *Guesthouse) Description() string            { return g.description }
func (g *Guesthouse) Sales() decimal.Decimal         { return g.sales }
func (g *Guesthouse) Version() int64                 { return g.version }
func (g *Guesthouse) CreatedAt() time.Time           { return g.createdAt }
func (g *Guesthouse) UpdatedAt() time.Time           { return g.updatedAt }

// Features returns a copy of the feature tags.
func (g *Guesthouse) Features() []string {
	out := make([]string, len(g.features))
	copy(out, g.features)
	return out
}

// HasFeature reports whether name matches a feature tag or the kind, ignoring case.
func (g *Guesthouse) HasFeature(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	if strings.EqualFold(name, string(g.kind)) {
		return true
	}
	for _, f := range g.features {
		if strings.EqualFold(f, name) {
			return true
		}
	}
	return false
}

// ApplyPromotion discounts the nightly price by rate, which must lie in (0, 1).
// Bookings already committed keep the amount they were charged.
func (g *Guesthouse) ApplyPromotion(rate decimal.Decimal) error {
	if !rate.IsPositive() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return domain.NewValidationError("discount rate must be between 0 and 1 (exclusive)")
	}
	g.pricePerNight = g.pricePerNight.Mul(decimal.NewFromInt(1).Sub(rate)).Round(2)
	g.IncrementVersion()
	return nil
}

// AddSales records a committed charge.
func (g *Guesthouse) AddSales(amount decimal.Decimal) {
	g.sales = g.sales.Add(amount)
}

// SubtractSales records a refund.
func (g *Guesthouse) SubtractSales(amount decimal.Decimal) {
	g.sales = g.sales.Sub(amount)
}

// IncrementVersion bumps the version for optimistic locking.
func (g *Guesthouse) IncrementVersion() {
	g.version++
	g.updatedAt = time.Now().UTC()
}

func dedupeFeatures(features []string) []string {
	out := make([]string, 0, len(features))
	seen := make(map[string]struct{}, len(features))
	for _, f := range features {
		f = strings.TrimSpace(f)
		key := strings.ToLower(f)
		if f == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, f)
	}
	return out
}

// Clone returns a deep copy, ledger included.
func (g *Guesthouse) Clone() *Guesthouse {
	c := *g
	c.features = g.Features()
	c.occupancy = g.Occupancy()
	return &c
}
