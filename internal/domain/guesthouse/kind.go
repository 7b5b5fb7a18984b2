package guesthouse

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind discriminates the guesthouse variants.
type Kind string

const (
	KindStandard Kind = "standard"
	KindMusic    Kind = "music"
	KindPet      Kind = "pet"
	KindParty    Kind = "party"
)

var validKinds = map[Kind]struct{}{
	KindStandard: {},
	KindMusic:    {},
	KindPet:      {},
	KindParty:    {},
}

// IsValid returns true if the kind is recognized.
func (k Kind) IsValid() bool {
	_, ok := validKinds[k]
	return ok
}

func (k Kind) String() string {
	return string(k)
}

// ParseKind converts a case-insensitive name to a Kind. "general" is accepted for standard.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if k == "general" || k == "" {
		return KindStandard, nil
	}
	if !k.IsValid() {
		return "", fmt.Errorf("invalid guesthouse kind: %s", s)
	}
	return k, nil
}

// KindAttributes holds the attributes specific to each kind.
// Only the fields of the owning guesthouse's kind are meaningful; Normalize clears the rest.
type KindAttributes struct {
	// music
	HasInstruments   bool `json:"has_instruments,omitempty"`
	Soundproof       bool `json:"soundproof,omitempty"`
	InstrumentRental bool `json:"instrument_rental,omitempty"`

	// pet
	CareSystemPrice decimal.Decimal `json:"care_system_price"`
	PetType         string          `json:"pet_type,omitempty"`
	EmergencyCare   bool            `json:"emergency_care,omitempty"`

	// party
	MinAge int `json:"min_age,omitempty"`
}

// Normalize returns a copy with every attribute not belonging to kind reset to its zero value.
func (a KindAttributes) Normalize(kind Kind) KindAttributes {
	var out KindAttributes
	switch kind {
	case KindMusic:
		out.HasInstruments = a.HasInstruments
		out.Soundproof = a.Soundproof
		out.InstrumentRental = a.InstrumentRental
	case KindPet:
		out.CareSystemPrice = a.CareSystemPrice
		out.PetType = strings.ToLower(a.PetType)
		out.EmergencyCare = a.EmergencyCare
	case KindParty:
		out.MinAge = a.MinAge
	}
	return out
}

// Validate checks the attributes relevant to kind.
func (a KindAttributes) Validate(kind Kind) error {
	switch kind {
	case KindPet:
		if a.PetType == "" {
			return fmt.Errorf("pet guesthouse requires a pet type")
		}
		if a.CareSystemPrice.IsNegative() {
			return fmt.Errorf("care system price cannot be negative")
		}
	case KindParty:
		if a.MinAge < 0 {
			return fmt.Errorf("minimum age cannot be negative")
		}
	}
	return nil
}
