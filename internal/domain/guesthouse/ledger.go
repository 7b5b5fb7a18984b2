package guesthouse

import (
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/calendar"
)

// CanAccommodate reports whether partySize more guests fit on every night of r.
// It is the only admission predicate; callers check it before Reserve.
func (g *Guesthouse) CanAccommodate(r calendar.Range, partySize int) bool {
	for _, d := range r.Dates() {
		if g.occupancy[d]+partySize > g.maxOccupancy {
			return false
		}
	}
	return true
}

// Reserve adds partySize to every night of r. Capacity is not re-checked.
func (g *Guesthouse) Reserve(r calendar.Range, partySize int) {
	for _, d := range r.Dates() {
		g.occupancy[d] += partySize
	}
}

// Release removes partySize from every night of r. Nights that drop to zero are deleted.
func (g *Guesthouse) Release(r calendar.Range, partySize int) {
	for _, d := range r.Dates() {
		left := g.occupancy[d] - partySize
		if left <= 0 {
			delete(g.occupancy, d)
			continue
		}
		g.occupancy[d] = left
	}
}

// Occupied returns the headcount booked for d.
func (g *Guesthouse) Occupied(d calendar.Date) int {
	return g.occupancy[d]
}

// Occupancy returns a copy of the non-empty nights of the ledger.
func (g *Guesthouse) Occupancy() map[calendar.Date]int {
	out := make(map[calendar.Date]int, len(g.occupancy))
	for d, n := range g.occupancy {
		out[d] = n
	}
	return out
}
