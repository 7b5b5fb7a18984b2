package guesthouse

import "github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/calendar"

// OccupancyRate returns booked headcount on d as a percentage of max occupancy.
func (g *Guesthouse) OccupancyRate(d calendar.Date) float64 {
	if g.maxOccupancy == 0 {
		return 0
	}
	return float64(g.occupancy[d]) / float64(g.maxOccupancy) * 100
}

// AggregateOccupancyRate returns the combined rate for d across guesthouses.
func AggregateOccupancyRate(ghs []*Guesthouse, d calendar.Date) float64 {
	var reserved, capacity int
	for _, g := range ghs {
		reserved += g.occupancy[d]
		capacity += g.maxOccupancy
	}
	if capacity == 0 {
		return 0
	}
	return float64(reserved) / float64(capacity) * 100
}
