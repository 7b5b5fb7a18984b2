package waitlist

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/booking"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/calendar"
)

var base = time.Date(2025, time.April, 1, 12, 0, 0, 0, time.UTC)

func pending(t *testing.T, email string) *booking.Booking {
	t.Helper()
	bk, err := booking.NewBooking("GH001", email, calendar.NewDate(2025, time.May, 1), 1, 1, decimal.NewFromInt(100), base)
	require.NoError(t, err)
	return bk
}

func emails(reqs []Request) []string {
	out := make([]string, len(reqs))
	for i, r := range reqs {
		out[i] = r.CustomerEmail
	}
	return out
}

func TestQueue_OrdersByTimestampThenInsertion(t *testing.T) {
	q := NewQueue()
	q.Enqueue("late@x.io", pending(t, "late@x.io"), base.Add(2*time.Second))
	q.Enqueue("tie-a@x.io", pending(t, "tie-a@x.io"), base)
	q.Enqueue("tie-b@x.io", pending(t, "tie-b@x.io"), base)
	q.Enqueue("early@x.io", pending(t, "early@x.io"), base.Add(-time.Second))

	assert.Equal(t, 4, q.Len())
	assert.Equal(t, []string{"early@x.io", "tie-a@x.io", "tie-b@x.io", "late@x.io"}, emails(q.Snapshot()))
	assert.Equal(t, 4, q.Len(), "snapshot must not drain the queue")
}

func TestQueue_SweepPromotesAllSatisfiable(t *testing.T) {
	q := NewQueue()
	q.Enqueue("a@x.io", pending(t, "a@x.io"), base)
	q.Enqueue("b@x.io", pending(t, "b@x.io"), base.Add(time.Second))
	q.Enqueue("c@x.io", pending(t, "c@x.io"), base.Add(2*time.Second))

	var visited []string
	promoted := q.Sweep(func(r Request) bool {
		visited = append(visited, r.CustomerEmail)
		return r.CustomerEmail != "b@x.io"
	})

	assert.Equal(t, []string{"a@x.io", "b@x.io", "c@x.io"}, visited)
	assert.Equal(t, []string{"a@x.io", "c@x.io"}, emails(promoted))
	assert.Equal(t, []string{"b@x.io"}, emails(q.Snapshot()))
}

func TestQueue_SweepKeepsPriorityOfSurvivors(t *testing.T) {
	q := NewQueue()
	q.Enqueue("a@x.io", pending(t, "a@x.io"), base.Add(3*time.Second))
	q.Enqueue("b@x.io", pending(t, "b@x.io"), base.Add(time.Second))

	assert.Empty(t, q.Sweep(func(Request) bool { return false }))

	q.Enqueue("c@x.io", pending(t, "c@x.io"), base.Add(2*time.Second))
	assert.Equal(t, []string{"b@x.io", "c@x.io", "a@x.io"}, emails(q.Snapshot()))
}

func TestQueue_EmptySweep(t *testing.T) {
	q := NewQueue()
	assert.Empty(t, q.Sweep(func(Request) bool { return true }))
	assert.Zero(t, q.Len())
}
