package waitlist

import (
	"container/heap"
	"time"

	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/booking"
)

// Request is a deferred booking waiting for capacity.
type Request struct {
	CustomerEmail string
	Booking       *booking.Booking
	RequestedAt   time.Time
	seq           uint64
}

// Seq returns the insertion sequence, used to break timestamp ties.
func (r Request) Seq() uint64 { return r.seq }

func (r Request) before(other Request) bool {
	if !r.RequestedAt.Equal(other.RequestedAt) {
		return r.RequestedAt.Before(other.RequestedAt)
	}
	return r.seq < other.seq
}

type requestHeap []Request

func (h requestHeap) Len() int           { return len(h) }
func (h requestHeap) Less(i, j int) bool { return h[i].before(h[j]) }
func (h requestHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *requestHeap) Push(x any)        { *h = append(*h, x.(Request)) }
func (h *requestHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// Queue orders requests earliest first. It is not safe for concurrent use.
type Queue struct {
	items requestHeap
	seq   uint64
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue adds a pending booking requested at the given time.
func (q *Queue) Enqueue(customerEmail string, bk *booking.Booking, at time.Time) Request {
	q.seq++
	req := Request{
		CustomerEmail: customerEmail,
		Booking:       bk,
		RequestedAt:   at,
		seq:           q.seq,
	}
	heap.Push(&q.items, req)
	return req
}

// Len returns the number of waiting requests.
func (q *Queue) Len() int {
	return q.items.Len()
}

// Snapshot returns the waiting requests in priority order without removing them.
func (q *Queue) Snapshot() []Request {
	tmp := make(requestHeap, len(q.items))
	copy(tmp, q.items)
	out := make([]Request, 0, len(tmp))
	for tmp.Len() > 0 {
		out = append(out, heap.Pop(&tmp).(Request))
	}
	return out
}

// Sweep offers every request to promote in priority order, once each.
// Requests for which promote returns true are removed and returned in the order they were promoted;
// the rest stay queued with their original priority.
func (q *Queue) Sweep(promote func(Request) bool) []Request {
	ordered := q.Snapshot()
	var promoted []Request
	remaining := make(requestHeap, 0, len(ordered))
	for _, req := range ordered {
		if promote(req) {
			promoted = append(promoted, req)
			continue
		}
		remaining = append(remaining, req)
	}
	heap.Init(&remaining)
	q.items = remaining
	return promoted
}
