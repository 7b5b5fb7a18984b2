package application

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/booking"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/customer"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/guesthouse"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/pkg/kafka"
)

type mockBookingRepo struct{ mock.Mock }

func (m *mockBookingRepo) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	args := m.Called(ctx, id)
	bk, _ := args.Get(0).(*booking.Booking)
	return bk, args.Error(1)
}

func (m *mockBookingRepo) FindByCustomer(ctx context.Context, email string) ([]*booking.Booking, error) {
	args := m.Called(ctx, email)
	bks, _ := args.Get(0).([]*booking.Booking)
	return bks, args.Error(1)
}

func (m *mockBookingRepo) FindByGuesthouse(ctx context.Context, id string) ([]*booking.Booking, error) {
	args := m.Called(ctx, id)
	bks, _ := args.Get(0).([]*booking.Booking)
	return bks, args.Error(1)
}

func (m *mockBookingRepo) LoadAll(ctx context.Context) ([]*booking.Booking, error) {
	args := m.Called(ctx)
	bks, _ := args.Get(0).([]*booking.Booking)
	return bks, args.Error(1)
}

func (m *mockBookingRepo) ListAll(ctx context.Context, page, limit int) ([]*booking.Booking, int64, error) {
	args := m.Called(ctx, page, limit)
	bks, _ := args.Get(0).([]*booking.Booking)
	return bks, args.Get(1).(int64), args.Error(2)
}

func (m *mockBookingRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	args := m.Called(ctx)
	counts, _ := args.Get(0).(map[string]int64)
	return counts, args.Error(1)
}

func (m *mockBookingRepo) Save(ctx context.Context, bk *booking.Booking) error {
	return m.Called(ctx, bk).Error(0)
}

func (m *mockBookingRepo) Update(ctx context.Context, bk *booking.Booking) error {
	return m.Called(ctx, bk).Error(0)
}

type mockCustomerRepo struct{ mock.Mock }

func (m *mockCustomerRepo) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	args := m.Called(ctx, email)
	c, _ := args.Get(0).(*customer.Customer)
	return c, args.Error(1)
}

func (m *mockCustomerRepo) FindByName(ctx context.Context, name string) (*customer.Customer, error) {
	args := m.Called(ctx, name)
	c, _ := args.Get(0).(*customer.Customer)
	return c, args.Error(1)
}

func (m *mockCustomerRepo) ListAll(ctx context.Context) ([]*customer.Customer, error) {
	args := m.Called(ctx)
	cs, _ := args.Get(0).([]*customer.Customer)
	return cs, args.Error(1)
}

func (m *mockCustomerRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCustomerRepo) Save(ctx context.Context, c *customer.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCustomerRepo) UpdateBalance(ctx context.Context, c *customer.Customer) error {
	return m.Called(ctx, c).Error(0)
}

type mockGuesthouseRepo struct{ mock.Mock }

func (m *mockGuesthouseRepo) FindByID(ctx context.Context, id string) (*guesthouse.Guesthouse, error) {
	args := m.Called(ctx, id)
	gh, _ := args.Get(0).(*guesthouse.Guesthouse)
	return gh, args.Error(1)
}

func (m *mockGuesthouseRepo) ListAll(ctx context.Context) ([]*guesthouse.Guesthouse, error) {
	args := m.Called(ctx)
	ghs, _ := args.Get(0).([]*guesthouse.Guesthouse)
	return ghs, args.Error(1)
}

func (m *mockGuesthouseRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockGuesthouseRepo) Save(ctx context.Context, gh *guesthouse.Guesthouse) error {
	return m.Called(ctx, gh).Error(0)
}

func (m *mockGuesthouseRepo) Update(ctx context.Context, gh *guesthouse.Guesthouse) error {
	return m.Called(ctx, gh).Error(0)
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []kafka.CloudEvent
}

func (p *recordingPublisher) PublishEvent(_ context.Context, _ string, e kafka.CloudEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

// memCache is an in-memory RecommendationCache with a generation counter.
type memCache struct {
	gen         int64
	entries     map[string]memEntry
	invalidated int
	// beforeStore runs at the start of Store, between the ranking and the write.
	beforeStore func()
}

type memEntry struct {
	gen int64
	raw []byte
}

func newMemCache() *memCache { return &memCache{entries: map[string]memEntry{}} }

func (c *memCache) Load(_ context.Context, email string, dst any) (int64, bool) {
	e, ok := c.entries[email]
	if !ok || e.gen != c.gen {
		return c.gen, false
	}
	return c.gen, json.Unmarshal(e.raw, dst) == nil
}

func (c *memCache) Store(_ context.Context, gen int64, email string, v any) {
	if hook := c.beforeStore; hook != nil {
		c.beforeStore = nil
		hook()
	}
	raw, err := json.Marshal(v)
	if err == nil {
		c.entries[email] = memEntry{gen: gen, raw: raw}
	}
}

func (c *memCache) Invalidate(context.Context) {
	c.gen++
	c.invalidated++
}
