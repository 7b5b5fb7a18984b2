package reservation

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/booking"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/calendar"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/customer"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/guesthouse"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/recommend"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/waitlist"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/pkg/domain"
)

// Clock returns the current time. The calendar date of its result is "today".
type Clock func() time.Time

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides time.Now.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.clock = c }
}

// WithPricing overrides the standard per-guest-per-night pricing.
func WithPricing(p booking.PricingStrategy) Option {
	return func(e *Engine) { e.pricing = p }
}

// WithCancellationPolicy overrides the default 50% / two-day policy.
func WithCancellationPolicy(p booking.CancellationPolicy) Option {
	return func(e *Engine) { e.policy = p }
}

// WithRecommendationLimit caps ranked recommendations; 0 returns the full list.
func WithRecommendationLimit(n int) Option {
	return func(e *Engine) { e.recommendLimit = n }
}

// WithIDGenerator overrides uuid.New for booking identifiers.
func WithIDGenerator(f func() uuid.UUID) Option {
	return func(e *Engine) { e.newID = f }
}

// Engine owns every guesthouse ledger, customer account, booking and the waiting list.
// All operations run under one mutex, so a check and the mutation it guards are never
// interleaved with another operation, and a waiting-list re-scan completes before the next
// operation starts.
type Engine struct {
	mu sync.Mutex

	guesthouses map[string]*guesthouse.Guesthouse
	ghOrder     []string
	customers   map[string]*customer.Customer
	bookings    map[uuid.UUID]*booking.Booking
	history     []*booking.Booking
	waiting     *waitlist.Queue

	pricing        booking.PricingStrategy
	policy         booking.CancellationPolicy
	clock          Clock
	newID          func() uuid.UUID
	recommendLimit int
}

// NewEngine creates an empty engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		guesthouses:    make(map[string]*guesthouse.Guesthouse),
		customers:      make(map[string]*customer.Customer),
		bookings:       make(map[uuid.UUID]*booking.Booking),
		waiting:        waitlist.NewQueue(),
		pricing:        booking.NewStandardPricingStrategy(),
		policy:         booking.DefaultCancellationPolicy(),
		clock:          time.Now,
		newID:          uuid.New,
		recommendLimit: recommend.DefaultLimit,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CancelResult describes a successful cancellation and the re-scan it triggered.
type CancelResult struct {
	Booking  *booking.Booking
	Refund   decimal.Decimal
	Promoted []*booking.Booking
	// Unfunded lists queued requests that fit after the cancellation but could not be paid for.
	// They remain queued.
	Unfunded []*booking.Booking
}

// RevenueLine is one guesthouse's revenue for a month.
type RevenueLine struct {
	GuesthouseID   string
	GuesthouseName string
	Revenue        decimal.Decimal
	Bookings       int
}

// WaitingEntry is a snapshot of a queued request.
type WaitingEntry struct {
	Booking     *booking.Booking
	RequestedAt time.Time
	Position    int
}

// --- Registration ---

// RegisterGuesthouse adds a guesthouse to the catalog. Catalog order is registration order.
func (e *Engine) RegisterGuesthouse(gh *guesthouse.Guesthouse) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.guesthouses[gh.ID()]; ok {
		return ErrDuplicate.Withf("guesthouse %s already registered", gh.ID())
	}
	e.guesthouses[gh.ID()] = gh
	e.ghOrder = append(e.ghOrder, gh.ID())
	return nil
}

// RegisterCustomer adds a customer.
func (e *Engine) RegisterCustomer(c *customer.Customer) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.customers[c.Email()]; ok {
		return ErrDuplicate.Withf("customer %s already registered", c.Email())
	}
	e.customers[c.Email()] = c
	return nil
}

// Restore loads a persisted booking. Active bookings re-reserve their nights; sales and
// balances are not touched. A booking that would overfill its guesthouse is rejected.
func (e *Engine) Restore(bk *booking.Booking) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if bk.Status() != booking.StatusCommitted && bk.Status() != booking.StatusCancelled {
		return domain.NewInvalidStateError(string(bk.Status()), "restored")
	}
	if bk.Nights() < 1 || bk.Nights() > booking.MaxNights {
		return domain.NewValidationError(fmt.Sprintf("booking %s spans %d nights", bk.ID(), bk.Nights()))
	}
	if _, ok := e.bookings[bk.ID()]; ok {
		return ErrDuplicate.Withf("booking %s already restored", bk.ID())
	}
	c, err := e.customerLocked(bk.CustomerEmail())
	if err != nil {
		return err
	}
	gh, err := e.guesthouseLocked(bk.GuesthouseID())
	if err != nil {
		return err
	}

	if bk.IsActive() {
		if !gh.CanAccommodate(bk.Stay(), bk.PartySize()) {
			return ErrCapacityUnavailable.Withf("booking %s does not fit guesthouse %s", bk.ID(), gh.ID())
		}
		gh.Reserve(bk.Stay(), bk.PartySize())
	}
	e.bookings[bk.ID()] = bk
	e.history = append(e.history, bk)
	c.AddBooking(bk)
	return nil
}

// --- Lifecycle ---

// Create books a stay. When the dates are full the request is queued and returned with
// status queued and no identifier; nothing is charged.
func (e *Engine) Create(email, guesthouseID string, start calendar.Date, nights, partySize int) (*booking.Booking, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.customerLocked(email)
	if err != nil {
		return nil, err
	}
	gh, err := e.guesthouseLocked(guesthouseID)
	if err != nil {
		return nil, err
	}

	now := e.clock()
	quote, err := e.pricing.Calculate(booking.PricingParams{
		PricePerNight: gh.PricePerNight(),
		Nights:        nights,
		PartySize:     partySize,
	})
	if err != nil {
		return nil, domain.NewValidationError(err.Error())
	}
	bk, err := booking.NewBooking(gh.ID(), c.Email(), start, nights, partySize, quote, now)
	if err != nil {
		return nil, err
	}

	if partySize > gh.MaxOccupancy() {
		return nil, ErrCapacityExceeded.Withf("party of %d exceeds max occupancy %d of guesthouse %s",
			partySize, gh.MaxOccupancy(), gh.ID())
	}

	if !gh.CanAccommodate(bk.Stay(), partySize) {
		if err := bk.Queue(now); err != nil {
			return nil, err
		}
		e.waiting.Enqueue(c.Email(), bk, now)
		return bk.Clone(), nil
	}

	if err := e.commitLocked(c, gh, bk, now); err != nil {
		return nil, err
	}
	return bk.Clone(), nil
}

// Cancel cancels a committed booking, refunds part of its amount and promotes every queued
// request that now fits.
func (e *Engine) Cancel(email string, bookingID uuid.UUID) (*CancelResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.customerLocked(email)
	if err != nil {
		return nil, err
	}
	bk, ok := e.bookings[bookingID]
	if !ok {
		return nil, ErrBookingNotFound.Withf("booking not found: %s", bookingID)
	}
	if bk.CustomerEmail() != c.Email() {
		return nil, ErrNotOwner
	}
	if bk.IsCancelled() {
		return nil, ErrAlreadyCancelled.Withf("booking %s is already cancelled", bookingID)
	}

	now := e.clock()
	if !e.policy.CanCancel(calendar.DateOf(now), bk.StartDate()) {
		return nil, ErrCancellationWindowClosed.Withf("booking %s checks in on %s; cancellation closed on %s",
			bookingID, bk.StartDate(), bk.StartDate().AddDays(-e.policy.CutoffDays))
	}
	gh, err := e.guesthouseLocked(bk.GuesthouseID())
	if err != nil {
		return nil, err
	}

	refund := e.policy.Refund(bk.TotalAmount())
	if err := c.Credit(refund); err != nil {
		return nil, err
	}
	if err := bk.Cancel(now); err != nil {
		_ = c.Debit(refund)
		return nil, err
	}
	bk.IncrementVersion()
	gh.SubtractSales(refund)
	gh.Release(bk.Stay(), bk.PartySize())

	result := &CancelResult{Booking: bk.Clone(), Refund: refund}
	result.Promoted, result.Unfunded = e.rescanLocked()
	return result, nil
}

// Update moves a committed booking to new dates or party size as one transaction.
// On any failure the booking, the account and the ledger are left exactly as they were.
func (e *Engine) Update(email string, bookingID uuid.UUID, start calendar.Date, nights, partySize int) (*booking.Booking, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.customerLocked(email)
	if err != nil {
		return nil, err
	}
	owned, ok := c.FindBooking(bookingID)
	if !ok {
		return nil, ErrBookingNotFound.Withf("booking not found: %s", bookingID)
	}
	if owned.IsCancelled() {
		return nil, ErrAlreadyCancelled.Withf("booking %s is already cancelled", bookingID)
	}
	bk, ok := e.bookings[bookingID]
	if !ok {
		return nil, ErrBookingNotFound.Withf("booking not found: %s", bookingID)
	}
	gh, err := e.guesthouseLocked(bk.GuesthouseID())
	if err != nil {
		return nil, err
	}

	if start.IsZero() {
		return nil, domain.NewValidationError("start date is required")
	}
	if nights < 1 || partySize < 1 {
		return nil, domain.NewValidationError("nights and party size must be at least 1")
	}
	if nights > booking.MaxNights {
		return nil, domain.NewValidationError(fmt.Sprintf("nights cannot exceed %d", booking.MaxNights))
	}
	if partySize > gh.MaxOccupancy() {
		return nil, ErrCapacityExceeded.Withf("party of %d exceeds max occupancy %d of guesthouse %s",
			partySize, gh.MaxOccupancy(), gh.ID())
	}

	oldTotal := bk.TotalAmount()
	oldStay := bk.Stay()
	oldParty := bk.PartySize()
	newStay := calendar.Range{Start: start, Nights: nights}

	// Provisional reversal of the original booking.
	if err := c.Credit(oldTotal); err != nil {
		return nil, err
	}
	gh.SubtractSales(oldTotal)
	gh.Release(oldStay, oldParty)

	rollback := func() {
		gh.Reserve(oldStay, oldParty)
		gh.AddSales(oldTotal)
		_ = c.Debit(oldTotal)
	}

	if !gh.CanAccommodate(newStay, partySize) {
		rollback()
		return nil, ErrCapacityUnavailable.Withf("guesthouse %s cannot fit %d guests from %s for %d nights",
			gh.ID(), partySize, start, nights)
	}

	newTotal, err := e.pricing.Calculate(booking.PricingParams{
		PricePerNight: gh.PricePerNight(),
		Nights:        nights,
		PartySize:     partySize,
	})
	if err != nil {
		rollback()
		return nil, domain.NewValidationError(err.Error())
	}
	if err := c.Debit(newTotal); err != nil {
		rollback()
		return nil, err
	}

	gh.AddSales(newTotal)
	gh.Reserve(newStay, partySize)
	if err := bk.Reschedule(start, nights, partySize, newTotal, e.clock()); err != nil {
		gh.Release(newStay, partySize)
		gh.SubtractSales(newTotal)
		_ = c.Credit(newTotal)
		rollback()
		return nil, err
	}
	bk.IncrementVersion()
	return bk.Clone(), nil
}

func (e *Engine) commitLocked(c *customer.Customer, gh *guesthouse.Guesthouse, bk *booking.Booking, now time.Time) error {
	if !bk.Status().CanTransitionTo(booking.StatusCommitted) {
		return domain.NewInvalidStateError(string(bk.Status()), string(booking.StatusCommitted))
	}
	total, err := e.pricing.Calculate(booking.PricingParams{
		PricePerNight: gh.PricePerNight(),
		Nights:        bk.Nights(),
		PartySize:     bk.PartySize(),
	})
	if err != nil {
		return domain.NewValidationError(err.Error())
	}
	if err := c.Debit(total); err != nil {
		return err
	}
	if err := bk.Commit(e.newID(), total, now); err != nil {
		_ = c.Credit(total)
		return err
	}

	gh.AddSales(total)
	gh.Reserve(bk.Stay(), bk.PartySize())
	e.bookings[bk.ID()] = bk
	e.history = append(e.history, bk)
	c.AddBooking(bk)
	return nil
}

// rescanLocked offers every queued request, earliest first, the capacity freed so far.
func (e *Engine) rescanLocked() (promoted, unfunded []*booking.Booking) {
	e.waiting.Sweep(func(req waitlist.Request) bool {
		c, ok := e.customers[req.CustomerEmail]
		if !ok {
			return false
		}
		gh, ok := e.guesthouses[req.Booking.GuesthouseID()]
		if !ok {
			return false
		}
		if !gh.CanAccommodate(req.Booking.Stay(), req.Booking.PartySize()) {
			return false
		}
		if err := e.commitLocked(c, gh, req.Booking, e.clock()); err != nil {
			unfunded = append(unfunded, req.Booking.Clone())
			return false
		}
		promoted = append(promoted, req.Booking.Clone())
		return true
	})
	return promoted, unfunded
}

// --- Queries ---

// Guesthouse returns a snapshot of one guesthouse.
func (e *Engine) Guesthouse(id string) (*guesthouse.Guesthouse, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	gh, err := e.guesthouseLocked(id)
	if err != nil {
		return nil, err
	}
	return gh.Clone(), nil
}

// Guesthouses returns snapshots of the catalog in registration order.
func (e *Engine) Guesthouses() []*guesthouse.Guesthouse {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.guesthouseSnapshotsLocked()
}

// Customer returns a snapshot of a customer, history included.
func (e *Engine) Customer(email string) (*customer.Customer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.customerLocked(email)
	if err != nil {
		return nil, err
	}
	return c.Clone(), nil
}

// Booking returns a snapshot of a committed or cancelled booking.
func (e *Engine) Booking(id uuid.UUID) (*booking.Booking, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	bk, ok := e.bookings[id]
	if !ok {
		return nil, ErrBookingNotFound.Withf("booking not found: %s", id)
	}
	return bk.Clone(), nil
}

// ListBookings returns a customer's bookings in history order.
func (e *Engine) ListBookings(email string) ([]*booking.Booking, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.customerLocked(email)
	if err != nil {
		return nil, err
	}
	return cloneBookings(c.Bookings()), nil
}

// BookingsByGuesthouse returns every booking made against a guesthouse in commit order.
func (e *Engine) BookingsByGuesthouse(guesthouseID string) ([]*booking.Booking, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := e.guesthouseLocked(guesthouseID); err != nil {
		return nil, err
	}
	var out []*booking.Booking
	for _, bk := range e.history {
		if bk.GuesthouseID() == guesthouseID {
			out = append(out, bk.Clone())
		}
	}
	return out, nil
}

// Waiting returns the queued requests in priority order.
func (e *Engine) Waiting() []WaitingEntry {
	e.mu.Lock()
	defer e.mu.Unlock()

	reqs := e.waiting.Snapshot()
	out := make([]WaitingEntry, len(reqs))
	for i, r := range reqs {
		out[i] = WaitingEntry{Booking: r.Booking.Clone(), RequestedAt: r.RequestedAt, Position: i + 1}
	}
	return out
}

// Recommend ranks the whole catalog for a customer.
func (e *Engine) Recommend(email string) (recommend.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.customerLocked(email)
	if err != nil {
		return recommend.Result{}, err
	}
	return recommend.Rank(e.guesthouseSnapshotsLocked(), c.Bookings(), e.recommendLimit), nil
}

// OccupancyRate returns the booked percentage of one guesthouse on d.
func (e *Engine) OccupancyRate(guesthouseID string, d calendar.Date) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	gh, err := e.guesthouseLocked(guesthouseID)
	if err != nil {
		return 0, err
	}
	return gh.OccupancyRate(d), nil
}

// AggregateOccupancyRate returns the booked percentage on d across the given guesthouses,
// or across the whole catalog when none are given.
func (e *Engine) AggregateOccupancyRate(d calendar.Date, guesthouseIDs ...string) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(guesthouseIDs) == 0 {
		guesthouseIDs = e.ghOrder
	}
	ghs := make([]*guesthouse.Guesthouse, 0, len(guesthouseIDs))
	for _, id := range guesthouseIDs {
		gh, err := e.guesthouseLocked(id)
		if err != nil {
			return 0, err
		}
		ghs = append(ghs, gh)
	}
	return guesthouse.AggregateOccupancyRate(ghs, d), nil
}

// HasFeature reports whether a guesthouse carries the named feature or kind.
func (e *Engine) HasFeature(guesthouseID, feature string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	gh, err := e.guesthouseLocked(guesthouseID)
	if err != nil {
		return false, err
	}
	return gh.HasFeature(feature), nil
}

// MonthlyRevenue sums non-cancelled bookings checking in during the given month, per guesthouse.
func (e *Engine) MonthlyRevenue(year int, month time.Month) []RevenueLine {
	e.mu.Lock()
	defer e.mu.Unlock()

	lines := make(map[string]*RevenueLine, len(e.ghOrder))
	for _, id := range e.ghOrder {
		lines[id] = &RevenueLine{GuesthouseID: id, GuesthouseName: e.guesthouses[id].Name(), Revenue: decimal.Zero}
	}
	for _, bk := range e.history {
		if bk.IsCancelled() || bk.StartDate().Year != year || bk.StartDate().Month != month {
			continue
		}
		if line, ok := lines[bk.GuesthouseID()]; ok {
			line.Revenue = line.Revenue.Add(bk.TotalAmount())
			line.Bookings++
		}
	}

	out := make([]RevenueLine, 0, len(e.ghOrder))
	for _, id := range e.ghOrder {
		out = append(out, *lines[id])
	}
	return out
}

// --- Administration ---

// ApplyPromotion discounts a guesthouse's nightly price for future bookings.
func (e *Engine) ApplyPromotion(guesthouseID string, rate decimal.Decimal) (*guesthouse.Guesthouse, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	gh, err := e.guesthouseLocked(guesthouseID)
	if err != nil {
		return nil, err
	}
	if err := gh.ApplyPromotion(rate); err != nil {
		return nil, err
	}
	return gh.Clone(), nil
}

// CreditAccount tops up a customer's balance.
func (e *Engine) CreditAccount(email string, amount decimal.Decimal) (*customer.Customer, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, err := e.customerLocked(email)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, domain.NewValidationError("top-up amount must be positive")
	}
	if err := c.Credit(amount); err != nil {
		return nil, err
	}
	return c.Clone(), nil
}

// --- Helpers ---

func (e *Engine) customerLocked(email string) (*customer.Customer, error) {
	c, ok := e.customers[customer.NormalizeEmail(email)]
	if !ok {
		return nil, ErrCustomerNotFound.Withf("customer not found: %s", email)
	}
	return c, nil
}

func (e *Engine) guesthouseLocked(id string) (*guesthouse.Guesthouse, error) {
	gh, ok := e.guesthouses[id]
	if !ok {
		return nil, ErrGuesthouseNotFound.Withf("guesthouse not found: %s", id)
	}
	return gh, nil
}

func (e *Engine) guesthouseSnapshotsLocked() []*guesthouse.Guesthouse {
	out := make([]*guesthouse.Guesthouse, len(e.ghOrder))
	for i, id := range e.ghOrder {
		out[i] = e.guesthouses[id].Clone()
	}
	return out
}

func cloneBookings(in []*booking.Booking) []*booking.Booking {
	out := make([]*booking.Booking, len(in))
	for i, bk := range in {
		out[i] = bk.Clone()
	}
	return out
}
