package reservation

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/booking"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/calendar"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/customer"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/guesthouse"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/pkg/domain"
)

// testClock starts on 2025-05-01 and advances one second per reading so queued requests
// get distinct timestamps.
type testClock struct {
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2025, time.May, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.now = c.now.Add(time.Second)
	return c.now
}

var (
	may10 = calendar.NewDate(2025, time.May, 10)
	may12 = calendar.NewDate(2025, time.May, 12)
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestEngine(t *testing.T, maxOccupancy int, opts ...Option) (*Engine, *testClock) {
	t.Helper()
	clk := newTestClock()
	e := NewEngine(append([]Option{WithClock(clk.Now)}, opts...)...)

	gh, err := guesthouse.NewGuesthouse("GH001", "Sound Studio", guesthouse.KindMusic,
		guesthouse.KindAttributes{HasInstruments: true, Soundproof: true},
		decimal.NewFromInt(100), maxOccupancy, "", []string{"wifi"})
	require.NoError(t, err)
	require.NoError(t, e.RegisterGuesthouse(gh))

	for _, c := range []struct{ name, email, balance string }{
		{"Hong Gildong", "hong@naver.com", "1000"},
		{"Kim Cheolsu", "kim@naver.com", "800"},
		{"Lee Younghee", "lee@naver.com", "1200"},
	} {
		cust, err := customer.NewCustomer(c.name, c.email, dec(c.balance))
		require.NoError(t, err)
		require.NoError(t, e.RegisterCustomer(cust))
	}
	return e, clk
}

func balance(t *testing.T, e *Engine, email string) string {
	t.Helper()
	c, err := e.Customer(email)
	require.NoError(t, err)
	return c.Balance().String()
}

func occupied(t *testing.T, e *Engine, ghID string, d calendar.Date) int {
	t.Helper()
	gh, err := e.Guesthouse(ghID)
	require.NoError(t, err)
	return gh.Occupied(d)
}

func TestCreate_CommitsAndCharges(t *testing.T) {
	e, _ := newTestEngine(t, 4)

	bk, err := e.Create("Hong@Naver.com", "GH001", may10, 2, 2)
	require.NoError(t, err)

	assert.Equal(t, booking.StatusCommitted, bk.Status())
	assert.NotEqual(t, uuid.Nil, bk.ID())
	assert.Equal(t, "400", bk.TotalAmount().String())
	assert.Equal(t, "600", balance(t, e, "hong@naver.com"))

	gh, err := e.Guesthouse("GH001")
	require.NoError(t, err)
	assert.Equal(t, "400", gh.Sales().String())
	assert.Equal(t, 2, gh.Occupied(may10))
	assert.Equal(t, 2, gh.Occupied(may10.AddDays(1)))
	assert.Equal(t, 0, gh.Occupied(may12), "check-out night is not reserved")

	list, err := e.ListBookings("hong@naver.com")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, bk.ID(), list[0].ID())
}

func TestCreate_Errors(t *testing.T) {
	e, _ := newTestEngine(t, 2)

	_, err := e.Create("nobody@naver.com", "GH001", may10, 1, 1)
	assert.True(t, errors.Is(err, ErrCustomerNotFound))

	_, err = e.Create("hong@naver.com", "GH999", may10, 1, 1)
	assert.True(t, errors.Is(err, ErrGuesthouseNotFound))

	_, err = e.Create("hong@naver.com", "GH001", may10, 0, 1)
	assert.Error(t, err)

	_, err = e.Create("hong@naver.com", "GH001", may10, 1, 3)
	assert.True(t, errors.Is(err, ErrCapacityExceeded))
	assert.Empty(t, e.Waiting(), "oversized party is never queued")
	assert.Equal(t, "1000", balance(t, e, "hong@naver.com"))
}

func TestCreate_InsufficientFundsChangesNothing(t *testing.T) {
	e, _ := newTestEngine(t, 4)

	_, err := e.Create("kim@naver.com", "GH001", may10, 3, 3) // 900 > 800
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientFunds))

	assert.Equal(t, "800", balance(t, e, "kim@naver.com"))
	assert.Equal(t, 0, occupied(t, e, "GH001", may10))
	list, err := e.ListBookings("kim@naver.com")
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Empty(t, e.Waiting())
}

func TestCapacityScenario_ThirdQueuedThenPromoted(t *testing.T) {
	e, _ := newTestEngine(t, 2)

	first, err := e.Create("hong@naver.com", "GH001", may10, 1, 1)
	require.NoError(t, err)
	_, err = e.Create("kim@naver.com", "GH001", may10, 1, 1)
	require.NoError(t, err)

	third, err := e.Create("lee@naver.com", "GH001", may10, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusQueued, third.Status())
	assert.Equal(t, uuid.Nil, third.ID())
	assert.Equal(t, "1200", balance(t, e, "lee@naver.com"), "queued requests are not charged")
	require.Len(t, e.Waiting(), 1)
	assert.Equal(t, 2, occupied(t, e, "GH001", may10))

	res, err := e.Cancel("hong@naver.com", first.ID())
	require.NoError(t, err)
	require.Len(t, res.Promoted, 1)
	assert.Empty(t, res.Unfunded)

	promoted := res.Promoted[0]
	assert.Equal(t, booking.StatusCommitted, promoted.Status())
	assert.Equal(t, "lee@naver.com", promoted.CustomerEmail())
	assert.NotEqual(t, uuid.Nil, promoted.ID())
	assert.Equal(t, "1100", balance(t, e, "lee@naver.com"))
	assert.Empty(t, e.Waiting())
	assert.Equal(t, 2, occupied(t, e, "GH001", may10))
}

func TestCancel_RefundsHalf(t *testing.T) {
	e, _ := newTestEngine(t, 4)

	bk, err := e.Create("hong@naver.com", "GH001", may10, 2, 1)
	require.NoError(t, err)
	require.Equal(t, "800", balance(t, e, "hong@naver.com"))

	res, err := e.Cancel("hong@naver.com", bk.ID())
	require.NoError(t, err)

	assert.Equal(t, "100", res.Refund.String())
	assert.True(t, res.Booking.IsCancelled())
	assert.NotNil(t, res.Booking.CancelledAt())
	assert.Equal(t, bk.Version()+1, res.Booking.Version())
	assert.Equal(t, "900", balance(t, e, "hong@naver.com"))

	gh, err := e.Guesthouse("GH001")
	require.NoError(t, err)
	assert.Equal(t, "100", gh.Sales().String())
	assert.Equal(t, 0, gh.Occupied(may10))
}

func TestCancel_WindowBoundary(t *testing.T) {
	e, clk := newTestEngine(t, 4)
	today := calendar.DateOf(clk.now)

	open, err := e.Create("hong@naver.com", "GH001", today.AddDays(3), 1, 1)
	require.NoError(t, err)
	closed, err := e.Create("hong@naver.com", "GH001", today.AddDays(2), 1, 1)
	require.NoError(t, err)

	_, err = e.Cancel("hong@naver.com", closed.ID())
	assert.True(t, errors.Is(err, ErrCancellationWindowClosed))
	still, err := e.Booking(closed.ID())
	require.NoError(t, err)
	assert.True(t, still.IsActive())

	_, err = e.Cancel("hong@naver.com", open.ID())
	assert.NoError(t, err)
}

func TestCancel_Errors(t *testing.T) {
	e, _ := newTestEngine(t, 4)

	bk, err := e.Create("hong@naver.com", "GH001", may10, 1, 1)
	require.NoError(t, err)

	_, err = e.Cancel("hong@naver.com", uuid.New())
	assert.True(t, errors.Is(err, ErrBookingNotFound))

	_, err = e.Cancel("kim@naver.com", bk.ID())
	assert.True(t, errors.Is(err, ErrNotOwner))

	_, err = e.Cancel("hong@naver.com", bk.ID())
	require.NoError(t, err)
	before := balance(t, e, "hong@naver.com")

	_, err = e.Cancel("hong@naver.com", bk.ID())
	assert.True(t, errors.Is(err, ErrAlreadyCancelled))
	assert.Equal(t, before, balance(t, e, "hong@naver.com"), "second cancel refunds nothing")
}

func TestCancel_PromotesInRequestOrder(t *testing.T) {
	e, _ := newTestEngine(t, 2)

	holder, err := e.Create("hong@naver.com", "GH001", may10, 1, 2)
	require.NoError(t, err)

	early, err := e.Create("kim@naver.com", "GH001", may10, 1, 2)
	require.NoError(t, err)
	late, err := e.Create("lee@naver.com", "GH001", may10, 1, 1)
	require.NoError(t, err)
	require.Equal(t, booking.StatusQueued, early.Status())
	require.Equal(t, booking.StatusQueued, late.Status())

	waiting := e.Waiting()
	require.Len(t, waiting, 2)
	assert.Equal(t, "kim@naver.com", waiting[0].Booking.CustomerEmail())
	assert.Equal(t, 1, waiting[0].Position)

	res, err := e.Cancel("hong@naver.com", holder.ID())
	require.NoError(t, err)

	require.Len(t, res.Promoted, 1)
	assert.Equal(t, "kim@naver.com", res.Promoted[0].CustomerEmail(), "earlier request wins")
	waiting = e.Waiting()
	require.Len(t, waiting, 1)
	assert.Equal(t, "lee@naver.com", waiting[0].Booking.CustomerEmail())
}

func TestCancel_PromotesEveryRequestThatFits(t *testing.T) {
	e, _ := newTestEngine(t, 3)

	holder, err := e.Create("hong@naver.com", "GH001", may10, 1, 3)
	require.NoError(t, err)
	_, err = e.Create("kim@naver.com", "GH001", may10, 1, 1)
	require.NoError(t, err)
	_, err = e.Create("lee@naver.com", "GH001", may10, 1, 2)
	require.NoError(t, err)
	require.Len(t, e.Waiting(), 2)

	res, err := e.Cancel("hong@naver.com", holder.ID())
	require.NoError(t, err)

	require.Len(t, res.Promoted, 2)
	assert.Equal(t, "kim@naver.com", res.Promoted[0].CustomerEmail())
	assert.Equal(t, "lee@naver.com", res.Promoted[1].CustomerEmail())
	assert.Empty(t, e.Waiting())
	assert.Equal(t, 3, occupied(t, e, "GH001", may10))
}

func TestCancel_UnfundedRequestStaysQueued(t *testing.T) {
	e, _ := newTestEngine(t, 1)

	holder, err := e.Create("hong@naver.com", "GH001", may10, 1, 1)
	require.NoError(t, err)
	_, err = e.Create("kim@naver.com", "GH001", may10, 1, 1)
	require.NoError(t, err)

	// Kim spends the whole balance while waiting.
	_, err = e.Create("kim@naver.com", "GH001", may12, 8, 1)
	require.NoError(t, err)
	require.Equal(t, "0", balance(t, e, "kim@naver.com"))

	res, err := e.Cancel("hong@naver.com", holder.ID())
	require.NoError(t, err)

	assert.Empty(t, res.Promoted)
	require.Len(t, res.Unfunded, 1)
	assert.Equal(t, "kim@naver.com", res.Unfunded[0].CustomerEmail())
	assert.Equal(t, booking.StatusQueued, res.Unfunded[0].Status())
	assert.Len(t, e.Waiting(), 1)
	assert.Equal(t, 0, occupied(t, e, "GH001", may10))
}

func TestCancel_PromotionChargesCurrentPrice(t *testing.T) {
	e, _ := newTestEngine(t, 1)

	holder, err := e.Create("hong@naver.com", "GH001", may10, 1, 1)
	require.NoError(t, err)
	queued, err := e.Create("lee@naver.com", "GH001", may10, 1, 1)
	require.NoError(t, err)
	require.Equal(t, "100", queued.TotalAmount().String(), "queued requests carry a quote")

	_, err = e.ApplyPromotion("GH001", dec("0.5"))
	require.NoError(t, err)

	res, err := e.Cancel("hong@naver.com", holder.ID())
	require.NoError(t, err)
	require.Len(t, res.Promoted, 1)
	assert.Equal(t, "50", res.Promoted[0].TotalAmount().String())
	assert.Equal(t, "1150", balance(t, e, "lee@naver.com"))
}

func TestCreditAccount(t *testing.T) {
	e, _ := newTestEngine(t, 1)

	c, err := e.CreditAccount("kim@naver.com", dec("250.5"))
	require.NoError(t, err)
	assert.Equal(t, "1050.5", c.Balance().String())

	_, err = e.CreditAccount("kim@naver.com", decimal.Zero)
	assert.Error(t, err)
	_, err = e.CreditAccount("nobody@naver.com", dec("1"))
	assert.True(t, errors.Is(err, ErrCustomerNotFound))
}

func TestUpdate_Success(t *testing.T) {
	e, _ := newTestEngine(t, 4)

	bk, err := e.Create("hong@naver.com", "GH001", may10, 2, 1)
	require.NoError(t, err)

	updated, err := e.Update("hong@naver.com", bk.ID(), may12, 3, 2)
	require.NoError(t, err)

	assert.Equal(t, bk.ID(), updated.ID())
	assert.Equal(t, may12, updated.StartDate())
	assert.Equal(t, "600", updated.TotalAmount().String())
	assert.Equal(t, bk.Version()+1, updated.Version())
	assert.Equal(t, "400", balance(t, e, "hong@naver.com"))

	gh, err := e.Guesthouse("GH001")
	require.NoError(t, err)
	assert.Equal(t, "600", gh.Sales().String())
	assert.Equal(t, 0, gh.Occupied(may10))
	assert.Equal(t, 2, gh.Occupied(may12))
	assert.Equal(t, 2, gh.Occupied(may12.AddDays(2)))
}

func TestUpdate_CapacityFailureRollsBack(t *testing.T) {
	e, _ := newTestEngine(t, 2)

	bk, err := e.Create("hong@naver.com", "GH001", may10, 1, 1)
	require.NoError(t, err)
	_, err = e.Create("kim@naver.com", "GH001", may12, 1, 2)
	require.NoError(t, err)

	_, err = e.Update("hong@naver.com", bk.ID(), may12, 1, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCapacityUnavailable))

	assertUnchanged(t, e, bk, "900", "300")
}

func TestUpdate_FundsFailureRollsBack(t *testing.T) {
	e, _ := newTestEngine(t, 4)

	bk, err := e.Create("kim@naver.com", "GH001", may10, 2, 1)
	require.NoError(t, err)
	require.Equal(t, "600", balance(t, e, "kim@naver.com"))

	// 9 nights cost 900; the provisional refund only brings the balance to 800.
	_, err = e.Update("kim@naver.com", bk.ID(), may10, 9, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientFunds))

	assertUnchanged(t, e, bk, "600", "200")
}

func assertUnchanged(t *testing.T, e *Engine, before *booking.Booking, wantBalance, wantSales string) {
	t.Helper()
	after, err := e.Booking(before.ID())
	require.NoError(t, err)
	assert.Equal(t, before.Stay(), after.Stay())
	assert.Equal(t, before.PartySize(), after.PartySize())
	assert.Equal(t, before.TotalAmount().String(), after.TotalAmount().String())
	assert.Equal(t, before.Version(), after.Version())
	assert.Equal(t, wantBalance, balance(t, e, before.CustomerEmail()))

	gh, err := e.Guesthouse(before.GuesthouseID())
	require.NoError(t, err)
	assert.Equal(t, wantSales, gh.Sales().String())
	for _, d := range before.Stay().Dates() {
		assert.GreaterOrEqual(t, gh.Occupied(d), before.PartySize())
	}
}

func TestUpdate_Errors(t *testing.T) {
	e, _ := newTestEngine(t, 2)

	bk, err := e.Create("hong@naver.com", "GH001", may10, 1, 1)
	require.NoError(t, err)

	_, err = e.Update("kim@naver.com", bk.ID(), may12, 1, 1)
	assert.True(t, errors.Is(err, ErrBookingNotFound), "other customers cannot see the booking")

	_, err = e.Update("hong@naver.com", bk.ID(), may12, 1, 5)
	assert.True(t, errors.Is(err, ErrCapacityExceeded))
	assertUnchanged(t, e, bk, "900", "100")

	_, err = e.Update("hong@naver.com", bk.ID(), may12, 0, 1)
	assert.Error(t, err)

	_, err = e.Cancel("hong@naver.com", bk.ID())
	require.NoError(t, err)
	_, err = e.Update("hong@naver.com", bk.ID(), may12, 1, 1)
	assert.True(t, errors.Is(err, ErrAlreadyCancelled))
}

func TestCapacityNeverExceeded(t *testing.T) {
	e, _ := newTestEngine(t, 3)
	emails := []string{"hong@naver.com", "kim@naver.com", "lee@naver.com"}

	for i := range 9 {
		_, err := e.Create(emails[i%3], "GH001", may10.AddDays(i%2), 2, 1+i%2)
		require.NoError(t, err)
	}
	gh, err := e.Guesthouse("GH001")
	require.NoError(t, err)
	for d, n := range gh.Occupancy() {
		assert.LessOrEqual(t, n, gh.MaxOccupancy(), "date %s", d)
	}
}

func TestStayLengthIsBounded(t *testing.T) {
	e, _ := newTestEngine(t, 4)

	for _, nights := range []int{booking.MaxNights + 1, 1 << 31, 1 << 62} {
		_, err := e.Create("hong@naver.com", "GH001", may10, nights, 1)
		var derr *domain.Error
		require.True(t, errors.As(err, &derr), "nights=%d", nights)
		assert.Equal(t, domain.KindValidation, derr.Kind)
	}
	assert.Equal(t, "1000", balance(t, e, "hong@naver.com"))
	assert.Empty(t, e.Waiting())

	bk, err := e.Create("hong@naver.com", "GH001", may10, 1, 1)
	require.NoError(t, err)
	_, err = e.Update("hong@naver.com", bk.ID(), may12, 1<<62, 1)
	var derr *domain.Error
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, domain.KindValidation, derr.Kind)
	assertUnchanged(t, e, bk, "900", "100")
}

func TestCancel_RejectedRefundKeepsBookingCommitted(t *testing.T) {
	e, _ := newTestEngine(t, 4, WithCancellationPolicy(booking.CancellationPolicy{
		RefundRate: dec("-0.5"),
		CutoffDays: 2,
	}))

	bk, err := e.Create("hong@naver.com", "GH001", may10, 1, 1)
	require.NoError(t, err)

	_, err = e.Cancel("hong@naver.com", bk.ID())
	require.Error(t, err)

	after, err := e.Booking(bk.ID())
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCommitted, after.Status())
	assertUnchanged(t, e, bk, "900", "100")
}

func TestEngine_ConcurrentCreateAndCancel(t *testing.T) {
	e, _ := newTestEngine(t, 2)
	emails := []string{"hong@naver.com", "kim@naver.com", "lee@naver.com"}
	const rounds = 4

	var wg sync.WaitGroup
	for _, email := range emails {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range rounds {
				bk, err := e.Create(email, "GH001", may10, 1, 1)
				if !assert.NoError(t, err) {
					return
				}
				if i%2 == 1 && bk.Status() == booking.StatusCommitted {
					_, err := e.Cancel(email, bk.ID())
					assert.NoError(t, err)
				}
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		for range 50 {
			gh, err := e.Guesthouse("GH001")
			if assert.NoError(t, err) {
				assert.LessOrEqual(t, gh.Occupied(may10), gh.MaxOccupancy())
			}
			_ = e.Waiting()
			_, _ = e.Recommend("kim@naver.com")
		}
	}()
	wg.Wait()

	gh, err := e.Guesthouse("GH001")
	require.NoError(t, err)
	total := gh.Sales()
	recorded, active := 0, 0
	for _, email := range emails {
		c, err := e.Customer(email)
		require.NoError(t, err)
		total = total.Add(c.Balance())

		history, err := e.ListBookings(email)
		require.NoError(t, err)
		recorded += len(history)
		for _, bk := range history {
			if !bk.IsCancelled() {
				active += bk.PartySize()
			}
		}
	}
	waiting := e.Waiting()

	assert.True(t, dec("3000").Equal(total), "balances plus sales: %s", total)
	assert.Equal(t, len(emails)*rounds, recorded+len(waiting), "every request is either recorded or queued")
	assert.Equal(t, active, gh.Occupied(may10))
	assert.LessOrEqual(t, gh.Occupied(may10), gh.MaxOccupancy())
	if len(waiting) > 0 {
		assert.Equal(t, gh.MaxOccupancy(), gh.Occupied(may10), "a queued request that fits is promoted")
	}
}

func TestRecommend(t *testing.T) {
	e, _ := newTestEngine(t, 10)
	gh2, err := guesthouse.NewGuesthouse("GH002", "Garden", guesthouse.KindStandard, guesthouse.KindAttributes{},
		decimal.NewFromInt(300), 4, "", nil)
	require.NoError(t, err)
	require.NoError(t, e.RegisterGuesthouse(gh2))

	res, err := e.Recommend("hong@naver.com")
	require.NoError(t, err)
	assert.False(t, res.Personalized)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "GH001", res.Items[0].Guesthouse.ID())

	_, err = e.Create("kim@naver.com", "GH002", may10, 1, 1) // GH002 sales 300
	require.NoError(t, err)
	_, err = e.Create("hong@naver.com", "GH001", may10, 1, 1) // GH001 sales 100
	require.NoError(t, err)

	res, err = e.Recommend("hong@naver.com")
	require.NoError(t, err)
	assert.True(t, res.Personalized)
	assert.Equal(t, "GH002", res.Items[0].Guesthouse.ID())
	assert.Equal(t, "120", res.Items[0].Weight.String())
	assert.Equal(t, "40.6", res.Items[1].Weight.String())
}

func TestRestore(t *testing.T) {
	e, _ := newTestEngine(t, 2)
	at := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)

	active := booking.ReconstructBooking(uuid.New(), "GH001", "hong@naver.com", may10, 1, 2,
		dec("200"), booking.StatusCommitted, at, &at, nil, 1, at, at)
	require.NoError(t, e.Restore(active))
	assert.Equal(t, 2, occupied(t, e, "GH001", may10))
	assert.Equal(t, "1000", balance(t, e, "hong@naver.com"), "restoring does not charge")

	cancelled := booking.ReconstructBooking(uuid.New(), "GH001", "kim@naver.com", may10, 1, 2,
		dec("200"), booking.StatusCancelled, at, &at, &at, 2, at, at)
	require.NoError(t, e.Restore(cancelled))

	overflow := booking.ReconstructBooking(uuid.New(), "GH001", "lee@naver.com", may10, 1, 1,
		dec("100"), booking.StatusCommitted, at, &at, nil, 1, at, at)
	assert.True(t, errors.Is(e.Restore(overflow), ErrCapacityUnavailable))
	assert.True(t, errors.Is(e.Restore(active), ErrDuplicate))

	list, err := e.ListBookings("kim@naver.com")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsCancelled())
}

func TestOccupancyAndFeatures(t *testing.T) {
	e, _ := newTestEngine(t, 4)
	gh2, err := guesthouse.NewGuesthouse("GH002", "Garden", guesthouse.KindStandard, guesthouse.KindAttributes{},
		decimal.NewFromInt(50), 4, "", []string{"parking"})
	require.NoError(t, err)
	require.NoError(t, e.RegisterGuesthouse(gh2))

	_, err = e.Create("hong@naver.com", "GH001", may10, 1, 3)
	require.NoError(t, err)

	rate, err := e.OccupancyRate("GH001", may10)
	require.NoError(t, err)
	assert.InDelta(t, 75.0, rate, 0.001)

	agg, err := e.AggregateOccupancyRate(may10)
	require.NoError(t, err)
	assert.InDelta(t, 37.5, agg, 0.001)

	_, err = e.AggregateOccupancyRate(may10, "GH404")
	assert.True(t, errors.Is(err, ErrGuesthouseNotFound))

	ok, err := e.HasFeature("GH001", "MUSIC")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = e.HasFeature("GH002", "wifi")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestApplyPromotion_KeepsCommittedAmounts(t *testing.T) {
	e, _ := newTestEngine(t, 4)

	bk, err := e.Create("hong@naver.com", "GH001", may10, 1, 1)
	require.NoError(t, err)

	gh, err := e.ApplyPromotion("GH001", dec("0.2"))
	require.NoError(t, err)
	assert.Equal(t, "80", gh.PricePerNight().String())

	after, err := e.Booking(bk.ID())
	require.NoError(t, err)
	assert.Equal(t, "100", after.TotalAmount().String())

	_, err = e.ApplyPromotion("GH001", dec("1"))
	assert.Error(t, err)
}

func TestMonthlyRevenue(t *testing.T) {
	e, _ := newTestEngine(t, 4)

	_, err := e.Create("hong@naver.com", "GH001", may10, 1, 1)
	require.NoError(t, err)
	cancelled, err := e.Create("kim@naver.com", "GH001", may12, 1, 2)
	require.NoError(t, err)
	_, err = e.Cancel("kim@naver.com", cancelled.ID())
	require.NoError(t, err)
	_, err = e.Create("lee@naver.com", "GH001", calendar.NewDate(2025, time.June, 1), 1, 1)
	require.NoError(t, err)

	lines := e.MonthlyRevenue(2025, time.May)
	require.Len(t, lines, 1)
	assert.Equal(t, "100", lines[0].Revenue.String())
	assert.Equal(t, 1, lines[0].Bookings)
	assert.Equal(t, "Sound Studio", lines[0].GuesthouseName)
}

func TestRegisterDuplicates(t *testing.T) {
	e, _ := newTestEngine(t, 4)
	c, err := customer.NewCustomer("Hong Gildong", "HONG@naver.com", dec("1"))
	require.NoError(t, err)
	assert.True(t, errors.Is(e.RegisterCustomer(c), ErrDuplicate))

	gh, err := guesthouse.NewGuesthouse("GH001", "Copy", guesthouse.KindStandard, guesthouse.KindAttributes{},
		decimal.NewFromInt(1), 1, "", nil)
	require.NoError(t, err)
	assert.True(t, errors.Is(e.RegisterGuesthouse(gh), ErrDuplicate))
}
