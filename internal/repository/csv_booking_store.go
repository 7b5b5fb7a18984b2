package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	bookingDomain "github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/booking"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/calendar"
	customerDomain "github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/customer"
	ghDomain "github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/guesthouse"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/pkg/domain"
)

// csvHeader is the first line of every booking file. Files written before totalAmount was
// added still load; their amounts are recomputed.
var csvHeader = []string{
	"bookingId", "startDate", "endDate", "bookingDays",
	"numberOfPeople", "isCancelled", "guesthouseId", "customerEmail", "totalAmount",
}

const (
	csvFilePrefix = "booking-"
	csvFileSuffix = ".csv"
	csvMinFields  = 7
)

// CSVBookingStore keeps each customer's bookings in dir/booking-<name>.csv.
// Every write rewrites the customer's whole file.
type CSVBookingStore struct {
	dir         string
	customers   customerDomain.CustomerRepository
	guesthouses ghDomain.GuesthouseRepository
	pricing     bookingDomain.PricingStrategy
	logger      *zap.Logger

	mu sync.Mutex
}

// NewCSVBookingStore creates a store rooted at dir. Customer names come from customers.
// Rows without a recorded amount are priced from the guesthouse's current nightly price.
func NewCSVBookingStore(
	dir string,
	customers customerDomain.CustomerRepository,
	guesthouses ghDomain.GuesthouseRepository,
	pricing bookingDomain.PricingStrategy,
	logger *zap.Logger,
) (*CSVBookingStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create booking directory: %w", err)
	}
	return &CSVBookingStore{
		dir:         dir,
		customers:   customers,
		guesthouses: guesthouses,
		pricing:     pricing,
		logger:      logger,
	}, nil
}

// FindByID scans every file for the booking.
func (s *CSVBookingStore) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	all, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, bk := range all {
		if bk.ID() == id {
			return bk, nil
		}
	}
	return nil, domain.NewNotFoundError("Booking", id.String())
}

// FindByCustomer reads the customer's file. A missing file means no bookings.
func (s *CSVBookingStore) FindByCustomer(ctx context.Context, customerEmail string) ([]*bookingDomain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.customers.FindByEmail(ctx, customerEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve customer: %w", err)
	}
	return s.readFile(ctx, s.pathFor(c.Name()), c.Email())
}

// FindByGuesthouse filters every file by guesthouse.
func (s *CSVBookingStore) FindByGuesthouse(ctx context.Context, guesthouseID string) ([]*bookingDomain.Booking, error) {
	all, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*bookingDomain.Booking, 0)
	for _, bk := range all {
		if bk.GuesthouseID() == guesthouseID {
			out = append(out, bk)
		}
	}
	return out, nil
}

// LoadAll reads every booking file in the directory, in file name order.
func (s *CSVBookingStore) LoadAll(ctx context.Context) ([]*bookingDomain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	paths, err := filepath.Glob(filepath.Join(s.dir, csvFilePrefix+"*"+csvFileSuffix))
	if err != nil {
		return nil, fmt.Errorf("failed to list booking files: %w", err)
	}
	sort.Strings(paths)

	var all []*bookingDomain.Booking
	for _, path := range paths {
		name := strings.TrimSuffix(strings.TrimPrefix(filepath.Base(path), csvFilePrefix), csvFileSuffix)
		email := ""
		if c, err := s.customers.FindByName(ctx, name); err == nil {
			email = c.Email()
		}
		bookings, err := s.readFile(ctx, path, email)
		if err != nil {
			return nil, err
		}
		all = append(all, bookings...)
	}
	return all, nil
}

// ListAll paginates over LoadAll.
func (s *CSVBookingStore) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	all, err := s.LoadAll(ctx)
	if err != nil {
		return nil, 0, err
	}
	total := int64(len(all))
	start := (page - 1) * limit
	if start < 0 || start >= len(all) {
		return []*bookingDomain.Booking{}, total, nil
	}
	end := min(start+limit, len(all))
	return all[start:end], total, nil
}

// CountByStatus counts LoadAll by status.
func (s *CSVBookingStore) CountByStatus(ctx context.Context) (map[string]int64, error) {
	all, err := s.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64)
	for _, bk := range all {
		counts[string(bk.Status())]++
	}
	return counts, nil
}

// Save appends the booking to its customer's file.
func (s *CSVBookingStore) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	return s.rewrite(ctx, bk.CustomerEmail(), func(rows []*bookingDomain.Booking) ([]*bookingDomain.Booking, error) {
		for _, existing := range rows {
			if existing.ID() == bk.ID() {
				return nil, domain.NewConflictError(fmt.Sprintf("booking %s already stored", bk.ID()))
			}
		}
		return append(rows, bk), nil
	})
}

// Update replaces the booking's row in its customer's file.
func (s *CSVBookingStore) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	return s.rewrite(ctx, bk.CustomerEmail(), func(rows []*bookingDomain.Booking) ([]*bookingDomain.Booking, error) {
		for i, existing := range rows {
			if existing.ID() == bk.ID() {
				rows[i] = bk
				return rows, nil
			}
		}
		return nil, domain.NewNotFoundError("Booking", bk.ID().String())
	})
}

func (s *CSVBookingStore) rewrite(
	ctx context.Context,
	email string,
	apply func([]*bookingDomain.Booking) ([]*bookingDomain.Booking, error),
) error {
	if email == "" {
		return domain.NewValidationError("booking has no customer")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.customers.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to resolve customer: %w", err)
	}
	path := s.pathFor(c.Name())

	rows, err := s.readFile(ctx, path, c.Email())
	if err != nil {
		return err
	}
	rows, err = apply(rows)
	if err != nil {
		return err
	}
	return writeFile(path, c.Email(), rows)
}

func (s *CSVBookingStore) pathFor(name string) string {
	return filepath.Join(s.dir, csvFilePrefix+name+csvFileSuffix)
}

func (s *CSVBookingStore) readFile(ctx context.Context, path, email string) ([]*bookingDomain.Booking, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return []*bookingDomain.Booking{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	out := make([]*bookingDomain.Booking, 0)
	line := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if line == 1 || len(record) < csvMinFields {
			continue
		}

		bk, err := s.parseRecord(ctx, record, email)
		if err != nil {
			s.logger.Warn("skipping booking row",
				zap.String("file", filepath.Base(path)),
				zap.Int("line", line),
				zap.Error(err),
			)
			continue
		}
		out = append(out, bk)
	}
	return out, nil
}

func (s *CSVBookingStore) parseRecord(ctx context.Context, record []string, email string) (*bookingDomain.Booking, error) {
	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}

	id, err := uuid.Parse(record[0])
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID %q: %w", record[0], err)
	}
	start, err := calendar.ParseDate(record[1])
	if err != nil {
		return nil, err
	}
	nights, err := strconv.Atoi(record[3])
	if err != nil {
		return nil, fmt.Errorf("invalid booking days %q: %w", record[3], err)
	}
	if nights < 1 || nights > bookingDomain.MaxNights {
		return nil, fmt.Errorf("booking days %d out of range", nights)
	}
	party, err := strconv.Atoi(record[4])
	if err != nil {
		return nil, fmt.Errorf("invalid number of people %q: %w", record[4], err)
	}
	cancelled, err := strconv.ParseBool(record[5])
	if err != nil {
		return nil, fmt.Errorf("invalid cancelled flag %q: %w", record[5], err)
	}
	ghID := record[6]
	if len(record) > csvMinFields && record[7] != "" {
		email = record[7]
	}
	if email == "" {
		return nil, fmt.Errorf("booking %s has no customer", id)
	}

	gh, err := s.guesthouses.FindByID(ctx, ghID)
	if err != nil {
		return nil, fmt.Errorf("unknown guesthouse %s: %w", ghID, err)
	}
	total, err := s.pricing.Calculate(bookingDomain.PricingParams{
		PricePerNight: gh.PricePerNight(),
		Nights:        nights,
		PartySize:     party,
	})
	if err != nil {
		return nil, err
	}
	if len(record) > csvMinFields+1 && record[8] != "" {
		charged, err := decimal.NewFromString(record[8])
		if err != nil {
			return nil, fmt.Errorf("invalid total amount %q: %w", record[8], err)
		}
		if !charged.Equal(total) {
			s.logger.Debug("booking charged at a different price than today's",
				zap.String("booking_id", id.String()),
				zap.String("charged", charged.StringFixed(2)),
				zap.String("current", total.StringFixed(2)),
			)
		}
		total = charged
	} else {
		s.logger.Warn("booking has no recorded amount; priced at the current rate",
			zap.String("booking_id", id.String()),
			zap.String("guesthouse_id", ghID),
			zap.String("total", total.StringFixed(2)),
		)
	}

	// The file carries no timestamps; the check-in date stands in for all of them.
	at := start.Time()
	status := bookingDomain.StatusCommitted
	var cancelledAt *time.Time
	if cancelled {
		status = bookingDomain.StatusCancelled
		cancelledAt = &at
	}

	return bookingDomain.ReconstructBooking(
		id, ghID, email, start, nights, party, total, status,
		at, &at, cancelledAt, 1, at, at,
	), nil
}

func writeFile(path, email string, rows []*bookingDomain.Booking) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", tmp, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, bk := range rows {
		record := []string{
			bk.ID().String(),
			bk.StartDate().String(),
			bk.EndDate().String(),
			strconv.Itoa(bk.Nights()),
			strconv.Itoa(bk.PartySize()),
			strconv.FormatBool(bk.IsCancelled()),
			bk.GuesthouseID(),
			email,
			bk.TotalAmount().StringFixed(2),
		}
		if err := w.Write(record); err != nil {
			f.Close()
			return fmt.Errorf("failed to write booking %s: %w", bk.ID(), err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("failed to flush %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp, err)
	}
	return os.Rename(tmp, path)
}

var _ bookingDomain.BookingRepository = (*CSVBookingStore)(nil)
