package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	bookingDomain "github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/booking"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/calendar"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/pkg/domain"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID            string          `gorm:"column:booking_id;size:36;primaryKey"`
	GuesthouseID  string          `gorm:"size:20;index;not null"`
	CustomerEmail string          `gorm:"size:255;index;not null"`
	StartDate     time.Time       `gorm:"type:date;not null"`
	EndDate       time.Time       `gorm:"type:date;not null"`
	Nights        int             `gorm:"not null"`
	PartySize     int             `gorm:"not null"`
	IsCancelled   bool            `gorm:"not null;default:false"`
	TotalAmount   decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Status        string          `gorm:"size:20;index;not null"`
	RequestedAt   time.Time       `gorm:"not null"`
	CommittedAt   *time.Time      `gorm:""`
	CancelledAt   *time.Time      `gorm:""`
	Version       int64           `gorm:"not null;default:1"`
	CreatedAt     time.Time       `gorm:"not null"`
	UpdatedAt     time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("booking_id = ?", id.String()).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByCustomer retrieves a customer's bookings in commit order.
func (r *GormBookingRepository) FindByCustomer(ctx context.Context, customerEmail string) ([]*bookingDomain.Booking, error) {
	return r.find(ctx, r.db.WithContext(ctx).Where("customer_email = ?", customerEmail))
}

// FindByGuesthouse retrieves every booking made against a guesthouse in commit order.
func (r *GormBookingRepository) FindByGuesthouse(ctx context.Context, guesthouseID string) ([]*bookingDomain.Booking, error) {
	return r.find(ctx, r.db.WithContext(ctx).Where("guesthouse_id = ?", guesthouseID))
}

// LoadAll retrieves every booking in commit order.
func (r *GormBookingRepository) LoadAll(ctx context.Context) ([]*bookingDomain.Booking, error) {
	return r.find(ctx, r.db.WithContext(ctx))
}

func (r *GormBookingRepository) find(_ context.Context, q *gorm.DB) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := q.Order("committed_at ASC").Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	return toDomainBookings(models)
}

// Save persists a newly committed booking.
func (r *GormBookingRepository) Save(ctx context.Context, bk *bookingDomain.Booking) error {
	model, err := toBookingModel(bk)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}

	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}
	return nil
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model, err := toBookingModel(bk)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}

	// The engine bumps the version once per change, so the stored row holds version-1.
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("booking_id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"start_date":   model.StartDate,
			"end_date":     model.EndDate,
			"nights":       model.Nights,
			"party_size":   model.PartySize,
			"is_cancelled": model.IsCancelled,
			"total_amount": model.TotalAmount,
			"status":       model.Status,
			"cancelled_at": model.CancelledAt,
			"version":      model.Version,
			"updated_at":   model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}

	return nil
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings, err := toDomainBookings(models)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) (*BookingModel, error) {
	if bk.ID() == uuid.Nil {
		return nil, fmt.Errorf("booking in status %s has no ID", bk.Status())
	}
	return &BookingModel{
		ID:            bk.ID().String(),
		GuesthouseID:  bk.GuesthouseID(),
		CustomerEmail: bk.CustomerEmail(),
		StartDate:     bk.StartDate().Time(),
		EndDate:       bk.EndDate().Time(),
		Nights:        bk.Nights(),
		PartySize:     bk.PartySize(),
		IsCancelled:   bk.IsCancelled(),
		TotalAmount:   bk.TotalAmount(),
		Status:        string(bk.Status()),
		RequestedAt:   bk.RequestedAt(),
		CommittedAt:   bk.CommittedAt(),
		CancelledAt:   bk.CancelledAt(),
		Version:       bk.Version(),
		CreatedAt:     bk.CreatedAt(),
		UpdatedAt:     bk.UpdatedAt(),
	}, nil
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	id, err := uuid.Parse(m.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid booking ID %q: %w", m.ID, err)
	}
	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}

	return bookingDomain.ReconstructBooking(
		id,
		m.GuesthouseID,
		m.CustomerEmail,
		calendar.DateOf(m.StartDate),
		m.Nights,
		m.PartySize,
		m.TotalAmount,
		status,
		m.RequestedAt,
		m.CommittedAt,
		m.CancelledAt,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel) ([]*bookingDomain.Booking, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bk, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}
