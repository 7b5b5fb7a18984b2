package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	ghDomain "github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/guesthouse"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/pkg/domain"
)

// GuesthouseModel is the GORM model for the guesthouses table.
type GuesthouseModel struct {
	ID            string                                        `gorm:"size:20;primaryKey"`
	Name          string                                        `gorm:"size:100;not null"`
	Kind          string                                        `gorm:"size:20;not null"`
	Attributes    datatypes.JSONType[ghDomain.KindAttributes]   `gorm:"not null"`
	PricePerNight decimal.Decimal                               `gorm:"type:decimal(14,2);not null"`
	MaxOccupancy  int                                           `gorm:"not null"`
	Description   string                                        `gorm:"type:text"`
	Features      datatypes.JSONSlice[string]                   `gorm:"not null"`
	Version       int64                                         `gorm:"not null;default:1"`
	CreatedAt     time.Time                                     `gorm:"not null"`
	UpdatedAt     time.Time                                     `gorm:"not null"`
}

// TableName sets the table name.
func (GuesthouseModel) TableName() string { return "guesthouses" }

// GormGuesthouseRepository implements GuesthouseRepository using GORM.
type GormGuesthouseRepository struct {
	db *gorm.DB
}

// NewGormGuesthouseRepository creates a new GormGuesthouseRepository.
func NewGormGuesthouseRepository(db *gorm.DB) *GormGuesthouseRepository {
	return &GormGuesthouseRepository{db: db}
}

// FindByID returns a single guesthouse by ID.
func (r *GormGuesthouseRepository) FindByID(ctx context.Context, id string) (*ghDomain.Guesthouse, error) {
	var model GuesthouseModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Guesthouse", id)
		}
		return nil, err
	}
	return toGuesthouseDomain(&model)
}

// ListAll returns the catalog ordered by ID.
func (r *GormGuesthouseRepository) ListAll(ctx context.Context) ([]*ghDomain.Guesthouse, error) {
	var models []GuesthouseModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	ghs := make([]*ghDomain.Guesthouse, len(models))
	for i := range models {
		gh, err := toGuesthouseDomain(&models[i])
		if err != nil {
			return nil, err
		}
		ghs[i] = gh
	}
	return ghs, nil
}

// Count returns the catalog size.
func (r *GormGuesthouseRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&GuesthouseModel{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

// Save persists a new guesthouse.
func (r *GormGuesthouseRepository) Save(ctx context.Context, gh *ghDomain.Guesthouse) error {
	model := toGuesthouseModel(gh)
	return r.db.WithContext(ctx).Create(&model).Error
}

// Update writes catalog changes, guarded by the previous version.
func (r *GormGuesthouseRepository) Update(ctx context.Context, gh *ghDomain.Guesthouse) error {
	model := toGuesthouseModel(gh)
	result := r.db.WithContext(ctx).
		Model(&GuesthouseModel{}).
		Where("id = ? AND version = ?", model.ID, gh.Version()-1).
		Updates(map[string]interface{}{
			"name":            model.Name,
			"price_per_night": model.PricePerNight,
			"max_occupancy":   model.MaxOccupancy,
			"description":     model.Description,
			"features":        model.Features,
			"attributes":      model.Attributes,
			"version":         model.Version,
			"updated_at":      model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update guesthouse: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("guesthouse was modified by another transaction")
	}
	return nil
}

func toGuesthouseModel(gh *ghDomain.Guesthouse) GuesthouseModel {
	return GuesthouseModel{
		ID:            gh.ID(),
		Name:          gh.Name(),
		Kind:          string(gh.Kind()),
		Attributes:    datatypes.NewJSONType(gh.Attributes()),
		PricePerNight: gh.PricePerNight(),
		MaxOccupancy:  gh.MaxOccupancy(),
		Description:   gh.Description(),
		Features:      datatypes.NewJSONSlice(gh.Features()),
		Version:       gh.Version(),
		CreatedAt:     gh.CreatedAt(),
		UpdatedAt:     gh.UpdatedAt(),
	}
}

func toGuesthouseDomain(m *GuesthouseModel) (*ghDomain.Guesthouse, error) {
	kind, err := ghDomain.ParseKind(m.Kind)
	if err != nil {
		return nil, err
	}
	return ghDomain.ReconstructGuesthouse(
		m.ID,
		m.Name,
		kind,
		m.Attributes.Data(),
		m.PricePerNight,
		m.MaxOccupancy,
		m.Description,
		[]string(m.Features),
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
