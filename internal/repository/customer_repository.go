package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	customerDomain "github.com/Kilat-Pet-Delivery/service-guesthouse/internal/domain/customer"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/pkg/domain"
)

// CustomerModel is the GORM model for the customers table.
type CustomerModel struct {
	Email     string          `gorm:"size:255;primaryKey"`
	Name      string          `gorm:"size:100;not null;index"`
	Balance   decimal.Decimal `gorm:"type:decimal(14,2);not null"`
	Version   int64           `gorm:"not null;default:1"`
	CreatedAt time.Time       `gorm:"not null"`
	UpdatedAt time.Time       `gorm:"not null"`
}

func (CustomerModel) TableName() string { return "customers" }

// GormCustomerRepository implements CustomerRepository using GORM.
type GormCustomerRepository struct {
	db *gorm.DB
}

func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) FindByEmail(ctx context.Context, email string) (*customerDomain.Customer, error) {
	email = customerDomain.NormalizeEmail(email)
	var model CustomerModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Customer", email)
		}
		return nil, err
	}
	return toCustomerDomain(&model), nil
}

// FindByName resolves a display name to its customer. Names are not unique; the oldest wins.
func (r *GormCustomerRepository) FindByName(ctx context.Context, name string) (*customerDomain.Customer, error) {
	var model CustomerModel
	if err := r.db.WithContext(ctx).
		Where("name = ?", name).
		Order("created_at ASC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Customer", name)
		}
		return nil, err
	}
	return toCustomerDomain(&model), nil
}

func (r *GormCustomerRepository) ListAll(ctx context.Context) ([]*customerDomain.Customer, error) {
	var models []CustomerModel
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&models).Error; err != nil {
		return nil, err
	}
	customers := make([]*customerDomain.Customer, len(models))
	for i := range models {
		customers[i] = toCustomerDomain(&models[i])
	}
	return customers, nil
}

func (r *GormCustomerRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&CustomerModel{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *GormCustomerRepository) Save(ctx context.Context, c *customerDomain.Customer) error {
	return r.db.WithContext(ctx).Create(toCustomerModel(c)).Error
}

// UpdateBalance writes the current balance. The engine already serializes every
// balance change, so the stored version is bumped rather than compared.
func (r *GormCustomerRepository) UpdateBalance(ctx context.Context, c *customerDomain.Customer) error {
	result := r.db.WithContext(ctx).
		Model(&CustomerModel{}).
		Where("email = ?", c.Email()).
		Updates(map[string]interface{}{
			"balance":    c.Balance(),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update balance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Customer", c.Email())
	}
	return nil
}

func toCustomerModel(c *customerDomain.Customer) *CustomerModel {
	return &CustomerModel{
		Email:     c.Email(),
		Name:      c.Name(),
		Balance:   c.Balance(),
		Version:   c.Version(),
		CreatedAt: c.CreatedAt(),
		UpdatedAt: c.UpdatedAt(),
	}
}

func toCustomerDomain(m *CustomerModel) *customerDomain.Customer {
	return customerDomain.Reconstruct(m.Name, m.Email, m.Balance, m.Version, m.CreatedAt, m.UpdatedAt)
}
