package customer

import "context"

// CustomerRepository defines persistence operations for customers and their balances.
type CustomerRepository interface {
	FindByEmail(ctx context.Context, email string) (*Customer, error)
	FindByName(ctx context.Context, name string) (*Customer, error)
	ListAll(ctx context.Context) ([]*Customer, error)
	Count(ctx context.Context) (int64, error)
	Save(ctx context.Context, c *Customer) error
	UpdateBalance(ctx context.Context, c *Customer) error
}
