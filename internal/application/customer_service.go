package application

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CustomerService implements use cases for customer accounts.
type CustomerService struct {
	*core
}

// GetCustomer returns a customer's profile and balance.
func (s *CustomerService) GetCustomer(ctx context.Context, email string) (*CustomerDTO, error) {
	c, err := s.engine.Customer(email)
	if err != nil {
		return nil, err
	}
	result := toCustomerDTO(c)
	return &result, nil
}

// CreditAccount tops up a customer's balance and persists it. It is driven by account.credited
// events, so it does not publish one itself.
func (s *CustomerService) CreditAccount(ctx context.Context, email string, amount decimal.Decimal) (*CustomerDTO, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.engine.CreditAccount(email, amount)
	if err != nil {
		return nil, err
	}
	if err := s.customers.UpdateBalance(ctx, c); err != nil {
		s.logger.Error("failed to persist customer balance",
			zap.String("customer_email", c.Email()),
			zap.Error(err),
		)
	}

	s.logger.Info("account credited",
		zap.String("customer_email", c.Email()),
		zap.String("amount", amount.String()),
		zap.String("balance", c.Balance().String()),
	)
	result := toCustomerDTO(c)
	return &result, nil
}
