package events

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-guesthouse/internal/application"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/pkg/domain"
	"github.com/Kilat-Pet-Delivery/service-guesthouse/pkg/kafka"
)

// AccountCrediter applies a top-up to a customer's balance.
type AccountCrediter interface {
	CreditAccount(ctx context.Context, email string, amount decimal.Decimal) (*application.CustomerDTO, error)
}

// AccountEventConsumer listens to account events and credits customer balances.
type AccountEventConsumer struct {
	consumer *kafka.Consumer
	service  AccountCrediter
	logger   *zap.Logger
}

// NewAccountEventConsumer creates a new AccountEventConsumer.
func NewAccountEventConsumer(
	brokers []string,
	groupID string,
	service AccountCrediter,
	logger *zap.Logger,
) *AccountEventConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, application.TopicAccountEvents, logger)
	return &AccountEventConsumer{
		consumer: consumer,
		service:  service,
		logger:   logger,
	}
}

// Start begins consuming account events. This blocks until the context is cancelled.
func (c *AccountEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *AccountEventConsumer) Close() error {
	return c.consumer.Close()
}

func (c *AccountEventConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from account topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	switch cloudEvent.Type {
	case application.AccountCredited:
		return c.handleAccountCredited(ctx, cloudEvent)
	default:
		c.logger.Debug("ignoring unhandled account event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}
}

func (c *AccountEventConsumer) handleAccountCredited(ctx context.Context, cloudEvent kafka.CloudEvent) error {
	var evt application.AccountCreditedEvent
	if err := cloudEvent.ParseData(&evt); err != nil {
		c.logger.Error("failed to parse AccountCreditedEvent data",
			zap.Error(err),
		)
		return nil // Don't retry malformed data
	}

	c.logger.Info("processing account credited event",
		zap.String("event_id", cloudEvent.ID),
		zap.String("customer_email", evt.CustomerEmail),
		zap.String("amount", evt.Amount.String()),
	)

	if _, err := c.service.CreditAccount(ctx, evt.CustomerEmail, evt.Amount); err != nil {
		var domainErr *domain.Error
		if errors.As(err, &domainErr) {
			// Unknown customer or bad amount; replaying will not help.
			c.logger.Warn("rejected account credit",
				zap.String("customer_email", evt.CustomerEmail),
				zap.String("code", domainErr.Code),
				zap.Error(err),
			)
			return nil
		}
		c.logger.Error("failed to credit account",
			zap.String("customer_email", evt.CustomerEmail),
			zap.Error(err),
		)
		return err
	}
	return nil
}
