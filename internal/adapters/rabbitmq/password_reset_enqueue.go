package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"listing-web/internal/contextkeys"
	"listing-web/internal/contracts"
	"listing-web/internal/core/domain"
	"listing-web/internal/core/port"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 10 * time.Second

// PasswordResetRequestedDTO - тело события PasswordResetRequestedEvent/1.0.0.
type PasswordResetRequestedDTO struct {
	UserID      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	ResetLink   string    `json:"reset_link"`
	ExpiresAt   time.Time `json:"expires_at"`
	RequestedAt time.Time `json:"requested_at"`
}

type publisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// PasswordResetQueueAdapter публикует заявки на письмо сброса пароля.
type PasswordResetQueueAdapter struct {
	producer   publisher
	routingKey string
}

func NewPasswordResetQueueAdapter(producer publisher, routingKey string) (*PasswordResetQueueAdapter, error) {
	if producer == nil {
		return nil, errors.New("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, errors.New("rabbitmq adapter: routingKey cannot be empty")
	}
	return &PasswordResetQueueAdapter{producer: producer, routingKey: routingKey}, nil
}

func (a *PasswordResetQueueAdapter) EnqueuePasswordReset(ctx context.Context, req domain.PasswordResetRequest) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "PasswordResetQueueAdapter",
		"routing_key": a.routingKey,
		"user_id":     req.UserID.String(),
	})

	body, err := json.Marshal(PasswordResetRequestedDTO{
		UserID:      req.UserID,
		Email:       req.Email,
		ResetLink:   req.ResetLink,
		ExpiresAt:   req.ExpiresAt.UTC(),
		RequestedAt: req.RequestedAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("rabbitmq adapter: failed to marshal event: %w", err)
	}

	// Сообщение, не прошедшее контракт, mailer все равно отбросит.
	if err := contracts.Validate(contracts.PasswordResetRequestedEvent, contracts.PasswordResetRequestedEventVersion, body); err != nil {
		logger.Error("Event does not match its contract", err, nil)
		return fmt.Errorf("rabbitmq adapter: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Type:         contracts.PasswordResetRequestedEvent,
		MessageId:    uuid.NewString(),
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Headers: amqp.Table{
			"x-schema-version": contracts.PasswordResetRequestedEventVersion,
		},
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	logger.Info("Publishing password reset request", nil)
	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		logger.Error("Failed to publish password reset request", err, nil)
		return fmt.Errorf("rabbitmq adapter: failed to publish password reset for %s: %w", req.UserID, err)
	}

	logger.Info("Password reset request published", nil)
	return nil
}
