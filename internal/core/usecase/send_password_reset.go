package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"listing-web/internal/contextkeys"
	"listing-web/internal/core/domain"
	"listing-web/internal/core/port"
)

type SendPasswordResetUseCase struct {
	userRepo port.UserRepositoryPort
	tokenSvc port.TokenServicePort
	queue    port.PasswordResetQueuePort
	baseURL  string
	resetTTL time.Duration
}

func NewSendPasswordResetUseCase(
	userRepo port.UserRepositoryPort,
	tokenSvc port.TokenServicePort,
	queue port.PasswordResetQueuePort,
	baseURL string,
	resetTTL time.Duration,
) *SendPasswordResetUseCase {
	return &SendPasswordResetUseCase{
		userRepo: userRepo,
		tokenSvc: tokenSvc,
		queue:    queue,
		baseURL:  strings.TrimRight(baseURL, "/"),
		resetTTL: resetTTL,
	}
}

// Execute выпускает токен сброса и ставит письмо в очередь внешнего mailer.
func (uc *SendPasswordResetUseCase) Execute(ctx context.Context, email string) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "SendPasswordReset",
		"email":    domain.MaskEmail(email),
	})
	logger.Info("Use case started", nil)

	normalized, err := domain.NormalizeEmail(email)
	if err != nil {
		logger.Warn("Password reset rejected: invalid email", nil)
		return err
	}

	user, err := uc.userRepo.FindByEmail(ctx, normalized)
	if err != nil {
		logger.Error("Repository failed to find user by email", err, nil)
		return fmt.Errorf("%w: %w", domain.ErrAuthOperationFailed, err)
	}
	if user == nil {
		logger.Warn("Password reset rejected: user not found", nil)
		return domain.ErrUserNotFound
	}

	logger = logger.WithFields(port.Fields{"user_id": user.ID.String()})

	token, err := uc.tokenSvc.GenerateToken(ctx, user, domain.PurposePasswordReset, uc.resetTTL)
	if err != nil {
		logger.Error("Failed to generate reset token", err, nil)
		return fmt.Errorf("%w: %w", domain.ErrAuthOperationFailed, err)
	}

	now := time.Now().UTC()
	req := domain.PasswordResetRequest{
		UserID:      user.ID,
		Email:       user.Email,
		ResetLink:   uc.baseURL + "/reset-password?token=" + url.QueryEscape(token),
		ExpiresAt:   now.Add(uc.resetTTL),
		RequestedAt: now,
	}

	if err := uc.queue.EnqueuePasswordReset(ctx, req); err != nil {
		logger.Error("Failed to enqueue password reset email", err, nil)
		return fmt.Errorf("%w: %w", domain.ErrResetDeliveryFailed, err)
	}

	logger.Info("Use case finished successfully", nil)
	return nil
}
