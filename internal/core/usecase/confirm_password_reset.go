package usecase

import (
	"context"
	"fmt"

	"listing-web/internal/contextkeys"
	"listing-web/internal/core/domain"
	"listing-web/internal/core/port"
)

type ConfirmPasswordResetUseCase struct {
	userRepo port.UserRepositoryPort
	tokenSvc port.TokenServicePort
}

func NewConfirmPasswordResetUseCase(userRepo port.UserRepositoryPort, tokenSvc port.TokenServicePort) *ConfirmPasswordResetUseCase {
	return &ConfirmPasswordResetUseCase{
		userRepo: userRepo,
		tokenSvc: tokenSvc,
	}
}

func (uc *ConfirmPasswordResetUseCase) Execute(ctx context.Context, token, newPassword string) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "ConfirmPasswordReset",
	})
	logger.Info("Use case started", nil)

	if token == "" {
		return domain.ErrTokenInvalid
	}

	claims, err := uc.tokenSvc.ValidateToken(ctx, token, domain.PurposePasswordReset)
	if err != nil {
		logger.Warn("Reset token validation failed", port.Fields{"error": err.Error()})
		return err
	}

	logger = logger.WithFields(port.Fields{"user_id": claims.UserID.String()})

	user, err := uc.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		logger.Error("Repository failed to find user by id", err, nil)
		return fmt.Errorf("%w: %w", domain.ErrAuthOperationFailed, err)
	}
	if user == nil {
		// пользователя удалили после выдачи токена
		logger.Warn("Reset token refers to a missing user", nil)
		return domain.ErrTokenInvalid
	}

	if !user.MatchesPasswordFingerprint(claims.PasswordFingerprint) {
		// пароль уже сменили по этому или более новому токену
		logger.Warn("Reset token no longer matches the current password", nil)
		return domain.ErrTokenInvalid
	}

	if err := user.SetPassword(newPassword); err != nil {
		logger.Warn("New password rejected", port.Fields{"error": err.Error()})
		return err
	}

	if err := uc.userRepo.UpdatePasswordHash(ctx, user.ID, user.PasswordHash); err != nil {
		logger.Error("Repository failed to update password hash", err, nil)
		return fmt.Errorf("%w: %w", domain.ErrAuthOperationFailed, err)
	}

	logger.Info("Use case finished successfully", nil)
	return nil
}
