package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"listing-web/internal/contextkeys"
	"listing-web/internal/core/domain"
	"listing-web/internal/core/port"
)

type SignInUseCase struct {
	userRepo   port.UserRepositoryPort
	tokenSvc   port.TokenServicePort
	sessionTTL time.Duration
}

func NewSignInUseCase(userRepo port.UserRepositoryPort, tokenSvc port.TokenServicePort, sessionTTL time.Duration) *SignInUseCase {
	return &SignInUseCase{
		userRepo:   userRepo,
		tokenSvc:   tokenSvc,
		sessionTTL: sessionTTL,
	}
}

// Execute не различает неизвестный email и неверный пароль.
func (uc *SignInUseCase) Execute(ctx context.Context, email, password string) (*domain.IssuedSession, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "SignIn",
		"email":    domain.MaskEmail(email),
	})
	logger.Info("Use case started", nil)

	if password == "" {
		return nil, domain.ErrMissingFields
	}
	normalized, err := domain.NormalizeEmail(email)
	if err != nil {
		logger.Warn("Sign-in rejected: invalid email", nil)
		return nil, err
	}

	user, err := uc.userRepo.FindByEmail(ctx, normalized)
	if err != nil {
		logger.Error("Repository failed to find user by email", err, nil)
		return nil, fmt.Errorf("%w: %w", domain.ErrAuthOperationFailed, err)
	}
	if user == nil {
		logger.Warn("Sign-in failed: user not found", nil)
		return nil, domain.ErrInvalidCredentials
	}

	logger = logger.WithFields(port.Fields{"user_id": user.ID.String()})

	if !user.CheckPassword(password) {
		logger.Warn("Sign-in failed: invalid credentials", nil)
		return nil, domain.ErrInvalidCredentials
	}

	issued, err := issueSession(ctx, uc.tokenSvc, user, uc.sessionTTL)
	if err != nil {
		logger.Error("Failed to issue session after sign-in", err, nil)
		if errors.Is(err, domain.ErrAuthOperationFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrAuthOperationFailed, err)
	}

	logger.Info("Use case finished successfully", nil)
	return issued, nil
}
