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

type SignUpUseCase struct {
	userRepo   port.UserRepositoryPort
	tokenSvc   port.TokenServicePort
	sessionTTL time.Duration
}

func NewSignUpUseCase(userRepo port.UserRepositoryPort, tokenSvc port.TokenServicePort, sessionTTL time.Duration) *SignUpUseCase {
	return &SignUpUseCase{
		userRepo:   userRepo,
		tokenSvc:   tokenSvc,
		sessionTTL: sessionTTL,
	}
}

func (uc *SignUpUseCase) Execute(ctx context.Context, name, email, password string) (*domain.IssuedSession, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "SignUp",
		"email":    domain.MaskEmail(email),
	})
	logger.Info("Use case started", nil)

	// Хэширование пароля происходит внутри NewUser
	user, err := domain.NewUser(name, email, password)
	if err != nil {
		logger.Warn("Sign-up rejected", port.Fields{"error": err.Error()})
		return nil, err
	}

	existing, err := uc.userRepo.FindByEmail(ctx, user.Email)
	if err != nil {
		logger.Error("Repository failed while checking for existing email", err, nil)
		return nil, fmt.Errorf("%w: %w", domain.ErrAuthOperationFailed, err)
	}
	if existing != nil {
		logger.Warn("Sign-up failed: email already in use", nil)
		return nil, domain.ErrEmailInUse
	}

	logger = logger.WithFields(port.Fields{"user_id": user.ID.String()})

	if err := uc.userRepo.Create(ctx, user); err != nil {
		logger.Error("Repository failed to create user", err, nil)
		// гонка двух регистраций с одним email ловится уникальным индексом
		if errors.Is(err, domain.ErrEmailInUse) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrAuthOperationFailed, err)
	}

	issued, err := issueSession(ctx, uc.tokenSvc, user, uc.sessionTTL)
	if err != nil {
		logger.Error("Failed to issue session after sign-up", err, nil)
		return nil, fmt.Errorf("%w: %w", domain.ErrAuthOperationFailed, err)
	}

	logger.Info("Use case finished successfully", nil)
	return issued, nil
}
