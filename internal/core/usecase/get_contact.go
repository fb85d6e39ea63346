package usecase

import (
	"context"
	"fmt"

	"listing-web/internal/contextkeys"
	"listing-web/internal/core/domain"
	"listing-web/internal/core/port"

	"github.com/google/uuid"
)

type GetContactUseCase struct {
	userRepo port.UserRepositoryPort
}

func NewGetContactUseCase(userRepo port.UserRepositoryPort) *GetContactUseCase {
	return &GetContactUseCase{userRepo: userRepo}
}

// Execute возвращает ErrUserNotFound и для некорректного, и для неизвестного userRef.
func (uc *GetContactUseCase) Execute(ctx context.Context, userRef string) (*domain.Contact, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "GetContact",
		"user_ref": userRef,
	})
	logger.Info("Use case started", nil)

	id, err := uuid.Parse(userRef)
	if err != nil {
		logger.Warn("userRef is not a valid user id", nil)
		return nil, domain.ErrUserNotFound
	}

	user, err := uc.userRepo.FindByID(ctx, id)
	if err != nil {
		logger.Error("Repository failed to find user by id", err, nil)
		return nil, fmt.Errorf("%w: %w", domain.ErrAuthOperationFailed, err)
	}
	if user == nil {
		logger.Warn("Owner not found", nil)
		return nil, domain.ErrUserNotFound
	}

	logger.Info("Use case finished successfully", nil)
	return &domain.Contact{UserID: user.ID, Name: user.Name, Email: user.Email}, nil
}
