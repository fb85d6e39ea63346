package port

import (
	"context"
	"listing-web/internal/core/domain"

	"github.com/google/uuid"
)

// UserRepositoryPort - хранилище учетных записей.
// Find* возвращают (nil, nil), если пользователь не найден.
type UserRepositoryPort interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, passwordHash string) error
}
