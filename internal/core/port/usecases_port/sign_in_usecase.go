package usecases_port

import (
	"context"
	"listing-web/internal/core/domain"
)

type SignInUseCasePort interface {
	Execute(ctx context.Context, email, password string) (*domain.IssuedSession, error)
}
