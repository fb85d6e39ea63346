package usecases_port

import (
	"context"
	"listing-web/internal/core/domain"
)

type SignUpUseCasePort interface {
	Execute(ctx context.Context, name, email, password string) (*domain.IssuedSession, error)
}
