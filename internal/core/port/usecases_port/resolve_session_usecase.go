package usecases_port

import (
	"context"
	"listing-web/internal/core/domain"
)

type ResolveSessionUseCasePort interface {
	// Возвращает сессию по токену из cookie.
	Execute(ctx context.Context, token string) (*domain.Session, error)
}
