package usecases_port

import (
	"context"
	"listing-web/internal/core/domain"
)

type GetContactUseCasePort interface {
	Execute(ctx context.Context, userRef string) (*domain.Contact, error)
}
