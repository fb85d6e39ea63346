package usecases_port

import (
	"context"
	"listing-web/internal/core/domain"
)

type LoadListingUseCasePort interface {
	Execute(ctx context.Context, listingID string) (*domain.Listing, error)
}
