package usecases_port

import (
	"context"
	"listing-web/internal/core/domain"
)

type ImportListingUseCasePort interface {
	// Проверяет документ и сохраняет его в коллекцию listings.
	Execute(ctx context.Context, listingID string, body []byte) (*domain.Listing, error)
}
