package usecase

import (
	"context"
	"fmt"
	"strings"

	"listing-web/internal/contextkeys"
	"listing-web/internal/contracts"
	"listing-web/internal/core/domain"
	"listing-web/internal/core/port"
)

type LoadListingUseCase struct {
	store port.DocumentStorePort
}

func NewLoadListingUseCase(store port.DocumentStorePort) *LoadListingUseCase {
	return &LoadListingUseCase{store: store}
}

// Execute делает ровно одно чтение документа listings/<listingID>.
// Повторов нет: ошибка хранилища сразу превращается в ErrFetchFailed.
func (uc *LoadListingUseCase) Execute(ctx context.Context, listingID string) (*domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "LoadListing",
		"listing_id": listingID,
	})
	logger.Info("Use case started", nil)

	if strings.TrimSpace(listingID) == "" {
		logger.Warn("Empty listing id", nil)
		return nil, domain.ErrInvalidListingID
	}

	doc, err := uc.store.Read(ctx, domain.ListingsCollection, listingID)
	if err != nil {
		logger.Error("Document store read failed", err, nil)
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}
	if doc == nil || !doc.Exists {
		logger.Info("Listing does not exist", nil)
		return nil, domain.ErrListingNotFound
	}

	listing, err := contracts.DecodeListing(listingID, doc.Data)
	if err != nil {
		logger.Error("Listing document could not be decoded", err, nil)
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailed, err)
	}

	logger.Info("Use case finished successfully", port.Fields{"owner_id": listing.UserRef})
	return listing, nil
}
