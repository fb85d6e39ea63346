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

type ImportListingUseCase struct {
	store port.DocumentWriterPort
}

func NewImportListingUseCase(store port.DocumentWriterPort) *ImportListingUseCase {
	return &ImportListingUseCase{store: store}
}

// Execute сохраняет только документы, которые потом прочитает LoadListing.
func (uc *ImportListingUseCase) Execute(ctx context.Context, listingID string, body []byte) (*domain.Listing, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "ImportListing",
		"listing_id": listingID,
	})
	logger.Info("Use case started", nil)

	if strings.TrimSpace(listingID) == "" {
		return nil, domain.ErrInvalidListingID
	}

	listing, err := contracts.DecodeListing(listingID, body)
	if err != nil {
		logger.Warn("Listing document rejected", port.Fields{"error": err.Error()})
		return nil, err
	}

	if err := uc.store.Put(ctx, domain.ListingsCollection, listingID, body); err != nil {
		logger.Error("Failed to store listing document", err, nil)
		return nil, fmt.Errorf("failed to store listing %s: %w", listingID, err)
	}

	logger.Info("Use case finished successfully", port.Fields{"owner_id": listing.UserRef})
	return listing, nil
}
