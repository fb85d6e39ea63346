package contracts

import (
	"encoding/json"
	"fmt"
	"math"

	"listing-web/internal/core/domain"
)

const (
	ListingDocument        = "ListingDocument"
	ListingDocumentVersion = "1.0.0"

	PasswordResetRequestedEvent        = "PasswordResetRequestedEvent"
	PasswordResetRequestedEventVersion = "1.0.0"
)

// maxWholeNumber - наибольшее целое, которое float64 хранит без потерь.
// Схема не пропускает значения больше.
const maxWholeNumber = 1<<53 - 1

// listingDocument - форма документа в коллекции listings.
// Целые поля читаются как json.Number: хранилище может отдать 2500 как 2500.0.
type listingDocument struct {
	Name            string      `json:"name"`
	ImgURLs         []string    `json:"imgUrls"`
	RegularPrice    json.Number `json:"regularPrice"`
	DiscountedPrice json.Number `json:"discountedPrice"`
	Offer           bool        `json:"offer"`
	Location        string      `json:"location"`
	Type            string      `json:"type"`
	Bedrooms        json.Number `json:"bedrooms"`
	Bathrooms       json.Number `json:"bathrooms"`
	Parking         bool        `json:"parking"`
	Furnished       bool        `json:"furnished"`
	Geolocation     struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"geolocation"`
	UserRef string `json:"userRef"`
}

// DecodeListing проверяет документ по схеме, разбирает его и проверяет
// инварианты, которые схема выразить не может (скидка <= цены).
func DecodeListing(id string, body []byte) (*domain.Listing, error) {
	if err := Validate(ListingDocument, ListingDocumentVersion, body); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidListing, err)
	}

	var doc listingDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidListing, err)
	}

	regularPrice, err := wholeNumber("regularPrice", doc.RegularPrice)
	if err != nil {
		return nil, err
	}
	discountedPrice, err := wholeNumber("discountedPrice", doc.DiscountedPrice)
	if err != nil {
		return nil, err
	}
	bedrooms, err := wholeNumber("bedrooms", doc.Bedrooms)
	if err != nil {
		return nil, err
	}
	bathrooms, err := wholeNumber("bathrooms", doc.Bathrooms)
	if err != nil {
		return nil, err
	}

	listing := &domain.Listing{
		ID:              id,
		Name:            doc.Name,
		ImageURLs:       doc.ImgURLs,
		RegularPrice:    regularPrice,
		DiscountedPrice: discountedPrice,
		Offer:           doc.Offer,
		Location:        doc.Location,
		Type:            domain.ListingType(doc.Type),
		Bedrooms:        int(bedrooms),
		Bathrooms:       int(bathrooms),
		Parking:         doc.Parking,
		Furnished:       doc.Furnished,
		Geolocation:     domain.GeoPoint{Lat: doc.Geolocation.Lat, Lng: doc.Geolocation.Lng},
		UserRef:         doc.UserRef,
	}

	if err := listing.Validate(); err != nil {
		return nil, err
	}
	return listing, nil
}

// wholeNumber переводит число документа в int64 без неявных преобразований
// float64 -> int64. Пустое значение (поле отсутствует) дает 0.
func wholeNumber(field string, n json.Number) (int64, error) {
	if n == "" {
		return 0, nil
	}
	if v, err := n.Int64(); err == nil {
		if v < -maxWholeNumber || v > maxWholeNumber {
			return 0, fmt.Errorf("%w: %s is out of range", domain.ErrInvalidListing, field)
		}
		return v, nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > maxWholeNumber {
		return 0, fmt.Errorf("%w: %s must be a whole number", domain.ErrInvalidListing, field)
	}
	return int64(f), nil
}
