package domain

import (
	"fmt"
	"strings"
)

// ListingsCollection - коллекция документного хранилища, в которой лежат объявления.
const ListingsCollection = "listings"

// ListingType - тип сделки по объявлению.
type ListingType string

const (
	ListingTypeRent ListingType = "rent"
	ListingTypeSale ListingType = "sale"
)

// GeoPoint - координаты объекта (широта, долгота).
type GeoPoint struct {
	Lat float64
	Lng float64
}

// Listing - объявление о недвижимости. Создается внешней системой,
// здесь только читается и никогда не изменяется.
type Listing struct {
	ID              string
	Name            string
	ImageURLs       []string // порядок = порядок показа в карусели
	RegularPrice    int64
	DiscountedPrice int64 // имеет смысл только при Offer == true
	Offer           bool
	Location        string
	Type            ListingType
	Bedrooms        int
	Bathrooms       int
	Parking         bool
	Furnished       bool
	Geolocation     GeoPoint
	UserRef         string // ID владельца объявления
}

// Validate проверяет инварианты объявления.
func (l *Listing) Validate() error {
	var problems []string

	if strings.TrimSpace(l.Name) == "" {
		problems = append(problems, "name is empty")
	}
	if len(l.ImageURLs) == 0 {
		problems = append(problems, "at least one image url is required")
	}
	if l.RegularPrice < 0 {
		problems = append(problems, "regularPrice is negative")
	}
	if l.Offer {
		if l.DiscountedPrice < 0 {
			problems = append(problems, "discountedPrice is negative")
		}
		if l.DiscountedPrice > l.RegularPrice {
			problems = append(problems, "discountedPrice exceeds regularPrice")
		}
	}
	if l.Type != ListingTypeRent && l.Type != ListingTypeSale {
		problems = append(problems, fmt.Sprintf("unknown type %q", l.Type))
	}
	if l.Bedrooms < 1 || l.Bathrooms < 1 {
		problems = append(problems, "bedrooms and bathrooms must be positive")
	}
	if l.Geolocation.Lat < -90 || l.Geolocation.Lat > 90 || l.Geolocation.Lng < -180 || l.Geolocation.Lng > 180 {
		problems = append(problems, "geolocation is out of range")
	}
	if strings.TrimSpace(l.UserRef) == "" {
		problems = append(problems, "userRef is empty")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidListing, strings.Join(problems, "; "))
	}
	return nil
}

// DisplayPrice - цена, которую видит пользователь.
func (l *Listing) DisplayPrice() int64 {
	if l.Offer {
		return l.DiscountedPrice
	}
	return l.RegularPrice
}

// Discount возвращает размер скидки; ok == false, если скидки нет.
func (l *Listing) Discount() (amount int64, ok bool) {
	if !l.Offer {
		return 0, false
	}
	return l.RegularPrice - l.DiscountedPrice, true
}

// IsOwnedBy сообщает, принадлежит ли объявление пользователю с данным ID.
func (l *Listing) IsOwnedBy(userID string) bool {
	return userID != "" && userID == l.UserRef
}

// Document - ответ документного хранилища на чтение по ключу.
type Document struct {
	Collection string
	ID         string
	Exists     bool
	Data       []byte // сырой JSON, пустой при Exists == false
}
