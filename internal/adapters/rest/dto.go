package rest

import "listing-web/internal/core/listingview"

// ListingResponse - JSON-представление страницы объявления.
type ListingResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Location    string      `json:"location"`
	Type        string      `json:"type"`
	Price       string      `json:"price"`
	Discount    string      `json:"discount,omitempty"`
	Features    []string    `json:"features"`
	Images      []string    `json:"images"`
	Map         MapResponse `json:"map"`
	ShareURL    string      `json:"share_url"`
	ShowContact bool        `json:"show_contact"`
	ContactURL  string      `json:"contact_url,omitempty"`
}

type MapResponse struct {
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Zoom        int     `json:"zoom"`
	Geohash     string  `json:"geohash"`
	TileURL     string  `json:"tile_url"`
	Attribution string  `json:"attribution"`
}

func toListingResponse(p *listingview.Presentation) ListingResponse {
	images := make([]string, len(p.Slides))
	for i, s := range p.Slides {
		images[i] = s.ImageURL
	}
	return ListingResponse{
		ID:          p.ListingID,
		Name:        p.Name,
		Location:    p.Location,
		Type:        p.TypeLabel,
		Price:       p.PriceLabel,
		Discount:    p.DiscountLabel,
		Features:    p.Features,
		Images:      images,
		ShareURL:    p.ShareURL,
		ShowContact: p.ShowContact,
		ContactURL:  p.ContactURL,
		Map: MapResponse{
			Lat:         p.Map.Lat,
			Lng:         p.Map.Lng,
			Zoom:        p.Map.Zoom,
			Geohash:     p.Map.Geohash,
			TileURL:     p.Map.TileURL,
			Attribution: p.Map.Attribution,
		},
	}
}

type PasswordResetRequest struct {
	Email string `json:"email"`
}

type PasswordResetResponse struct {
	Status string `json:"status"`
}

// Данные форм для шаблонов.

type listingPageContent struct {
	Presentation *listingview.Presentation
	ShareResetMS int64
}

type signInForm struct {
	Email string
	Next  string
}

type signUpForm struct {
	Name  string
	Email string
}

type forgotPasswordForm struct {
	Email string
}

type resetPasswordForm struct {
	Token string
}

type contactPageContent struct {
	Name        string
	ListingName string
	MailtoURL   string
}
