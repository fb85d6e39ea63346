package listingview

import (
	"errors"
	"fmt"
	"net/url"

	"listing-web/internal/core/domain"

	"github.com/mmcloughlin/geohash"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var ErrNotLoaded = errors.New("listing is not loaded yet")

const (
	MapZoom          = 13
	MapTileURL       = "https://{s}.tile.openstreetmap.de/tiles/osmde/{z}/{x}/{y}.png"
	MapAttribution   = `&copy; <a href="http://osm.org/copyright">OpenStreetMap</a> contributors`
	geohashPrecision = 7
)

type Slide struct {
	Index    int
	ImageURL string
}

// MapView - все, что нужно скрипту карты на странице.
type MapView struct {
	Lat         float64
	Lng         float64
	Zoom        int
	Geohash     string
	TileURL     string
	Attribution string
	Popup       string
	ExternalURL string
}

type Presentation struct {
	ListingID     string
	Name          string
	Location      string
	TypeLabel     string
	PriceLabel    string
	HasDiscount   bool
	DiscountLabel string
	Features      []string
	Slides        []Slide
	Map           MapView

	ShareURL        string
	ShareLinkCopied bool

	ShowContact bool
	ContactURL  string
}

// FormatAmount ставит разделитель тысяч: 2500 -> "2,500".
func FormatAmount(n int64) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

func PriceLabel(l *domain.Listing) string {
	return FormatAmount(l.DisplayPrice())
}

// DiscountLabel форматируется так же, как цена; ok == false без акции.
func DiscountLabel(l *domain.Listing) (string, bool) {
	amount, ok := l.Discount()
	if !ok {
		return "", false
	}
	return FormatAmount(amount), true
}

func TypeLabel(t domain.ListingType) string {
	return "For " + cases.Title(language.English).String(string(t))
}

// ShowContact: ссылка видна анонимному посетителю и любому пользователю,
// кроме владельца объявления.
func ShowContact(l *domain.Listing, session *domain.Session) bool {
	userID, ok := session.CurrentUserID()
	if !ok {
		return true
	}
	return !l.IsOwnedBy(userID)
}

// ContactURL экранирует и сегмент пути, и название в query.
func ContactURL(l *domain.Listing) string {
	q := url.Values{}
	q.Set("listingName", l.Name)
	return "/contact/" + url.PathEscape(l.UserRef) + "?" + q.Encode()
}

func Features(l *domain.Listing) []string {
	features := []string{
		plural(l.Bedrooms, "Bedroom"),
		plural(l.Bathrooms, "Bathroom"),
	}
	if l.Parking {
		features = append(features, "Parking Spot")
	}
	if l.Furnished {
		features = append(features, "Furnished")
	}
	return features
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func mapView(l *domain.Listing) MapView {
	lat, lng := l.Geolocation.Lat, l.Geolocation.Lng
	return MapView{
		Lat:         lat,
		Lng:         lng,
		Zoom:        MapZoom,
		Geohash:     geohash.EncodeWithPrecision(lat, lng, geohashPrecision),
		TileURL:     MapTileURL,
		Attribution: MapAttribution,
		Popup:       l.Location,
		ExternalURL: fmt.Sprintf("https://www.openstreetmap.org/?mlat=%.6f&mlon=%.6f#map=%d/%.6f/%.6f", lat, lng, MapZoom, lat, lng),
	}
}

// Present - чистая функция от объявления и сессии.
func Present(l *domain.Listing, session *domain.Session) *Presentation {
	slides := make([]Slide, len(l.ImageURLs))
	for i, u := range l.ImageURLs {
		slides[i] = Slide{Index: i, ImageURL: u}
	}

	discount, hasDiscount := DiscountLabel(l)
	p := &Presentation{
		ListingID:     l.ID,
		Name:          l.Name,
		Location:      l.Location,
		TypeLabel:     TypeLabel(l.Type),
		PriceLabel:    PriceLabel(l),
		HasDiscount:   hasDiscount,
		DiscountLabel: discount,
		Features:      Features(l),
		Slides:        slides,
		Map:           mapView(l),
		ShowContact:   ShowContact(l, session),
	}
	if p.ShowContact {
		p.ContactURL = ContactURL(l)
	}
	return p
}
