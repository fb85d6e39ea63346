package rest

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"listing-web/internal/core/domain"
	"listing-web/internal/core/port"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type nopLogger struct{}

func (nopLogger) Info(string, port.Fields)                 {}
func (nopLogger) Warn(string, port.Fields)                 {}
func (nopLogger) Error(string, error, port.Fields)         {}
func (nopLogger) Debug(string, port.Fields)                {}
func (n nopLogger) WithFields(port.Fields) port.LoggerPort { return n }

type loadFunc func(ctx context.Context, id string) (*domain.Listing, error)

func (f loadFunc) Execute(ctx context.Context, id string) (*domain.Listing, error) { return f(ctx, id) }

type resolveFunc func(ctx context.Context, token string) (*domain.Session, error)

func (f resolveFunc) Execute(ctx context.Context, token string) (*domain.Session, error) {
	return f(ctx, token)
}

type signInFunc func(ctx context.Context, email, password string) (*domain.IssuedSession, error)

func (f signInFunc) Execute(ctx context.Context, email, password string) (*domain.IssuedSession, error) {
	return f(ctx, email, password)
}

type signUpFunc func(ctx context.Context, name, email, password string) (*domain.IssuedSession, error)

func (f signUpFunc) Execute(ctx context.Context, name, email, password string) (*domain.IssuedSession, error) {
	return f(ctx, name, email, password)
}

type sendResetFunc func(ctx context.Context, email string) error

func (f sendResetFunc) Execute(ctx context.Context, email string) error { return f(ctx, email) }

type confirmResetFunc func(ctx context.Context, token, password string) error

func (f confirmResetFunc) Execute(ctx context.Context, token, password string) error {
	return f(ctx, token, password)
}

type contactFunc func(ctx context.Context, userRef string) (*domain.Contact, error)

func (f contactFunc) Execute(ctx context.Context, userRef string) (*domain.Contact, error) {
	return f(ctx, userRef)
}

const ownerID = "6f1c2b8e-7d4a-4c3e-9a51-2f0e8b7c1d23"

func beachHouse() *domain.Listing {
	return &domain.Listing{
		ID:              "abc",
		Name:            "Beach house",
		ImageURLs:       []string{"https://img.example.com/1.jpg", "https://img.example.com/2.jpg"},
		RegularPrice:    2500,
		DiscountedPrice: 2000,
		Offer:           true,
		Location:        "1 Ocean Drive",
		Type:            domain.ListingTypeRent,
		Bedrooms:        3,
		Bathrooms:       1,
		Parking:         true,
		Geolocation:     domain.GeoPoint{Lat: 52.52, Lng: 13.405},
		UserRef:         ownerID,
	}
}

// testDeps - подменяемые use case'ы; по умолчанию все успешны.
type testDeps struct {
	load      loadFunc
	signIn    signInFunc
	signUp    signUpFunc
	sendReset sendResetFunc
	confirm   confirmResetFunc
	contact   contactFunc
	sessions  map[string]*domain.Session
}

func newTestDeps() *testDeps {
	issued := &domain.IssuedSession{
		Session:   domain.Session{UserID: ownerID, Email: "owner@example.com", Name: "Owner"},
		Token:     "issued-token",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	return &testDeps{
		load: func(_ context.Context, id string) (*domain.Listing, error) {
			if id != "abc" {
				return nil, domain.ErrListingNotFound
			}
			return beachHouse(), nil
		},
		signIn:    func(context.Context, string, string) (*domain.IssuedSession, error) { return issued, nil },
		signUp:    func(context.Context, string, string, string) (*domain.IssuedSession, error) { return issued, nil },
		sendReset: func(context.Context, string) error { return nil },
		confirm:   func(context.Context, string, string) error { return nil },
		contact: func(_ context.Context, userRef string) (*domain.Contact, error) {
			if userRef != ownerID {
				return nil, domain.ErrUserNotFound
			}
			return &domain.Contact{UserID: uuid.MustParse(ownerID), Name: "Owner", Email: "owner@example.com"}, nil
		},
		sessions: map[string]*domain.Session{
			"owner-token": {UserID: ownerID, Email: "owner@example.com", Name: "Owner"},
			"guest-token": {UserID: uuid.NewString(), Email: "guest@example.com", Name: "Guest"},
		},
	}
}

func (d *testDeps) router(t *testing.T) http.Handler {
	t.Helper()
	renderer, err := NewRenderer()
	require.NoError(t, err)

	resolve := resolveFunc(func(_ context.Context, token string) (*domain.Session, error) {
		s, ok := d.sessions[token]
		if !ok {
			return nil, domain.ErrTokenInvalid
		}
		return s, nil
	})

	return NewRouter(ServerConfig{CORSAllowedOrigins: []string{"http://localhost:5173"}}, Handlers{
		Pages:    NewPageHandlers(renderer),
		Listings: NewListingHandlers(d.load, renderer, "https://homes.example.com", 2*time.Second),
		Auth:     NewAuthHandlers(d.signIn, d.signUp, renderer),
		Password: NewPasswordHandlers(d.sendReset, d.confirm, renderer),
		Contact:  NewContactHandlers(d.contact, renderer),
	}, resolve, nopLogger{})
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func withSession(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: token})
	return req
}

func postForm(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestListingPage(t *testing.T) {
	h := newTestDeps().router(t)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/listings/abc", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Beach house - $2,000")
	assert.Contains(t, body, "$500 discount")
	assert.Contains(t, body, "For Rent")
	assert.Contains(t, body, "3 Bedrooms")
	assert.Contains(t, body, "1 Bathroom")
	assert.Contains(t, body, "Parking Spot")
	assert.NotContains(t, body, "Furnished")
	assert.Contains(t, body, `data-link="https://homes.example.com/listings/abc"`)
	assert.Contains(t, body, `data-reset-ms="2000"`)
	assert.Contains(t, body, "https://img.example.com/2.jpg")
	assert.Contains(t, body, "Contact Landlord")
	assert.NotEmpty(t, rec.Header().Get(traceHeader))
}

func TestListingPageHidesContactForOwner(t *testing.T) {
	h := newTestDeps().router(t)

	owner := serve(h, withSession(httptest.NewRequest(http.MethodGet, "/listings/abc", nil), "owner-token"))
	require.Equal(t, http.StatusOK, owner.Code)
	assert.NotContains(t, owner.Body.String(), "Contact Landlord")

	guest := serve(h, withSession(httptest.NewRequest(http.MethodGet, "/listings/abc", nil), "guest-token"))
	require.Equal(t, http.StatusOK, guest.Code)
	assert.Contains(t, guest.Body.String(), "Contact Landlord")
}

func TestListingPageRendersPopupAsText(t *testing.T) {
	deps := newTestDeps()
	deps.load = func(context.Context, string) (*domain.Listing, error) {
		l := beachHouse()
		l.Location = `<img src=x onerror=alert(document.cookie)>`
		return l, nil
	}

	rec := serve(deps.router(t), httptest.NewRequest(http.MethodGet, "/listings/abc", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "<img src=x")
	assert.Contains(t, body, `data-popup="&lt;img src=x onerror=alert(document.cookie)&gt;"`)
	assert.Contains(t, body, "popup.textContent = el.dataset.popup;")
	assert.Contains(t, body, "bindPopup(popup)")
	assert.NotContains(t, body, "bindPopup(el.dataset.popup)")
}

func TestListingPageErrors(t *testing.T) {
	tests := []struct {
		name       string
		loadErr    error
		wantStatus int
		wantText   string
	}{
		{"not found", domain.ErrListingNotFound, http.StatusNotFound, "Listing does not exist"},
		{"fetch failed", domain.ErrFetchFailed, http.StatusBadGateway, "Could not load the listing"},
		{"timeout", context.DeadlineExceeded, http.StatusGatewayTimeout, "The request took too long"},
		{"store timeout", fmt.Errorf("%w: %w", domain.ErrFetchFailed, context.DeadlineExceeded), http.StatusGatewayTimeout, "Could not load the listing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deps := newTestDeps()
			deps.load = func(context.Context, string) (*domain.Listing, error) { return nil, tt.loadErr }
			rec := serve(deps.router(t), httptest.NewRequest(http.MethodGet, "/listings/abc", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantText)
		})
	}
}

func TestGetListingJSON(t *testing.T) {
	h := newTestDeps().router(t)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/api/v1/listings/abc", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"id": "abc",
		"name": "Beach house",
		"location": "1 Ocean Drive",
		"type": "For Rent",
		"price": "2,000",
		"discount": "500",
		"features": ["3 Bedrooms", "1 Bathroom", "Parking Spot"],
		"images": ["https://img.example.com/1.jpg", "https://img.example.com/2.jpg"],
		"map": {
			"lat": 52.52,
			"lng": 13.405,
			"zoom": 13,
			"geohash": "u33dc0c",
			"tile_url": "https://{s}.tile.openstreetmap.de/tiles/osmde/{z}/{x}/{y}.png",
			"attribution": "&copy; <a href=\"http://osm.org/copyright\">OpenStreetMap</a> contributors"
		},
		"share_url": "https://homes.example.com/listings/abc",
		"show_contact": true,
		"contact_url": "/contact/6f1c2b8e-7d4a-4c3e-9a51-2f0e8b7c1d23?listingName=Beach+house"
	}`, rec.Body.String())

	missing := serve(h, httptest.NewRequest(http.MethodGet, "/api/v1/listings/nope", nil))
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.JSONEq(t, `{"error":"Listing does not exist"}`, missing.Body.String())
}

func TestForgotPasswordShowsExactlyOneNotification(t *testing.T) {
	t.Run("before submit", func(t *testing.T) {
		rec := serve(newTestDeps().router(t), httptest.NewRequest(http.MethodGet, "/forgot-password", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, 0, strings.Count(rec.Body.String(), `role="alert"`))
	})

	t.Run("success", func(t *testing.T) {
		deps := newTestDeps()
		var mu sync.Mutex
		var calls []string
		deps.sendReset = func(_ context.Context, email string) error {
			mu.Lock()
			defer mu.Unlock()
			calls = append(calls, email)
			return nil
		}

		rec := serve(deps.router(t), postForm("/forgot-password", url.Values{"email": {" owner@example.com "}}))

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Equal(t, 1, strings.Count(body, `role="alert"`))
		assert.Equal(t, 1, strings.Count(body, "Email was sent"))
		assert.Contains(t, body, "toast-success")
		assert.Equal(t, []string{"owner@example.com"}, calls)
	})

	t.Run("failure", func(t *testing.T) {
		deps := newTestDeps()
		deps.sendReset = func(context.Context, string) error { return domain.ErrResetDeliveryFailed }

		rec := serve(deps.router(t), postForm("/forgot-password", url.Values{"email": {"owner@example.com"}}))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		body := rec.Body.String()
		assert.Equal(t, 1, strings.Count(body, `role="alert"`))
		assert.Contains(t, body, "toast-error")
		assert.Contains(t, body, "Could not send reset email")
		assert.NotContains(t, body, "Email was sent")
	})
}

func TestRequestPasswordResetAPI(t *testing.T) {
	deps := newTestDeps()
	h := deps.router(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/password-reset", strings.NewReader(`{"email":"owner@example.com"}`))
	rec := serve(h, req)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"status":"accepted"}`, rec.Body.String())

	bad := serve(h, httptest.NewRequest(http.MethodPost, "/api/v1/auth/password-reset", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, bad.Code)

	deps.sendReset = func(context.Context, string) error { return domain.ErrUserNotFound }
	unknown := serve(deps.router(t), httptest.NewRequest(http.MethodPost, "/api/v1/auth/password-reset", strings.NewReader(`{"email":"x@example.com"}`)))
	assert.Equal(t, http.StatusNotFound, unknown.Code)
	assert.JSONEq(t, `{"error":"No account is registered with that email"}`, unknown.Body.String())
}

func TestResetPassword(t *testing.T) {
	deps := newTestDeps()
	var gotToken, gotPassword string
	deps.confirm = func(_ context.Context, token, password string) error {
		gotToken, gotPassword = token, password
		return nil
	}
	h := deps.router(t)

	page := serve(h, httptest.NewRequest(http.MethodGet, "/reset-password?token=tok-1", nil))
	require.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), `value="tok-1"`)

	rec := serve(h, postForm("/reset-password", url.Values{"token": {"tok-1"}, "password": {"secret123"}}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok-1", gotToken)
	assert.Equal(t, "secret123", gotPassword)
	assert.Contains(t, rec.Body.String(), "Password updated")

	deps.confirm = func(context.Context, string, string) error { return domain.ErrTokenInvalid }
	expired := serve(deps.router(t), postForm("/reset-password", url.Values{"token": {"old"}, "password": {"secret123"}}))
	assert.Equal(t, http.StatusUnauthorized, expired.Code)
	assert.Contains(t, expired.Body.String(), "The reset link is invalid or has expired")
}

func TestSignInSetsCookieAndRedirects(t *testing.T) {
	h := newTestDeps().router(t)

	rec := serve(h, postForm("/sign-in", url.Values{"email": {"owner@example.com"}, "password": {"secret123"}, "next": {"/listings/abc"}}))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/listings/abc", rec.Header().Get("Location"))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionCookieName, cookies[0].Name)
	assert.Equal(t, "issued-token", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	offsite := serve(h, postForm("/sign-in", url.Values{"email": {"owner@example.com"}, "password": {"secret123"}, "next": {"//evil.example.com"}}))
	assert.Equal(t, "/", offsite.Header().Get("Location"))
}

func TestSignInFailureRendersForm(t *testing.T) {
	deps := newTestDeps()
	deps.signIn = func(context.Context, string, string) (*domain.IssuedSession, error) {
		return nil, domain.ErrInvalidCredentials
	}

	rec := serve(deps.router(t), postForm("/sign-in", url.Values{"email": {"owner@example.com"}, "password": {"wrong"}}))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Bad user credentials")
	assert.Contains(t, rec.Body.String(), `value="owner@example.com"`)
	assert.Empty(t, rec.Result().Cookies())
}

func TestSignUpConflict(t *testing.T) {
	deps := newTestDeps()
	deps.signUp = func(context.Context, string, string, string) (*domain.IssuedSession, error) {
		return nil, domain.ErrEmailInUse
	}

	rec := serve(deps.router(t), postForm("/sign-up", url.Values{"name": {"A"}, "email": {"owner@example.com"}, "password": {"secret123"}}))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "An account with that email already exists")
}

func TestSignOutClearsCookie(t *testing.T) {
	h := newTestDeps().router(t)

	rec := serve(h, withSession(httptest.NewRequest(http.MethodPost, "/sign-out", nil), "owner-token"))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestSessionMiddlewareDropsInvalidCookie(t *testing.T) {
	h := newTestDeps().router(t)

	rec := serve(h, withSession(httptest.NewRequest(http.MethodGet, "/", nil), "forged"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sign In")
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)

	signedIn := serve(h, withSession(httptest.NewRequest(http.MethodGet, "/", nil), "owner-token"))
	assert.Contains(t, signedIn.Body.String(), "Signed in as owner@example.com")
	assert.Empty(t, signedIn.Result().Cookies())
}

func TestContactPage(t *testing.T) {
	h := newTestDeps().router(t)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/contact/"+ownerID+"?listingName="+url.QueryEscape("Flat & garden?"), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Contact Owner")
	assert.Contains(t, rec.Body.String(), "mailto:owner@example.com?subject=Flat%20%26%20garden%3F")

	missing := serve(h, httptest.NewRequest(http.MethodGet, "/contact/someone-else", nil))
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestMailtoURL(t *testing.T) {
	assert.Equal(t, "mailto:a@example.com", mailtoURL("a@example.com", ""))
	assert.Equal(t, "mailto:a@example.com?subject=Flat%20%26%20garden%3F", mailtoURL("a@example.com", "Flat & garden?"))
}

func TestSafeRedirectTarget(t *testing.T) {
	cases := map[string]string{
		"":                 "/",
		"/listings/abc":    "/listings/abc",
		"//evil.com":       "/",
		`/\evil.com`:       "/",
		"https://evil.com": "/",
		"/":                "/",
	}
	for in, want := range cases {
		assert.Equal(t, want, safeRedirectTarget(in), in)
	}
}

func TestHealthzAndUnknownPath(t *testing.T) {
	h := newTestDeps().router(t)

	health := serve(h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, health.Code)
	assert.JSONEq(t, `{"status":"ok"}`, health.Body.String())

	unknown := serve(h, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, unknown.Code)
	assert.Contains(t, unknown.Body.String(), "Page does not exist")
}

func TestStatusForError(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, statusForError(domain.ErrInvalidListingID))
	assert.Equal(t, http.StatusBadGateway, statusForError(domain.ErrFetchFailed))
	assert.Equal(t, http.StatusGatewayTimeout, statusForError(fmt.Errorf("%w: %w", domain.ErrFetchFailed, context.DeadlineExceeded)))
	assert.Equal(t, http.StatusBadRequest, statusForError(domain.ErrWeakPassword))
	assert.Equal(t, http.StatusUnauthorized, statusForError(domain.ErrTokenInvalid))
	assert.Equal(t, http.StatusInternalServerError, statusForError(domain.ErrAuthOperationFailed))
}
