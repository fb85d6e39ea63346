package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"listing-web/internal/contextkeys"
	"listing-web/internal/core/domain"
	"listing-web/internal/core/listingview"
	"listing-web/internal/core/port"
	"listing-web/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
)

type ListingHandlers struct {
	loadUC          usecases_port.LoadListingUseCasePort
	renderer        *Renderer
	baseURL         string
	shareResetDelay time.Duration
}

func NewListingHandlers(loadUC usecases_port.LoadListingUseCasePort, renderer *Renderer, baseURL string, shareResetDelay time.Duration) *ListingHandlers {
	if shareResetDelay <= 0 {
		shareResetDelay = listingview.DefaultShareLinkResetDelay
	}
	return &ListingHandlers{
		loadUC:          loadUC,
		renderer:        renderer,
		baseURL:         baseURL,
		shareResetDelay: shareResetDelay,
	}
}

// present создает представление на время одного запроса. Буфер обмена
// серверу не нужен: ссылку копирует браузер.
func (h *ListingHandlers) present(ctx context.Context, listingID string) (*listingview.Presentation, error) {
	view := listingview.New(listingview.Config{
		Loader:              h.loadUC,
		BaseURL:             h.baseURL,
		ShareLinkResetDelay: h.shareResetDelay,
	})
	defer view.Close()

	if _, err := view.Load(ctx, listingID); err != nil {
		return nil, err
	}
	return view.Presentation(contextkeys.SessionFromContext(ctx))
}

// ListingPage обрабатывает GET /listings/{listingID}
func (h *ListingHandlers) ListingPage(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "listingID")
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":    "ListingPage",
		"listing_id": listingID,
	})

	p, err := h.present(r.Context(), listingID)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusNotFound {
			logger.Info("Listing not found", nil)
			h.renderer.Render(w, r, status, pageNotFound, "Not Found", nil, domain.UserMessage(err))
			return
		}
		logger.Error("Failed to load listing", err, nil)
		h.renderer.Render(w, r, status, pageError, "Error", nil, domain.UserMessage(err))
		return
	}

	h.renderer.Render(w, r, http.StatusOK, pageListing, p.Name, nil, listingPageContent{
		Presentation: p,
		ShareResetMS: h.shareResetDelay.Milliseconds(),
	})
}

// GetListing обрабатывает GET /api/v1/listings/{listingID}
func (h *ListingHandlers) GetListing(w http.ResponseWriter, r *http.Request) {
	listingID := chi.URLParam(r, "listingID")
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":    "GetListing",
		"listing_id": listingID,
	})

	p, err := h.present(r.Context(), listingID)
	if err != nil {
		status := statusForError(err)
		if errors.Is(err, domain.ErrFetchFailed) || status >= http.StatusInternalServerError {
			logger.Error("Failed to load listing", err, nil)
		}
		WriteJSONError(w, status, domain.UserMessage(err))
		return
	}

	RespondWithJSON(w, http.StatusOK, toListingResponse(p))
}
