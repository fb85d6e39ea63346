package rest

import (
	"net/http"
	"net/url"
	"strings"

	"listing-web/internal/contextkeys"
	"listing-web/internal/core/domain"
	"listing-web/internal/core/port"
	"listing-web/internal/core/port/usecases_port"

	"github.com/go-chi/chi/v5"
)

type ContactHandlers struct {
	getContactUC usecases_port.GetContactUseCasePort
	renderer     *Renderer
}

func NewContactHandlers(getContactUC usecases_port.GetContactUseCasePort, renderer *Renderer) *ContactHandlers {
	return &ContactHandlers{getContactUC: getContactUC, renderer: renderer}
}

// ContactPage обрабатывает GET /contact/{userRef}?listingName=...
func (h *ContactHandlers) ContactPage(w http.ResponseWriter, r *http.Request) {
	userRef := chi.URLParam(r, "userRef")
	listingName := r.URL.Query().Get("listingName")
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{
		"handler":  "ContactPage",
		"user_ref": userRef,
	})

	contact, err := h.getContactUC.Execute(r.Context(), userRef)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusNotFound {
			logger.Info("Landlord not found", nil)
			h.renderer.Render(w, r, status, pageNotFound, "Not Found", nil, "Landlord does not exist")
			return
		}
		logger.Error("Failed to load landlord contact", err, nil)
		h.renderer.Render(w, r, status, pageError, "Error", nil, domain.UserMessage(err))
		return
	}

	h.renderer.Render(w, r, http.StatusOK, pageContact, "Contact Landlord", nil, contactPageContent{
		Name:        contact.Name,
		ListingName: listingName,
		MailtoURL:   mailtoURL(contact.Email, listingName),
	})
}

// mailtoURL кодирует пробелы как %20: почтовые клиенты не понимают "+" в mailto.
func mailtoURL(email, subject string) string {
	link := "mailto:" + email
	if subject == "" {
		return link
	}
	return link + "?subject=" + strings.ReplaceAll(url.QueryEscape(subject), "+", "%20")
}
