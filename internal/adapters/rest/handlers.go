package rest

import "net/http"

type PageHandlers struct {
	renderer *Renderer
}

func NewPageHandlers(renderer *Renderer) *PageHandlers {
	return &PageHandlers{renderer: renderer}
}

// Home обрабатывает GET /
func (h *PageHandlers) Home(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, pageHome, "Explore", nil, nil)
}

// NotFound отвечает на все неизвестные пути.
func (h *PageHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusNotFound, pageNotFound, "Not Found", nil, "Page does not exist")
}

// Healthz обрабатывает GET /healthz
func Healthz(w http.ResponseWriter, _ *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
