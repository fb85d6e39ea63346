package rest

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"listing-web/internal/contextkeys"
	"listing-web/internal/core/domain"
	"listing-web/internal/core/port"
)

//go:embed templates/*.html
var templatesFS embed.FS

const (
	pageHome           = "home"
	pageListing        = "listing"
	pageNotFound       = "not_found"
	pageError          = "error"
	pageSignIn         = "sign_in"
	pageSignUp         = "sign_up"
	pageForgotPassword = "forgot_password"
	pageResetPassword  = "reset_password"
	pageContact        = "contact"
)

var pageNames = []string{
	pageHome, pageListing, pageNotFound, pageError, pageSignIn,
	pageSignUp, pageForgotPassword, pageResetPassword, pageContact,
}

var templateFuncs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

// pageData - то, что получает base.html. Notification показывается
// не больше одного раза за ответ.
type pageData struct {
	Title        string
	Session      *domain.Session
	Notification *domain.Notification
	Content      any
}

// Renderer хранит отдельный набор шаблонов на каждую страницу,
// чтобы блоки "content" и "head" разных страниц не перетирали друг друга.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(templateFuncs).ParseFS(templatesFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Renderer{pages: pages}, nil
}

// Render сначала исполняет шаблон в буфер: при ошибке клиент не получит
// половину страницы.
func (rd *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, page, title string, notification *domain.Notification, content any) {
	logger := contextkeys.LoggerFromContext(r.Context())

	t, ok := rd.pages[page]
	if !ok {
		logger.Error("Unknown page template", fmt.Errorf("page %q is not registered", page), nil)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	data := pageData{
		Title:        title,
		Session:      contextkeys.SessionFromContext(r.Context()),
		Notification: notification,
		Content:      content,
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		logger.Error("Failed to execute page template", err, port.Fields{"page": page})
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
