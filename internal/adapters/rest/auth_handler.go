package rest

import (
	"net/http"
	"strings"

	"listing-web/internal/contextkeys"
	"listing-web/internal/core/domain"
	"listing-web/internal/core/port"
	"listing-web/internal/core/port/usecases_port"
)

type AuthHandlers struct {
	signInUC usecases_port.SignInUseCasePort
	signUpUC usecases_port.SignUpUseCasePort
	renderer *Renderer
}

func NewAuthHandlers(signInUC usecases_port.SignInUseCasePort, signUpUC usecases_port.SignUpUseCasePort, renderer *Renderer) *AuthHandlers {
	return &AuthHandlers{
		signInUC: signInUC,
		signUpUC: signUpUC,
		renderer: renderer,
	}
}

// SignInPage обрабатывает GET /sign-in
func (h *AuthHandlers) SignInPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, pageSignIn, "Sign In", nil, signInForm{Next: r.URL.Query().Get("next")})
}

// SignIn обрабатывает POST /sign-in
func (h *AuthHandlers) SignIn(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SignIn"})

	if err := r.ParseForm(); err != nil {
		logger.Warn("Failed to parse sign-in form", port.Fields{"error": err.Error()})
		h.renderer.Render(w, r, http.StatusBadRequest, pageSignIn, "Sign In", domain.ErrorNotification(domain.ErrMissingFields), signInForm{})
		return
	}
	form := signInForm{
		Email: strings.TrimSpace(r.PostFormValue("email")),
		Next:  r.PostFormValue("next"),
	}

	issued, err := h.signInUC.Execute(r.Context(), form.Email, r.PostFormValue("password"))
	if err != nil {
		logger.Warn("Sign-in failed", port.Fields{"error": err.Error()})
		h.renderer.Render(w, r, statusForError(err), pageSignIn, "Sign In", domain.ErrorNotification(err), form)
		return
	}

	logger.Info("User signed in", port.Fields{"user_id": issued.Session.UserID})
	setSessionCookie(w, r, issued)
	http.Redirect(w, r, safeRedirectTarget(form.Next), http.StatusSeeOther)
}

// SignUpPage обрабатывает GET /sign-up
func (h *AuthHandlers) SignUpPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, pageSignUp, "Sign Up", nil, signUpForm{})
}

// SignUp обрабатывает POST /sign-up
func (h *AuthHandlers) SignUp(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "SignUp"})

	if err := r.ParseForm(); err != nil {
		logger.Warn("Failed to parse sign-up form", port.Fields{"error": err.Error()})
		h.renderer.Render(w, r, http.StatusBadRequest, pageSignUp, "Sign Up", domain.ErrorNotification(domain.ErrMissingFields), signUpForm{})
		return
	}
	form := signUpForm{
		Name:  strings.TrimSpace(r.PostFormValue("name")),
		Email: strings.TrimSpace(r.PostFormValue("email")),
	}

	issued, err := h.signUpUC.Execute(r.Context(), form.Name, form.Email, r.PostFormValue("password"))
	if err != nil {
		logger.Warn("Sign-up failed", port.Fields{"error": err.Error()})
		h.renderer.Render(w, r, statusForError(err), pageSignUp, "Sign Up", domain.ErrorNotification(err), form)
		return
	}

	logger.Info("User registered", port.Fields{"user_id": issued.Session.UserID})
	setSessionCookie(w, r, issued)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// SignOut обрабатывает POST /sign-out
func (h *AuthHandlers) SignOut(w http.ResponseWriter, r *http.Request) {
	if userID, ok := contextkeys.SessionFromContext(r.Context()).CurrentUserID(); ok {
		contextkeys.LoggerFromContext(r.Context()).Info("User signed out", port.Fields{"user_id": userID})
	}
	clearSessionCookie(w, r)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
