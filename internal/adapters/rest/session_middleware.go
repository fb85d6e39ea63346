package rest

import (
	"net/http"
	"time"

	"listing-web/internal/contextkeys"
	"listing-web/internal/core/domain"
	"listing-web/internal/core/port"
	"listing-web/internal/core/port/usecases_port"
)

const sessionCookieName = "session"

// SessionMiddleware один раз на запрос превращает cookie сессии в *domain.Session.
// Дальше сессия только читается из контекста.
func SessionMiddleware(resolveUC usecases_port.ResolveSessionUseCasePort) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			session, err := resolveUC.Execute(r.Context(), cookie.Value)
			if err != nil {
				contextkeys.LoggerFromContext(r.Context()).Debug("Dropping invalid session cookie", port.Fields{"error": err.Error()})
				clearSessionCookie(w, r)
				next.ServeHTTP(w, r)
				return
			}

			ctx := contextkeys.ContextWithSession(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func setSessionCookie(w http.ResponseWriter, r *http.Request, issued *domain.IssuedSession) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    issued.Token,
		Path:     "/",
		Expires:  issued.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
}
