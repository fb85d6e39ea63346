package contextkeys

import (
	"context"
	"listing-web/internal/core/domain"
)

type sessionKeyType struct{}

var sessionKey = sessionKeyType{}

// ContextWithSession вызывается только middleware сессии.
func ContextWithSession(ctx context.Context, session *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey, session)
}

// SessionFromContext возвращает nil для анонимного посетителя.
func SessionFromContext(ctx context.Context) *domain.Session {
	if session, ok := ctx.Value(sessionKey).(*domain.Session); ok {
		return session
	}
	return nil
}
