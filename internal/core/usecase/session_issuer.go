package usecase

import (
	"context"
	"time"

	"listing-web/internal/core/domain"
	"listing-web/internal/core/port"
)

// issueSession выпускает токен сессии для пользователя после входа или регистрации.
func issueSession(ctx context.Context, tokenSvc port.TokenServicePort, user *domain.User, ttl time.Duration) (*domain.IssuedSession, error) {
	token, err := tokenSvc.GenerateToken(ctx, user, domain.PurposeSession, ttl)
	if err != nil {
		return nil, err
	}
	return &domain.IssuedSession{
		Session: domain.Session{
			UserID: user.ID.String(),
			Email:  user.Email,
			Name:   user.Name,
			Role:   user.Role,
		},
		Token:     token,
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}
