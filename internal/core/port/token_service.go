package port

import (
	"context"
	"listing-web/internal/core/domain"
	"time"
)

// TokenServicePort выпускает и проверяет подписанные токены.
type TokenServicePort interface {
	GenerateToken(ctx context.Context, user *domain.User, purpose domain.TokenPurpose, ttl time.Duration) (string, error)
	// ValidateToken отклоняет токен, выпущенный для другой цели.
	ValidateToken(ctx context.Context, tokenString string, purpose domain.TokenPurpose) (*domain.Claims, error)
}
