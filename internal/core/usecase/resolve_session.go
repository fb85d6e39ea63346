package usecase

import (
	"context"

	"listing-web/internal/contextkeys"
	"listing-web/internal/core/domain"
	"listing-web/internal/core/port"
)

type ResolveSessionUseCase struct {
	tokenSvc port.TokenServicePort
}

func NewResolveSessionUseCase(tokenSvc port.TokenServicePort) *ResolveSessionUseCase {
	return &ResolveSessionUseCase{tokenSvc: tokenSvc}
}

// Execute принимает только токены сессии; токен сброса пароля отклоняется.
func (uc *ResolveSessionUseCase) Execute(ctx context.Context, token string) (*domain.Session, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case": "ResolveSession",
	})
	logger.Debug("Use case started", nil)

	if token == "" {
		return nil, domain.ErrTokenInvalid
	}

	claims, err := uc.tokenSvc.ValidateToken(ctx, token, domain.PurposeSession)
	if err != nil {
		logger.Warn("Session token validation failed", port.Fields{"error": err.Error()})
		return nil, err
	}

	logger.Debug("Use case finished successfully", port.Fields{
		"user_id": claims.UserID.String(),
		"role":    claims.Role,
	})
	return domain.SessionFromClaims(claims), nil
}
