package token_adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"listing-web/internal/contextkeys"
	"listing-web/internal/core/domain"
	"listing-web/internal/core/port"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "listing-web"

// TokenService - реализация TokenServicePort на HS256 JWT.
type TokenService struct {
	signingKey []byte
	now        func() time.Time
}

func NewTokenService(signingKey string) (*TokenService, error) {
	if signingKey == "" {
		return nil, errors.New("JWT signing key cannot be empty")
	}
	return &TokenService{signingKey: []byte(signingKey), now: time.Now}, nil
}

type jwtCustomClaims struct {
	UserID  uuid.UUID           `json:"user_id"`
	Email   string              `json:"email"`
	Name    string              `json:"name,omitempty"`
	Role    string              `json:"role"`
	Purpose domain.TokenPurpose `json:"purpose"`
	// Pwd - отпечаток хэша пароля, только для токенов сброса.
	Pwd string `json:"pwd,omitempty"`
	jwt.RegisteredClaims
}

func (s *TokenService) GenerateToken(ctx context.Context, user *domain.User, purpose domain.TokenPurpose, ttl time.Duration) (string, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "TokenService",
		"method":    "GenerateToken",
		"user_id":   user.ID.String(),
		"purpose":   string(purpose),
	})

	now := s.now()
	claims := &jwtCustomClaims{
		UserID:  user.ID,
		Email:   user.Email,
		Name:    user.Name,
		Role:    user.Role,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}
	if purpose == domain.PurposePasswordReset {
		claims.Pwd = user.PasswordFingerprint()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		logger.Error("Failed to sign token", err, nil)
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	logger.Debug("Token generated", port.Fields{"ttl": ttl.String()})
	return signed, nil
}

// ValidateToken отклоняет просроченные, поддельные и выпущенные для другой цели токены.
func (s *TokenService) ValidateToken(ctx context.Context, tokenString string, purpose domain.TokenPurpose) (*domain.Claims, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "TokenService",
		"method":    "ValidateToken",
		"purpose":   string(purpose),
	})

	claims := &jwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.signingKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			logger.Warn("Token has expired", port.Fields{"user_id": claims.UserID.String()})
		} else {
			logger.Warn("Invalid token format or signature", port.Fields{"error": err.Error()})
		}
		return nil, domain.ErrTokenInvalid
	}
	if !token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	if claims.Purpose != purpose {
		logger.Warn("Token presented for the wrong purpose", port.Fields{"token_purpose": string(claims.Purpose)})
		return nil, domain.ErrTokenInvalid
	}

	return &domain.Claims{
		UserID:  claims.UserID,
		Email:   claims.Email,
		Name:    claims.Name,
		Role:    claims.Role,
		Purpose: claims.Purpose,

		PasswordFingerprint: claims.Pwd,
	}, nil
}
