package port

import (
	"context"
	"listing-web/internal/core/domain"
)

// PasswordResetQueuePort передает заявку на письмо сброса пароля во внешний mailer.
type PasswordResetQueuePort interface {
	EnqueuePasswordReset(ctx context.Context, req domain.PasswordResetRequest) error
}
