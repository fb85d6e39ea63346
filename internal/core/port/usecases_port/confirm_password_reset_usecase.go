package usecases_port

import "context"

type ConfirmPasswordResetUseCasePort interface {
	Execute(ctx context.Context, token, newPassword string) error
}
