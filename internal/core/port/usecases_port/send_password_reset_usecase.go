package usecases_port

import "context"

type SendPasswordResetUseCasePort interface {
	Execute(ctx context.Context, email string) error
}
