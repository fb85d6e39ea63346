package domain

import (
	"context"
	"errors"
	"fmt"
)

// Три вида ошибок, которые видит пользователь.
var (
	ErrListingNotFound     = errors.New("listing not found")
	ErrFetchFailed         = errors.New("listing fetch failed")
	ErrAuthOperationFailed = errors.New("auth operation failed")
)

var (
	ErrInvalidListingID = errors.New("listing id is empty")
	ErrInvalidListing   = errors.New("listing document is invalid")
)

// Причины ошибок аутентификации. Все они оборачивают ErrAuthOperationFailed,
// поэтому errors.Is(err, ErrAuthOperationFailed) верно для любой из них.
var (
	ErrInvalidEmail        = fmt.Errorf("%w: invalid email", ErrAuthOperationFailed)
	ErrUserNotFound        = fmt.Errorf("%w: user not found", ErrAuthOperationFailed)
	ErrInvalidCredentials  = fmt.Errorf("%w: invalid credentials", ErrAuthOperationFailed)
	ErrEmailInUse          = fmt.Errorf("%w: email already in use", ErrAuthOperationFailed)
	ErrWeakPassword        = fmt.Errorf("%w: password is too short", ErrAuthOperationFailed)
	ErrMissingFields       = fmt.Errorf("%w: required fields are missing", ErrAuthOperationFailed)
	ErrTokenInvalid        = fmt.Errorf("%w: invalid or expired token", ErrAuthOperationFailed)
	ErrResetDeliveryFailed = fmt.Errorf("%w: reset email could not be delivered", ErrAuthOperationFailed)
)

// UserMessage переводит ошибку в текст, который можно показать пользователю.
// Порядок проверок важен: сначала конкретные причины, затем общие виды.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrListingNotFound), errors.Is(err, ErrInvalidListingID):
		return "Listing does not exist"
	case errors.Is(err, ErrFetchFailed):
		return "Could not load the listing, please try again"
	case errors.Is(err, ErrInvalidEmail):
		return "Please enter a valid email address"
	case errors.Is(err, ErrUserNotFound):
		return "No account is registered with that email"
	case errors.Is(err, ErrInvalidCredentials):
		return "Bad user credentials"
	case errors.Is(err, ErrEmailInUse):
		return "An account with that email already exists"
	case errors.Is(err, ErrWeakPassword):
		return "Password must be at least 6 characters"
	case errors.Is(err, ErrMissingFields):
		return "Please fill in all fields"
	case errors.Is(err, ErrTokenInvalid):
		return "The reset link is invalid or has expired"
	case errors.Is(err, ErrResetDeliveryFailed):
		return "Could not send reset email, please try again later"
	case errors.Is(err, ErrAuthOperationFailed):
		return "Something went wrong with authorization"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "The request took too long, please try again"
	default:
		return "Something went wrong"
	}
}
