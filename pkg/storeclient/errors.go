package storeclient

import (
	"errors"
	"fmt"
)

// ErrNetwork classifies timeouts and transport failures. These are
// retryable by the caller; the client itself never retries.
var ErrNetwork = errors.New("network error")

// ErrValidation marks precondition failures caught before any network
// call is made.
var ErrValidation = errors.New("validation")

// UnauthorizedError is the non-retryable 401 class: the caller must
// route the user through the login flow at RedirectTo.
type UnauthorizedError struct {
	RedirectTo string
}

func (e *UnauthorizedError) Error() string {
	return "unauthorized: login required"
}

// APIError is any other definitive rejection from the server, such as
// an out-of-stock conflict. Not retryable.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}
