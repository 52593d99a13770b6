package services

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the service layer. Handlers map these to HTTP
// status codes; anything else is treated as an internal error.
var (
	ErrValidation        = errors.New("validation failed")
	ErrSuspendedAccount  = errors.New("account is suspended")
	ErrRecipientNotFound = errors.New("recipient not found")
	ErrNotFound          = errors.New("not found")
	ErrForbidden         = errors.New("forbidden")
)

// Validationf wraps ErrValidation with a human-readable reason.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}
