package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUnauthenticated    = errors.New("no session token provided")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrDuplicateEmail     = errors.New("email already exists")
	ErrNotFound           = errors.New("user not found")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// Validation failures with their user-facing wording.
var (
	ErrMissingCredentials = fmt.Errorf("%w: email and password are required", ErrValidation)
	ErrMissingUserFields  = fmt.Errorf("%w: name, lastname, email and password are required", ErrValidation)
	ErrInvalidUserID      = fmt.Errorf("%w: user id is required", ErrValidation)
)

// Wire codes carried in the "code" field of error responses.
const (
	CodeValidation         = "validation_error"
	CodeInvalidCredentials = "invalid_credentials"
	CodeUnauthenticated    = "unauthenticated"
	CodeInvalidToken       = "invalid_token"
	CodeDuplicateEmail     = "duplicate_email"
	CodeNotFound           = "not_found"
	CodeServiceUnavailable = "service_unavailable"
)

var codes = []struct {
	err  error
	code string
}{
	{ErrValidation, CodeValidation},
	{ErrInvalidCredentials, CodeInvalidCredentials},
	{ErrUnauthenticated, CodeUnauthenticated},
	{ErrInvalidToken, CodeInvalidToken},
	{ErrDuplicateEmail, CodeDuplicateEmail},
	{ErrNotFound, CodeNotFound},
	{ErrServiceUnavailable, CodeServiceUnavailable},
}

// Code maps an error to its wire code. Unknown errors are service_unavailable.
func Code(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return CodeServiceUnavailable
}

// FromCode maps a wire code back to its sentinel error, or nil when unknown.
func FromCode(code string) error {
	for _, c := range codes {
		if c.code == code {
			return c.err
		}
	}
	return nil
}
