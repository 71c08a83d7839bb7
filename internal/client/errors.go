package client

import (
	"fmt"
	"net/http"

	"github.com/dom/user-directory/internal/domain"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return e.Message
}

// Unwrap exposes the domain error so callers can use errors.Is.
func (e *APIError) Unwrap() error {
	if err := domain.FromCode(e.Code); err != nil {
		return err
	}
	switch {
	case e.Status == http.StatusBadRequest:
		return domain.ErrValidation
	case e.Status == http.StatusUnauthorized:
		return domain.ErrUnauthenticated
	case e.Status == http.StatusForbidden:
		return domain.ErrInvalidToken
	case e.Status == http.StatusNotFound:
		return domain.ErrNotFound
	default:
		return domain.ErrServiceUnavailable
	}
}
