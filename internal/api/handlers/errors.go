package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dom/user-directory/internal/api/response"
	"github.com/dom/user-directory/internal/domain"
	"github.com/dom/user-directory/internal/logger"
)

var errInvalidBody = fmt.Errorf("%w: invalid request body", domain.ErrValidation)

type errorMapping struct {
	err     error
	status  int
	message string
}

// Checked in order; the specific validation errors come before ErrValidation.
var errorMappings = []errorMapping{
	{domain.ErrMissingCredentials, http.StatusBadRequest, "Email and password are required."},
	{domain.ErrMissingUserFields, http.StatusBadRequest, "Name, lastName, email, and password are required"},
	{domain.ErrInvalidUserID, http.StatusBadRequest, "User ID is required"},
	{errInvalidBody, http.StatusBadRequest, "Invalid request body"},
	{domain.ErrValidation, http.StatusBadRequest, "Invalid request"},
	{domain.ErrInvalidCredentials, http.StatusBadRequest, "Invalid email or password."},
	{domain.ErrUnauthenticated, http.StatusUnauthorized, "Access denied. No token provided."},
	{domain.ErrInvalidToken, http.StatusForbidden, "Invalid or expired token."},
	{domain.ErrDuplicateEmail, http.StatusInternalServerError, "Failed to insert user: email already exists"},
	{domain.ErrNotFound, http.StatusNotFound, "User not found"},
}

// writeError answers with the status and code of err. Anything unrecognised
// is logged and reported as a generic 500.
func writeError(w http.ResponseWriter, r *http.Request, log *logger.Logger, err error) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			response.Error(w, m.status, domain.Code(err), m.message)
			return
		}
	}

	log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	response.Error(w, http.StatusInternalServerError, domain.CodeServiceUnavailable, "Internal server error.")
}
