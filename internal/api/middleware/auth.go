package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/dom/user-directory/internal/api/response"
	"github.com/dom/user-directory/internal/domain"
)

// SessionCookie is the name of the cookie carrying the session token.
const SessionCookie = "token"

type contextKey string

const (
	SubjectKey contextKey = "subject"
)

type SessionVerifier interface {
	VerifySession(token string) (*domain.Subject, error)
}

// Auth rejects requests without a valid session cookie: 401 when the cookie
// is missing, 403 when the token does not verify.
func Auth(verifier SessionVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if cookie, err := r.Cookie(SessionCookie); err == nil {
				token = cookie.Value
			}

			sub, err := verifier.VerifySession(token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					response.Error(w, http.StatusUnauthorized, domain.CodeUnauthenticated, "Access denied. No token provided.")
					return
				}
				response.Error(w, http.StatusForbidden, domain.CodeInvalidToken, "Invalid or expired token.")
				return
			}

			ctx := context.WithValue(r.Context(), SubjectKey, *sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetSubject(ctx context.Context) (domain.Subject, bool) {
	sub, ok := ctx.Value(SubjectKey).(domain.Subject)
	return sub, ok
}
