package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/dom/user-directory/internal/api/response"
	"github.com/dom/user-directory/internal/domain"
)

// CSRF validates the Origin (or, failing that, the Referer) of state-changing
// requests against the allowed origins. The session travels in a cookie, so
// the browser attaches it to cross-site requests on its own.
//
// Requests to publicPaths that carry neither header are let through: browsers
// always send Origin on cross-site POSTs, so such a request comes from a
// non-browser client. A foreign Origin is rejected on every path.
func CSRF(allowedOrigins []string, publicPaths ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[normalizeOrigin(origin)] = true
	}
	public := make(map[string]bool, len(publicPaths))
	for _, path := range publicPaths {
		public[path] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			origin := r.Header.Get("Origin")
			if origin == "" {
				if referer := r.Header.Get("Referer"); referer != "" {
					origin = extractOrigin(referer)
				}
			}

			if origin == "" && public[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			if origin == "" || !allowed[normalizeOrigin(origin)] {
				response.Error(w, http.StatusForbidden, domain.CodeValidation, "CSRF validation failed: origin not allowed")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func normalizeOrigin(origin string) string {
	return strings.TrimSuffix(strings.ToLower(origin), "/")
}

// extractOrigin returns scheme://host of rawURL.
func extractOrigin(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}
