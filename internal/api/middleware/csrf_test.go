package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCSRF(t *testing.T) {
	handler := CSRF([]string{"http://localhost:5173", "https://app.example.com/"}, "/api/login")(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		}),
	)

	tests := []struct {
		name       string
		method     string
		path       string
		origin     string
		referer    string
		wantStatus int
	}{
		{name: "safe method without origin", method: http.MethodGet, wantStatus: http.StatusNoContent},
		{name: "preflight", method: http.MethodOptions, origin: "https://evil.example.com", wantStatus: http.StatusNoContent},
		{name: "allowed origin", method: http.MethodPost, origin: "http://localhost:5173", wantStatus: http.StatusNoContent},
		{name: "allowed origin different case", method: http.MethodDelete, origin: "HTTPS://APP.EXAMPLE.COM", wantStatus: http.StatusNoContent},
		{name: "foreign origin", method: http.MethodPost, origin: "https://evil.example.com", wantStatus: http.StatusForbidden},
		{name: "allowed referer", method: http.MethodPost, referer: "http://localhost:5173/users?page=2", wantStatus: http.StatusNoContent},
		{name: "foreign referer", method: http.MethodPost, referer: "https://evil.example.com/form", wantStatus: http.StatusForbidden},
		{name: "no origin or referer", method: http.MethodPost, wantStatus: http.StatusForbidden},
		{name: "public path without origin", method: http.MethodPost, path: "/api/login", wantStatus: http.StatusNoContent},
		{name: "public path with foreign origin", method: http.MethodPost, path: "/api/login", origin: "https://evil.example.com", wantStatus: http.StatusForbidden},
		{name: "public path with foreign referer", method: http.MethodPost, path: "/api/login", referer: "https://evil.example.com/form", wantStatus: http.StatusForbidden},
		{name: "origin wins over referer", method: http.MethodPost, origin: "https://evil.example.com", referer: "http://localhost:5173/", wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := tt.path
			if path == "" {
				path = "/api/users"
			}
			req := httptest.NewRequest(tt.method, path, nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.referer != "" {
				req.Header.Set("Referer", tt.referer)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestExtractOrigin(t *testing.T) {
	assert.Equal(t, "https://app.example.com:8443", extractOrigin("https://app.example.com:8443/path?q=1"))
	assert.Equal(t, "", extractOrigin("not a url"))
	assert.Equal(t, "", extractOrigin("::"))
}
