package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/dom/user-directory/internal/api/middleware"
	"github.com/dom/user-directory/internal/config"
)

// CookieHelper manages the session cookie.
type CookieHelper struct {
	secure   bool
	sameSite http.SameSite
	domain   string
}

func NewCookieHelper(cfg *config.Config) *CookieHelper {
	return &CookieHelper{
		secure:   cfg.CookieSecure(),
		sameSite: parseSameSite(cfg.CookieSameSite()),
		domain:   cfg.Cookie.Domain,
	}
}

// SetSession stores token in an HttpOnly cookie that expires with it.
func (h *CookieHelper) SetSession(w http.ResponseWriter, token string, ttl time.Duration) {
	h.setCookie(w, token, int(ttl.Seconds()))
}

// ClearSession expires the session cookie.
func (h *CookieHelper) ClearSession(w http.ResponseWriter) {
	h.setCookie(w, "", -1)
}

func (h *CookieHelper) setCookie(w http.ResponseWriter, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		Domain:   h.domain,
		MaxAge:   maxAge,
		Secure:   h.secure,
		HttpOnly: true,
		SameSite: h.sameSite,
	})
}

func parseSameSite(value string) http.SameSite {
	switch strings.ToLower(value) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
