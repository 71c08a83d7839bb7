package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dom/user-directory/internal/api/middleware"
	"github.com/dom/user-directory/internal/api/response"
	"github.com/dom/user-directory/internal/domain"
	"github.com/dom/user-directory/internal/logger"
	"github.com/dom/user-directory/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	cookies     *CookieHelper
	log         *logger.Logger
}

func NewAuthHandler(authService *service.AuthService, cookies *CookieHelper, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookies:     cookies,
		log:         log,
	}
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type VerifyResponse struct {
	Message string         `json:"message"`
	User    domain.Subject `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, h.log, errInvalidBody)
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	h.cookies.SetSession(w, result.Token, h.authService.TokenTTL())
	response.Message(w, http.StatusOK, "Logged in successfully")
}

// VerifyToken runs behind middleware.Auth and echoes the session subject.
func (h *AuthHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	sub, ok := middleware.GetSubject(r.Context())
	if !ok {
		writeError(w, r, h.log, domain.ErrUnauthenticated)
		return
	}

	response.JSON(w, http.StatusOK, VerifyResponse{
		Message: "Token is valid",
		User:    sub,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.cookies.ClearSession(w)
	response.Message(w, http.StatusOK, "Logged out successfully")
}
