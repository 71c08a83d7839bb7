package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dom/user-directory/internal/api/response"
	"github.com/dom/user-directory/internal/domain"
	"github.com/dom/user-directory/internal/logger"
	"github.com/dom/user-directory/internal/service"
)

type UserHandler struct {
	directory *service.DirectoryService
	log       *logger.Logger
}

func NewUserHandler(directory *service.DirectoryService, log *logger.Logger) *UserHandler {
	return &UserHandler{
		directory: directory,
		log:       log,
	}
}

type CreateUserResponse struct {
	Message  string `json:"message"`
	UserID   int64  `json:"userId"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Lastname string `json:"lastname"`
}

// List serves GET /api/users?page=&limit=. Missing or non-numeric values
// fall back to page 1 and the default page size.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	result, err := h.directory.List(r.Context(), page, limit)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.NewUser
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, h.log, errInvalidBody)
		return
	}

	user, err := h.directory.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.JSON(w, http.StatusCreated, CreateUserResponse{
		Message:  "User added successfully",
		UserID:   user.UserID,
		Email:    user.Email,
		Name:     user.Name,
		Lastname: user.Lastname,
	})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, r, h.log, domain.ErrInvalidUserID)
		return
	}

	if err := h.directory.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	response.Message(w, http.StatusOK, "User deleted successfully")
}
