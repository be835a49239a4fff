package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Joyanne05/fixit-my/internal/middleware"
	"github.com/Joyanne05/fixit-my/internal/pkg/errorhandler"
	"github.com/Joyanne05/fixit-my/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Sync handles POST /users/sync. The row is created from token claims on
// first call and returned unchanged afterwards.
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	u, err := h.service.Sync(r.Context(), userID, middleware.GetName(r.Context()), middleware.GetAvatar(r.Context()))
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "USER_SYNC_FAILED", "User sync failed", err)
		return
	}

	response.OK(w, u)
}

// Me handles GET /users/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	u, err := h.service.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "user not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "USER_GET_FAILED", "Failed to get user", err)
		return
	}

	response.OK(w, u)
}

// Get handles GET /users/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "invalid user id")
		return
	}

	u, err := h.service.Get(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "user not found")
			return
		}
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "USER_GET_FAILED", "Failed to get user", err)
		return
	}

	response.OK(w, u)
}

// Leaderboard handles GET /users/leaderboard?limit=N
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, _ = strconv.Atoi(raw)
	}

	rows, err := h.service.Leaderboard(r.Context(), limit)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, http.StatusInternalServerError, "LEADERBOARD_FAILED", "Failed to load leaderboard", err)
		return
	}

	response.OK(w, rows)
}
