package badge

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Joyanne05/fixit-my/internal/middleware"
	"github.com/Joyanne05/fixit-my/internal/pkg/response"
)

// Handler serves the badge catalog and per-user grants
type Handler struct {
	evaluator *Evaluator
}

func NewHandler(evaluator *Evaluator) *Handler {
	return &Handler{evaluator: evaluator}
}

// ListAll handles GET /badges
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	badges, err := h.evaluator.ListAll(r.Context())
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{"badges": badges})
}

// ListMine handles GET /users/me/badges
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "unauthorized")
		return
	}

	badges, err := h.evaluator.ListByUser(r.Context(), userID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]interface{}{"badges": badges})
}

// Routes returns public badge catalog routes
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ListAll)
	return r
}

// UserRoutes returns authenticated per-user badge routes
func UserRoutes(h *Handler, authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Get("/", h.ListMine)
	return r
}
