package report

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns report routes. Reads are public with optional identity
// for personalized projections; writes require auth.
func Routes(h *Handler, authMiddleware, optionalAuthMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(optionalAuthMiddleware)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Get("/{id}/comments", h.ListComments)
	})

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Create)
		r.Post("/{id}/follow", h.Follow)
		r.Delete("/{id}/follow", h.Unfollow)
		r.Post("/{id}/comments", h.AddComment)
		r.Post("/{id}/progress", h.MarkInProgress)
		r.Post("/{id}/close", h.Close)
		r.Post("/{id}/confirm", h.Confirm)
	})

	return r
}
