package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns user routes. The actions and badges subrouters carry
// their own auth middleware.
func Routes(h *Handler, authMiddleware func(http.Handler) http.Handler, actions, badges http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/leaderboard", h.Leaderboard)

	r.Route("/me", func(r chi.Router) {
		r.With(authMiddleware).Get("/", h.Me)
		r.Mount("/actions", actions)
		r.Mount("/badges", badges)
	})

	r.Get("/{id}", h.Get)

	return r
}

// AuthRoutes returns the identity sync route
func AuthRoutes(h *Handler, authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Post("/sync-user", h.Sync)

	return r
}
