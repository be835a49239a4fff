package admin

import "github.com/go-chi/chi/v5"

// Routes returns admin routes
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/auth/login", h.Login)
	r.Post("/auth/seed", h.Seed)

	r.Group(func(r chi.Router) {
		r.Use(h.Middleware)
		r.Get("/reports", h.ListReports)
	})

	return r
}
