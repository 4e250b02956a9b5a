// internal/app/features/directory/routes.go
package directory

import "github.com/go-chi/chi/v5"

// Routes serves the directory page (mounted at "/directory").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	return r
}

// APIRoutes serves the JSON list (mounted at "/api/resources").
func APIRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeAPI)
	return r
}
