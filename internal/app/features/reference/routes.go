// internal/app/features/reference/routes.go
package reference

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeReference)
	return r
}

func WorklogRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeWorklog)
	return r
}

// DocumentRoutes is mounted at /docs.
func DocumentRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/{slug}", h.ServeDocument)
	return r
}
