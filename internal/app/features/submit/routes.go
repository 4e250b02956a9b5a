// internal/app/features/submit/routes.go
package submit

import "github.com/go-chi/chi/v5"

// Routes mounts the public submission form (typically at "/submit").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeForm)
	r.Post("/", h.HandleSubmit)
	return r
}
