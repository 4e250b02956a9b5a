// internal/app/features/login/routes.go
package login

import "github.com/go-chi/chi/v5"

// Routes mounts sign-in at "/admin/login".
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeLogin)
	r.Post("/", h.HandleLoginPost)
	return r
}

// SignupRoutes mounts account creation at "/admin/signup".
func SignupRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeSignup)
	r.Post("/", h.HandleSignupPost)
	return r
}
