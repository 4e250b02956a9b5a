// internal/app/features/chat/routes.go
package chat

import "github.com/go-chi/chi/v5"

// Routes mounts the chat proxy (typically at "/api/chat").
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleChat)
	return r
}
