// internal/app/features/admin/routes.go
package admin

import (
	"github.com/dalemusser/compass/internal/app/system/auth"
	"github.com/dalemusser/compass/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the dashboard and its actions (typically at "/admin").
// Sign-in and sign-out are mounted separately and stay outside this gate.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Use(sm.RequireRole(models.RoleAdmin))

	r.Get("/", h.ServeDashboard)

	r.Post("/resources", h.HandleCreate)
	r.Get("/resources.csv", h.HandleExport)
	r.Get("/resources/{id}/edit", h.ServeEdit)
	r.Post("/resources/{id}/edit", h.HandleEdit)
	r.Post("/resources/{id}/delete", h.HandleDelete)

	r.Post("/pending/{id}/approve", h.HandleApprove)
	r.Post("/pending/{id}/reject", h.HandleReject)
	return r
}
