// internal/app/features/admin/handler.go
package admin

import (
	"net/http"

	uierrors "github.com/dalemusser/compass/internal/app/features/errors"
	"github.com/dalemusser/compass/internal/app/store/audit"
	"github.com/dalemusser/compass/internal/app/system/auditlog"
	"github.com/dalemusser/compass/internal/app/system/auth"
	"github.com/dalemusser/compass/internal/app/system/moderation"
	"go.uber.org/zap"
)

const dashboardPath = "/admin"

// Handler serves the moderation dashboard and the resource and submission
// actions posted from it.
type Handler struct {
	Svc      *moderation.Service
	Events   *audit.Store
	AuditLog *auditlog.Logger
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
}

func NewHandler(svc *moderation.Service, events *audit.Store, auditLog *auditlog.Logger, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Svc:      svc,
		Events:   events,
		AuditLog: auditLog,
		Log:      logger,
		ErrLog:   errLog,
	}
}

// actor reads the signed-in admin once per request.
func actor(r *http.Request) moderation.Actor {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return moderation.Actor{}
	}
	return moderation.Actor{ID: u.ObjectID(), Name: u.Name}
}

// backToDashboard finishes every POST with a redirect so a refresh never
// repeats the action.
func backToDashboard(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
}
