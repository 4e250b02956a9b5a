// internal/app/features/submit/handler.go
package submit

import (
	uierrors "github.com/dalemusser/compass/internal/app/features/errors"
	"github.com/dalemusser/compass/internal/app/system/auditlog"
	"github.com/dalemusser/compass/internal/app/system/moderation"
	"github.com/dalemusser/compass/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

// Handler serves the public "Submit a Resource" form.
type Handler struct {
	Svc      *moderation.Service
	AuditLog *auditlog.Logger
	Limiter  *ratelimit.Limiter // per client IP; nil disables throttling
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
}

func NewHandler(svc *moderation.Service, audit *auditlog.Logger, limiter *ratelimit.Limiter, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Svc:      svc,
		AuditLog: audit,
		Limiter:  limiter,
		Log:      logger,
		ErrLog:   errLog,
	}
}
