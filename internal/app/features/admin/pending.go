// internal/app/features/admin/pending.go
package admin

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/compass/internal/app/system/moderation"
	"github.com/dalemusser/compass/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// HandleApprove publishes a pending submission and removes it from the queue.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	idHex := chi.URLParam(r, "id")
	pid, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		h.Log.Warn("approve: bad submission id", zap.String("id", idHex))
		backToDashboard(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a := actor(r)
	res, err := h.Svc.Approve(ctx, a, pid)
	switch {
	case err == nil:
		h.AuditLog.SubmissionApproved(ctx, r, a.ID, pid, res.ID, res.Number, res.Title)
	case errors.Is(err, moderation.ErrNotFound):
		h.Log.Warn("approve: submission no longer pending", zap.String("pending_id", idHex))
	default:
		h.Log.Error("approve failed", zap.String("pending_id", idHex), zap.Error(err))
	}
	backToDashboard(w, r)
}

// HandleReject discards a pending submission.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	idHex := chi.URLParam(r, "id")
	pid, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		h.Log.Warn("reject: bad submission id", zap.String("id", idHex))
		backToDashboard(w, r)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a := actor(r)
	p, err := h.Svc.Reject(ctx, a, pid)
	switch {
	case err == nil:
		h.AuditLog.SubmissionRejected(ctx, r, a.ID, pid, p.Name)
	case errors.Is(err, moderation.ErrNotFound):
		h.Log.Warn("reject: submission no longer pending", zap.String("pending_id", idHex))
	case errors.Is(err, moderation.ErrApprovalInProgress):
		h.Log.Warn("reject: approval already in progress", zap.String("pending_id", idHex))
	default:
		h.Log.Error("reject failed", zap.String("pending_id", idHex), zap.Error(err))
	}
	backToDashboard(w, r)
}
