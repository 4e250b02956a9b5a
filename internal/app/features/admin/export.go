// internal/app/features/admin/export.go
package admin

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dalemusser/compass/internal/app/system/csvutil"
	"github.com/dalemusser/compass/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// HandleExport handles GET /admin/resources.csv: the published directory as
// a spreadsheet download.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Svc.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list resources for export", err, "Unable to export resources.", "/admin")
		return
	}

	name := fmt.Sprintf("compass-resources-%s.csv", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))

	n, err := csvutil.WriteResources(w, list)
	if err != nil {
		// Headers are already sent; all that is left is to log.
		h.Log.Error("write resource export", zap.Error(err), zap.Int("rows", n))
		return
	}
	if len(list) > n {
		h.Log.Warn("resource export truncated", zap.Int("rows", n), zap.Int("total", len(list)))
	}
}
