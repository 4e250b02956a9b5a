// internal/app/features/admin/dashboard.go
package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/compass/internal/app/store/audit"
	"github.com/dalemusser/compass/internal/app/system/timeouts"
	"github.com/dalemusser/compass/internal/app/system/viewdata"
	"github.com/dalemusser/compass/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

const recentActivityLimit = 10

type resourceRow struct {
	ID          string
	Number      int64
	Title       string
	Category    models.Category
	Description string
	Website     string
}

type pendingRow struct {
	ID             string
	Name           string
	Category       models.PendingCategory
	PublishesAs    models.Category
	Description    string
	WebsiteURL     string
	Address        string
	Phone          string
	Email          string
	Hours          string
	Tags           []string
	SubmitterName  string
	SubmitterEmail string
	Approving      bool
	SubmittedAt    time.Time
}

type activityRow struct {
	When   time.Time
	Event  string
	Title  string
	Number string
}

type dashboardData struct {
	viewdata.BaseVM
	Resources  []resourceRow
	Pending    []pendingRow
	Activity   []activityRow
	Categories []models.Category
	Input      resourceInput
	Error      string
}

// ServeDashboard handles GET /admin.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	h.renderDashboard(w, r, resourceInput{}, "")
}

func (h *Handler) renderDashboard(w http.ResponseWriter, r *http.Request, in resourceInput, errMsg string) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Svc.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list resources", err, "Unable to load resources.", "/")
		return
	}
	pending, err := h.Svc.ListPending(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list submissions", err, "Unable to load submissions.", "/")
		return
	}

	data := dashboardData{
		BaseVM:     viewdata.NewBaseVM(r, "Admin Dashboard", "/"),
		Resources:  make([]resourceRow, 0, len(list)),
		Pending:    make([]pendingRow, 0, len(pending)),
		Categories: models.Categories,
		Input:      in,
		Error:      errMsg,
	}
	for _, res := range list {
		data.Resources = append(data.Resources, resourceRow{
			ID:          res.ID.Hex(),
			Number:      res.Number,
			Title:       res.Title,
			Category:    res.Category,
			Description: res.Description,
			Website:     res.Website,
		})
	}
	for _, p := range pending {
		data.Pending = append(data.Pending, pendingRow{
			ID:             p.ID.Hex(),
			Name:           p.Name,
			Category:       p.Category,
			PublishesAs:    models.TranslateCategory(p.Category),
			Description:    p.Description,
			WebsiteURL:     p.WebsiteURL,
			Address:        p.Address,
			Phone:          p.Phone,
			Email:          p.Email,
			Hours:          p.Hours,
			Tags:           p.Tags,
			SubmitterName:  p.SubmitterName,
			SubmitterEmail: p.SubmitterEmail,
			Approving:      p.Status == models.PendingStatusApproving,
			SubmittedAt:    p.CreatedAt,
		})
	}
	data.Activity = h.recentActivity(ctx)

	templates.Render(w, r, "admin_dashboard", data)
}

// recentActivity is best effort; the dashboard still renders without it.
func (h *Handler) recentActivity(ctx context.Context) []activityRow {
	if h.Events == nil {
		return nil
	}
	events, err := h.Events.GetRecentModeration(ctx, recentActivityLimit)
	if err != nil {
		h.Log.Warn("load recent moderation events", zap.Error(err))
		return nil
	}
	rows := make([]activityRow, 0, len(events))
	for _, e := range events {
		rows = append(rows, activityRow{
			When:   e.Timestamp,
			Event:  audit.EventLabel(e.EventType),
			Title:  e.Details["title"],
			Number: e.Details["number"],
		})
	}
	return rows
}
