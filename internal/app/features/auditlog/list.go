// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/compass/internal/app/store/audit"
	"github.com/dalemusser/compass/internal/app/system/paging"
	"github.com/dalemusser/compass/internal/app/system/timeouts"
	"github.com/dalemusser/compass/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const failedLoginCap = 500

// ServeList handles GET /admin/audit - displays the audit log list with filtering.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	// Get filter parameters
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	eventType := strings.TrimSpace(r.URL.Query().Get("event_type"))
	startDate := strings.TrimSpace(r.URL.Query().Get("start_date"))
	endDate := strings.TrimSpace(r.URL.Query().Get("end_date"))

	page := paging.ParsePage(r)

	filter := audit.QueryFilter{
		Category:  category,
		EventType: eventType,
		Limit:     paging.PageSize,
		Offset:    paging.Offset(page, paging.PageSize),
	}
	if startDate != "" {
		if t, err := time.Parse("2006-01-02", startDate); err == nil {
			filter.StartTime = &t
		}
	}
	if endDate != "" {
		if t, err := time.Parse("2006-01-02", endDate); err == nil {
			// End of day
			endOfDay := t.Add(24*time.Hour - time.Second)
			filter.EndTime = &endOfDay
		}
	}

	events, err := h.Events.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "query audit events", err, "A database error occurred.", "/admin")
		return
	}
	total, err := h.Events.CountByFilter(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count audit events", err, "A database error occurred.", "/admin")
		return
	}

	names := h.resolveNames(r, events)

	items := make([]listItem, 0, len(events))
	for _, e := range events {
		item := listItem{
			ID:         e.ID.Hex(),
			Timestamp:  e.Timestamp,
			Category:   e.Category,
			EventType:  e.EventType,
			EventLabel: audit.EventLabel(e.EventType),
			IP:         e.IP,
			Success:    e.Success,
			Details:    e.Details,
		}
		if e.ActorID != nil {
			item.ActorName = nameOr(names, *e.ActorID)
		}
		if e.UserID != nil {
			item.TargetName = nameOr(names, *e.UserID)
		}
		items = append(items, item)
	}

	failed, err := h.Events.GetFailedLogins(ctx, time.Now().UTC().Add(-24*time.Hour), failedLoginCap)
	if err != nil {
		h.Log.Warn("failed to load recent failed logins", zap.Error(err))
	}

	templates.Render(w, r, "audit_list", listData{
		BaseVM:             viewdata.NewBaseVM(r, "Audit Log", "/admin"),
		Items:              items,
		Category:           category,
		EventType:          eventType,
		StartDate:          startDate,
		EndDate:            endDate,
		Categories:         allCategories(),
		EventTypes:         eventOptions(category),
		RecentFailedLogins: len(failed),
		Pager:              paging.Compute(page, paging.PageSize, total, len(items)),
	})
}

// resolveNames batch-loads account names for every actor and affected user
// on the page. A failed lookup leaves raw ids in place.
func (h *Handler) resolveNames(r *http.Request, events []audit.Event) map[primitive.ObjectID]string {
	seen := make(map[primitive.ObjectID]struct{})
	for _, e := range events {
		if e.ActorID != nil {
			seen[*e.ActorID] = struct{}{}
		}
		if e.UserID != nil {
			seen[*e.UserID] = struct{}{}
		}
	}
	names := make(map[primitive.ObjectID]string, len(seen))
	if len(seen) == 0 {
		return names
	}

	ids := make([]primitive.ObjectID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "audit name lookup")
	defer cancel()

	users, err := h.Users.GetByIDs(ctx, ids)
	if err != nil {
		h.Log.Warn("failed to fetch user names for audit log", zap.Error(err))
		return names
	}
	for _, u := range users {
		names[u.ID] = u.FullName
	}
	return names
}

func nameOr(names map[primitive.ObjectID]string, id primitive.ObjectID) string {
	if n, ok := names[id]; ok {
		return n
	}
	return id.Hex()
}
