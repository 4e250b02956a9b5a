// internal/app/features/auditlog/types.go
package auditlog

import (
	"time"

	"github.com/dalemusser/compass/internal/app/store/audit"
	"github.com/dalemusser/compass/internal/app/system/paging"
	"github.com/dalemusser/compass/internal/app/system/viewdata"
)

// listItem represents a single audit event row for display.
type listItem struct {
	ID         string
	Timestamp  time.Time
	Category   string
	EventType  string
	EventLabel string
	ActorName  string // resolved from ActorID
	TargetName string // resolved from UserID
	IP         string
	Success    bool
	Details    map[string]string
}

// listData is the view model for the audit log list page.
type listData struct {
	viewdata.BaseVM

	Items []listItem

	// Filters
	Category  string
	EventType string
	StartDate string
	EndDate   string

	// Filter options
	Categories []categoryOption
	EventTypes []eventOption

	// Failed sign-ins in the last day, shown above the table.
	RecentFailedLogins int

	paging.Pager
}

// categoryOption represents a category for the filter dropdown.
type categoryOption struct {
	Value string
	Label string
}

type eventOption struct {
	Value string
	Label string
}

func allCategories() []categoryOption {
	return []categoryOption{
		{Value: audit.CategoryAuth, Label: "Authentication"},
		{Value: audit.CategoryAdmin, Label: "Moderation"},
		{Value: audit.CategoryPublic, Label: "Public"},
	}
}

// eventOptions returns the event types for a given category.
// If category is empty, returns all event types.
func eventOptions(category string) []eventOption {
	types := audit.EventTypes(category)
	out := make([]eventOption, 0, len(types))
	for _, t := range types {
		out = append(out, eventOption{Value: t, Label: audit.EventLabel(t)})
	}
	return out
}
