// internal/app/features/directory/list.go
package directory

import (
	"context"
	"encoding/json"
	"html/template"
	"net/http"

	resourcestore "github.com/dalemusser/compass/internal/app/store/resources"
	filter "github.com/dalemusser/compass/internal/app/system/directory"
	"github.com/dalemusser/compass/internal/app/system/normalize"
	"github.com/dalemusser/compass/internal/app/system/timeouts"
	"github.com/dalemusser/compass/internal/app/system/viewdata"
	"github.com/dalemusser/compass/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// card is one directory entry as the page shows it.
type card struct {
	models.Resource
	Image template.URL
}

type listData struct {
	viewdata.BaseVM
	Query      string
	Category   string
	Categories []string
	Items      []card
	Total      int
}

// load reads every published resource and applies the q and category
// parameters from the request.
func (h *Handler) load(r *http.Request) (items []models.Resource, q, cat string, total int, err error) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	q = query.Search(r, "q")
	cat = normalize.QueryParam(query.Get(r, "category"))
	if cat == "" {
		cat = filter.AllCategories
	}

	all, err := resourcestore.New(h.DB).List(ctx)
	if err != nil {
		return nil, q, cat, 0, err
	}
	return filter.Filter(all, q, cat), q, cat, len(all), nil
}

// ServeList handles GET /directory.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	items, q, cat, total, err := h.load(r)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "database error listing resources", err, "The directory is unavailable right now.", "/")
		return
	}

	data := listData{
		BaseVM:     viewdata.NewBaseVM(r, "Resource Directory", "/"),
		Query:      q,
		Category:   cat,
		Categories: filter.CategoryOptions(),
		Items:      make([]card, 0, len(items)),
		Total:      total,
	}
	for _, res := range items {
		data.Items = append(data.Items, card{Resource: res, Image: viewdata.ImageSrc(res.ImageURL)})
	}

	templates.Render(w, r, "directory", data)
}

// ServeAPI handles GET /api/resources and returns the filtered list as JSON.
func (h *Handler) ServeAPI(w http.ResponseWriter, r *http.Request) {
	items, _, _, _, err := h.load(r)
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		h.Log.Error("database error listing resources", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Unable to load resources."})
		return
	}
	_ = json.NewEncoder(w).Encode(items)
}
