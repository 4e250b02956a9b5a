// internal/app/features/admin/resources.go
package admin

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	uierrors "github.com/dalemusser/compass/internal/app/features/errors"
	"github.com/dalemusser/compass/internal/app/system/htmlsanitize"
	"github.com/dalemusser/compass/internal/app/system/inputval"
	"github.com/dalemusser/compass/internal/app/system/limits"
	"github.com/dalemusser/compass/internal/app/system/moderation"
	"github.com/dalemusser/compass/internal/app/system/normalize"
	"github.com/dalemusser/compass/internal/app/system/timeouts"
	"github.com/dalemusser/compass/internal/app/system/viewdata"
	"github.com/dalemusser/compass/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// resourceInput defines validation rules for the admin resource form.
type resourceInput struct {
	Title       string `validate:"required,max=200" label:"Title"`
	Category    string `validate:"required,category" label:"Category"`
	Description string `validate:"max=2000" label:"Description"`
	Website     string `validate:"omitempty,httpurl" label:"Website"`
	ImageURL    string `validate:"omitempty,imageref" label:"Image"`
}

func (in resourceInput) model() models.ResourceInput {
	return models.ResourceInput{
		Title:       in.Title,
		Category:    models.Category(in.Category),
		Description: in.Description,
		Website:     in.Website,
		ImageURL:    in.ImageURL,
	}
}

func readResourceInput(r *http.Request) resourceInput {
	return resourceInput{
		Title:       normalize.Name(htmlsanitize.StripTags(r.PostFormValue("title"))),
		Category:    strings.TrimSpace(r.PostFormValue("category")),
		Description: normalize.Text(htmlsanitize.StripTags(r.PostFormValue("description"))),
		Website:     normalize.URL(r.PostFormValue("website")),
		ImageURL:    normalize.URL(r.PostFormValue("image_url")),
	}
}

// addressed builds the resource a form row refers to: the storage address
// from the path and the display number from the form. A path segment that is
// not a valid ObjectID leaves the address empty.
func addressed(r *http.Request) models.Resource {
	var res models.Resource
	if oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id")); err == nil {
		res.ID = oid
	}
	if n, err := strconv.ParseInt(strings.TrimSpace(r.PostFormValue("number")), 10, 64); err == nil {
		res.Number = n
	}
	res.Title = strings.TrimSpace(r.PostFormValue("title"))
	return res
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/resources                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleCreate publishes a resource authored by the signed-in admin.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxResourceFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", dashboardPath)
		return
	}

	in := readResourceInput(r)
	if res := inputval.Validate(in); res.HasErrors() {
		h.renderDashboard(w, r, in, res.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a := actor(r)
	created, err := h.Svc.Create(ctx, a, in.model())
	if err != nil {
		h.Log.Error("create resource failed", zap.Error(err))
		h.renderDashboard(w, r, in, "Unable to create the resource. Please try again.")
		return
	}

	h.AuditLog.ResourceCreated(ctx, r, a.ID, created.ID, created.Number, created.Title)
	backToDashboard(w, r)
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET/POST /admin/resources/{id}/edit                                         |
*─────────────────────────────────────────────────────────────────────────────*/

type editFormData struct {
	viewdata.BaseVM
	ID         string
	Number     int64
	Categories []models.Category
	Input      resourceInput
	Error      string
}

// ServeEdit renders the edit form for one resource.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid resource ID.", dashboardPath)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	res, err := h.Svc.Get(ctx, oid)
	if errors.Is(err, moderation.ErrNotFound) {
		uierrors.RenderNotFound(w, r, "Resource not found.", dashboardPath)
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load resource", err, "Unable to load the resource.", dashboardPath)
		return
	}

	h.renderEdit(w, r, res.ID.Hex(), res.Number, resourceInput{
		Title:       res.Title,
		Category:    string(res.Category),
		Description: res.Description,
		Website:     res.Website,
		ImageURL:    res.ImageURL,
	}, "")
}

func (h *Handler) renderEdit(w http.ResponseWriter, r *http.Request, id string, number int64, in resourceInput, errMsg string) {
	templates.Render(w, r, "admin_resource_edit", editFormData{
		BaseVM:     viewdata.NewBaseVM(r, "Edit Resource", dashboardPath),
		ID:         id,
		Number:     number,
		Categories: models.Categories,
		Input:      in,
		Error:      errMsg,
	})
}

// HandleEdit writes the form to the resource at the path's storage address.
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxResourceFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", dashboardPath)
		return
	}

	target := addressed(r)
	in := readResourceInput(r)
	if res := inputval.Validate(in); res.HasErrors() {
		h.renderEdit(w, r, chi.URLParam(r, "id"), target.Number, in, res.First())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a := actor(r)
	updated, err := h.Svc.Update(ctx, a, target, in.model())
	switch {
	case err == nil:
		h.AuditLog.ResourceUpdated(ctx, r, a.ID, updated.ID, updated.Number, updated.Title)
	case errors.Is(err, moderation.ErrMissingAddress), errors.Is(err, moderation.ErrNotFound):
		h.Log.Warn("resource update aborted",
			zap.String("id", chi.URLParam(r, "id")),
			zap.Int64("number", target.Number),
			zap.Error(err))
	default:
		h.Log.Error("resource update failed", zap.String("resource_id", target.ID.Hex()), zap.Error(err))
		h.renderEdit(w, r, target.ID.Hex(), target.Number, in, "Unable to save changes. Please try again.")
		return
	}
	backToDashboard(w, r)
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /admin/resources/{id}/delete                                           |
*─────────────────────────────────────────────────────────────────────────────*/

// HandleDelete removes the resource at the path's storage address. A row
// without a usable address is logged and left alone.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", dashboardPath)
		return
	}

	target := addressed(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	a := actor(r)
	gone, err := h.Svc.Delete(ctx, a, target)
	switch {
	case err == nil:
		h.AuditLog.ResourceDeleted(ctx, r, a.ID, gone.ID, gone.Number, gone.Title)
	case errors.Is(err, moderation.ErrMissingAddress), errors.Is(err, moderation.ErrNotFound):
		h.Log.Warn("resource delete aborted",
			zap.String("id", chi.URLParam(r, "id")),
			zap.Int64("number", target.Number),
			zap.Error(err))
	default:
		h.Log.Error("resource delete failed", zap.String("resource_id", target.ID.Hex()), zap.Error(err))
	}
	backToDashboard(w, r)
}
