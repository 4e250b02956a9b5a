// internal/app/features/submit/form.go
package submit

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/compass/internal/app/system/htmlsanitize"
	"github.com/dalemusser/compass/internal/app/system/inputval"
	"github.com/dalemusser/compass/internal/app/system/limits"
	"github.com/dalemusser/compass/internal/app/system/normalize"
	"github.com/dalemusser/compass/internal/app/system/ratelimit"
	"github.com/dalemusser/compass/internal/app/system/timeouts"
	"github.com/dalemusser/compass/internal/app/system/viewdata"
	"github.com/dalemusser/compass/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

const successMessage = "Thank you! Your resource has been submitted for review."

// submitInput is the submission form after cleanup.
type submitInput struct {
	Name           string `validate:"required,max=200" label:"Resource name"`
	Category       string `validate:"required,pendingcategory" label:"Category"`
	Description    string `validate:"max=2000" label:"Description"`
	WebsiteURL     string `validate:"omitempty,httpurl" label:"Website"`
	ImageURL       string `validate:"omitempty,imageref" label:"Image"`
	Address        string `validate:"max=300" label:"Address"`
	Phone          string `validate:"max=40" label:"Phone"`
	Email          string `validate:"omitempty,emailaddr" label:"Contact email"`
	Hours          string `validate:"max=200" label:"Hours"`
	Tags           string `validate:"max=500" label:"Tags"`
	SubmitterName  string `validate:"max=200" label:"Your name"`
	SubmitterEmail string `validate:"omitempty,emailaddr" label:"Your email"`
}

type formData struct {
	viewdata.BaseVM
	Categories []models.PendingCategory
	Input      submitInput
	Error      string
	Success    string
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, in submitInput, errMsg, success string) {
	templates.Render(w, r, "submit_form", formData{
		BaseVM:     viewdata.NewBaseVM(r, "Submit a Resource", "/"),
		Categories: models.PendingCategories,
		Input:      in,
		Error:      errMsg,
		Success:    success,
	})
}

// ServeForm handles GET /submit.
func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, submitInput{}, "", "")
}

// readInput strips markup from every free-text field and normalizes it.
func readInput(r *http.Request) submitInput {
	clean := func(key string) string {
		return htmlsanitize.StripTags(r.PostFormValue(key))
	}
	return submitInput{
		Name:           normalize.Name(clean("name")),
		Category:       strings.TrimSpace(r.PostFormValue("category")),
		Description:    normalize.Text(clean("description")),
		WebsiteURL:     normalize.URL(r.PostFormValue("website_url")),
		ImageURL:       normalize.URL(r.PostFormValue("image_url")),
		Address:        normalize.Text(clean("address")),
		Phone:          normalize.Phone(r.PostFormValue("phone")),
		Email:          normalize.Email(r.PostFormValue("email")),
		Hours:          normalize.Text(clean("hours")),
		Tags:           clean("tags"),
		SubmitterName:  normalize.Name(clean("submitter_name")),
		SubmitterEmail: normalize.Email(r.PostFormValue("submitter_email")),
	}
}

func (in submitInput) pending() models.PendingResource {
	return models.PendingResource{
		Name:           in.Name,
		Category:       models.PendingCategory(in.Category),
		Description:    in.Description,
		WebsiteURL:     in.WebsiteURL,
		ImageURL:       in.ImageURL,
		Address:        in.Address,
		Phone:          in.Phone,
		Email:          in.Email,
		Hours:          in.Hours,
		Tags:           normalize.Tags(in.Tags),
		SubmitterName:  in.SubmitterName,
		SubmitterEmail: in.SubmitterEmail,
	}
}

// HandleSubmit handles POST /submit.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxResourceFormSize)
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse form failed", err, "Invalid form data.", "/submit")
		return
	}

	in := readInput(r)

	if h.Limiter != nil && !h.Limiter.Allow(ratelimit.ClientIP(r)) {
		h.Log.Info("submission throttled", zap.String("ip", ratelimit.ClientIP(r)))
		w.WriteHeader(http.StatusTooManyRequests)
		h.render(w, r, in, "Too many submissions. Please try again later.", "")
		return
	}

	if res := inputval.Validate(in); res.HasErrors() {
		h.render(w, r, in, res.First(), "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Svc.Submit(ctx, in.pending())
	if err != nil {
		h.Log.Error("failed to save submission", zap.Error(err))
		h.render(w, r, in, "Error submitting resource. Please try again.", "")
		return
	}

	h.AuditLog.SubmissionReceived(ctx, r, p.ID, p.Name, string(p.Category))
	h.render(w, r, submitInput{}, "", successMessage)
}
