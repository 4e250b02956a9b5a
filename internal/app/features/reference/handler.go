// internal/app/features/reference/handler.go
package reference

import (
	"net/http"
	"os"
	"path/filepath"

	uierrors "github.com/dalemusser/compass/internal/app/features/errors"
	"github.com/dalemusser/compass/internal/app/system/sitecontent"
	"github.com/dalemusser/compass/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler serves the reference page, the work log page and the
// downloadable documents listed in site content.
type Handler struct {
	Content *sitecontent.Content
	DocsDir string
	Log     *zap.Logger
}

func NewHandler(content *sitecontent.Content, docsDir string, logger *zap.Logger) *Handler {
	return &Handler{
		Content: content,
		DocsDir: docsDir,
		Log:     logger,
	}
}

type referenceData struct {
	viewdata.BaseVM
	Developed   string
	Sources     []sitecontent.Source
	Framework   string
	Permissions string
	Documents   []sitecontent.Document
}

type worklogData struct {
	viewdata.BaseVM
	Document sitecontent.Document
	HasLog   bool
}

// worklogSlug is the document linked from the work log page.
const worklogSlug = "tsa-work-log.pdf"

func (h *Handler) ServeReference(w http.ResponseWriter, r *http.Request) {
	ref := h.Content.Reference
	templates.Render(w, r, "reference", referenceData{
		BaseVM:      viewdata.NewBaseVM(r, "Reference", "/"),
		Developed:   ref.Developed,
		Sources:     ref.Sources,
		Framework:   ref.Framework,
		Permissions: ref.Permissions,
		Documents:   h.Content.Documents,
	})
}

func (h *Handler) ServeWorklog(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.Content.Document(worklogSlug)
	templates.Render(w, r, "worklog", worklogData{
		BaseVM:   viewdata.NewBaseVM(r, "Work Log", "/reference"),
		Document: doc,
		HasLog:   ok,
	})
}

// ServeDocument handles GET /docs/{slug}. Only slugs named in site content
// resolve; the file is read from DocsDir.
func (h *Handler) ServeDocument(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	doc, ok := h.Content.Document(slug)
	if !ok {
		uierrors.RenderNotFound(w, r, "That document does not exist.", "/reference")
		return
	}

	p := filepath.Join(h.DocsDir, doc.File)
	if _, err := os.Stat(p); err != nil {
		h.Log.Warn("document file unavailable", zap.String("slug", slug), zap.String("path", p), zap.Error(err))
		uierrors.RenderNotFound(w, r, "That document is not available right now.", "/reference")
		return
	}
	http.ServeFile(w, r, p)
}
