package home

import (
	"net/http"

	"github.com/dalemusser/compass/internal/app/system/sitecontent"
	"github.com/dalemusser/compass/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Handler holds dependencies needed to serve the landing page.
type Handler struct {
	Content *sitecontent.Content
	Log     *zap.Logger
}

func NewHandler(content *sitecontent.Content, logger *zap.Logger) *Handler {
	return &Handler{
		Content: content,
		Log:     logger,
	}
}

type homeData struct {
	viewdata.BaseVM
	Tagline     string
	Steps       []sitecontent.Step
	Spotlights  []sitecontent.Spotlight
	Itineraries []sitecontent.Itinerary
	Glossary    []sitecontent.Term
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "home", h.buildData(r))
}

func (h *Handler) buildData(r *http.Request) homeData {
	c := h.Content
	return homeData{
		BaseVM:      viewdata.NewBaseVM(r, "Welcome", "/"),
		Tagline:     c.Tagline,
		Steps:       c.Steps,
		Spotlights:  c.Spotlights,
		Itineraries: c.LocalFlavor.Itineraries,
		Glossary:    c.LocalFlavor.Glossary,
	}
}
