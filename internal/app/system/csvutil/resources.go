// internal/app/system/csvutil/resources.go
package csvutil

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/compass/internal/domain/models"
)

// ResourceHeader is the first row of a resource export.
var ResourceHeader = []string{"Number", "Storage ID", "Title", "Category", "Description", "Website", "Image", "Created"}

// inlineImage replaces data: image payloads, which are too large for a cell.
const inlineImage = "(inline image)"

// WriteResources writes list as CSV with a header row. At most MaxRows
// resources are written; the returned count says how many were.
func WriteResources(w io.Writer, list []models.Resource) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(ResourceHeader); err != nil {
		return 0, err
	}

	n := 0
	for _, r := range list {
		if n == MaxRows {
			break
		}
		img := r.ImageURL
		if strings.HasPrefix(img, "data:") {
			img = inlineImage
		}
		rec := []string{
			strconv.FormatInt(r.Number, 10),
			r.ID.Hex(),
			Cell(r.Title),
			string(r.Category),
			Cell(r.Description),
			Cell(r.Website),
			Cell(img),
			r.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(rec); err != nil {
			return n, err
		}
		n++
	}
	cw.Flush()
	return n, cw.Error()
}

// Cell neutralizes values a spreadsheet would evaluate as a formula.
func Cell(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}
