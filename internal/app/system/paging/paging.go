// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the default number of rows shown in paged lists.
// Keep this as an int because most call sites add/subtract and then
// cast to int64 for Mongo Find().SetSkip()/SetLimit().
const PageSize = 50

// ParsePage extracts the 1-based "page" query parameter.
// Returns 1 if not present or invalid.
func ParsePage(r *http.Request) int {
	s := query.Get(r, "page")
	if s == "" {
		return 1
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// Offset returns the number of rows to skip to reach page.
func Offset(page, size int) int64 {
	if page < 1 {
		page = 1
	}
	return int64((page - 1) * size)
}

// Pager holds the numbers a page footer needs. Embed it in a view model.
type Pager struct {
	Page       int
	TotalPages int
	Total      int64
	Shown      int
	HasPrev    bool
	HasNext    bool
	PrevPage   int
	NextPage   int
}

// Compute builds a Pager for page out of total rows, shown of which are on
// this page. There is always at least one page.
func Compute(page, size int, total int64, shown int) Pager {
	if page < 1 {
		page = 1
	}
	totalPages := 1
	if size > 0 && total > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}

	p := Pager{
		Page:       page,
		TotalPages: totalPages,
		Total:      total,
		Shown:      shown,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
		PrevPage:   page - 1,
		NextPage:   page + 1,
	}
	if p.PrevPage < 1 {
		p.PrevPage = 1
	}
	if p.NextPage > totalPages {
		p.NextPage = totalPages
	}
	return p
}
