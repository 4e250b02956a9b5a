// Package directory filters the published resource list for the public
// directory page and its JSON endpoint.
package directory

import (
	"strings"

	"github.com/dalemusser/compass/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
)

// AllCategories is the category value that disables category filtering.
const AllCategories = "all"

// Filter returns the members of list that match category and query, in their
// original order. An empty category or "all" keeps every category. query is
// matched as a substring of the title or the description after both are folded
// (lowercased, diacritics stripped) the same way the store folds title_ci; an
// empty query matches everything. list is not modified.
func Filter(list []models.Resource, query, category string) []models.Resource {
	q := text.Fold(query)
	cat := strings.TrimSpace(category)
	anyCategory := cat == "" || strings.EqualFold(cat, AllCategories)

	out := make([]models.Resource, 0, len(list))
	for _, r := range list {
		if !anyCategory && string(r.Category) != cat {
			continue
		}
		if q != "" && !matches(r, q) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func matches(r models.Resource, folded string) bool {
	return strings.Contains(text.Fold(r.Title), folded) ||
		strings.Contains(text.Fold(r.Description), folded)
}

// CategoryOptions returns the choices for the directory's category select,
// "all" first.
func CategoryOptions() []string {
	return append([]string{AllCategories}, models.CategoryValues()...)
}
