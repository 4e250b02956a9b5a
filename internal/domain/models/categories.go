// internal/domain/models/categories.go
package models

import "strings"

// Category is the vocabulary used by published directory entries.
//
// These values are stored in the database in the Resource.Category field and
// shown as-is in the directory filter.
type Category string

const (
	CategorySocial    Category = "Social"
	CategoryFood      Category = "Food"
	CategoryEducation Category = "Education"
	CategoryTransit   Category = "Transit"
	CategoryOther     Category = "Other"
)

// Categories is the full set of published categories, in display order.
//
// This slice is the single source of truth for validation and schema enums.
var Categories = []Category{
	CategorySocial,
	CategoryFood,
	CategoryEducation,
	CategoryTransit,
	CategoryOther,
}

// Valid reports whether c is a member of Categories.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// ParseCategory returns the Category named by s (surrounding space ignored).
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.TrimSpace(s))
	return c, c.Valid()
}

// CategoryValues returns Categories as plain strings (for schema enums and selects).
func CategoryValues() []string {
	out := make([]string, len(Categories))
	for i, c := range Categories {
		out[i] = string(c)
	}
	return out
}

// PendingCategory is the vocabulary offered on the public submission form.
// It is deliberately a separate type from Category; the only way across is
// TranslateCategory.
type PendingCategory string

const (
	PendingEssentialServices PendingCategory = "Essential Services"
	PendingSocialCommunity   PendingCategory = "Social & Community"
	PendingEducationESL      PendingCategory = "Education/ESL"
	PendingTransportation    PendingCategory = "Transportation"
)

// PendingCategories lists the submission categories in form order.
var PendingCategories = []PendingCategory{
	PendingEssentialServices,
	PendingSocialCommunity,
	PendingEducationESL,
	PendingTransportation,
}

// Valid reports whether c is a member of PendingCategories.
func (c PendingCategory) Valid() bool {
	for _, v := range PendingCategories {
		if v == c {
			return true
		}
	}
	return false
}

// ParsePendingCategory returns the PendingCategory named by s.
func ParsePendingCategory(s string) (PendingCategory, bool) {
	c := PendingCategory(strings.TrimSpace(s))
	return c, c.Valid()
}

// PendingCategoryValues returns PendingCategories as plain strings.
func PendingCategoryValues() []string {
	out := make([]string, len(PendingCategories))
	for i, c := range PendingCategories {
		out[i] = string(c)
	}
	return out
}

var categoryTranslation = map[PendingCategory]Category{
	PendingEssentialServices: CategoryOther,
	PendingSocialCommunity:   CategorySocial,
	PendingEducationESL:      CategoryEducation,
	PendingTransportation:    CategoryTransit,
}

// TranslateCategory maps a submission category onto the published vocabulary.
// Anything outside the table becomes CategoryOther; it never fails.
func TranslateCategory(pc PendingCategory) Category {
	if c, ok := categoryTranslation[pc]; ok {
		return c
	}
	return CategoryOther
}
