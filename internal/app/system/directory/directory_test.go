package directory_test

import (
	"testing"

	"github.com/dalemusser/compass/internal/app/system/directory"
	"github.com/dalemusser/compass/internal/domain/models"
)

func sample() []models.Resource {
	return []models.Resource{
		{Number: 1, Title: "Downtown Food Bank", Category: models.CategoryFood, Description: "Groceries every Tuesday"},
		{Number: 2, Title: "ESL Class", Category: models.CategoryEducation, Description: "Free classes"},
		{Number: 3, Title: "Church Pantry", Category: models.CategoryFood, Description: "Partner of the FOOD BANK network"},
		{Number: 4, Title: "Bus Pass Help", Category: models.CategoryTransit, Description: "Reduced fares"},
		{Number: 5, Title: "Food banking class", Category: models.CategoryEducation, Description: ""},
		{Number: 6, Title: "Café Comunitário", Category: models.CategorySocial, Description: "Conversation hour"},
	}
}

func numbers(list []models.Resource) []int64 {
	out := make([]int64, len(list))
	for i, r := range list {
		out[i] = r.Number
	}
	return out
}

func equal(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		category string
		want     []int64
	}{
		{"empty query all categories", "", "all", []int64{1, 2, 3, 4, 5, 6}},
		{"empty category is all", "", "", []int64{1, 2, 3, 4, 5, 6}},
		{"food bank any case", "food bank", "all", []int64{1, 3, 5}},
		{"upper case query", "FOOD BANK", "all", []int64{1, 3, 5}},
		{"matches description", "tuesday", "all", []int64{1}},
		{"category only", "", "Food", []int64{1, 3}},
		{"category then query", "food bank", "Education", []int64{5}},
		{"surrounding space ignored", "  esl ", "all", []int64{2}},
		{"no match", "housing", "all", []int64{}},
		{"unknown category", "", "Housing", []int64{}},
		{"All is case-insensitive", "", "ALL", []int64{1, 2, 3, 4, 5, 6}},
		{"accents ignored in title", "cafe comunitario", "all", []int64{6}},
		{"accents ignored in query", "CONVERSATIÓN", "all", []int64{6}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := numbers(directory.Filter(sample(), tt.query, tt.category))
			if !equal(got, tt.want) {
				t.Errorf("Filter(%q, %q): got %v, want %v", tt.query, tt.category, got, tt.want)
			}
		})
	}
}

func TestFilter_EmptyQueryKeepsOrder(t *testing.T) {
	list := sample()
	got := directory.Filter(list, "", directory.AllCategories)
	if !equal(numbers(got), numbers(list)) {
		t.Errorf("order changed: got %v, want %v", numbers(got), numbers(list))
	}
}

func TestFilter_DoesNotModifyInput(t *testing.T) {
	list := sample()
	_ = directory.Filter(list, "food", "Food")
	if !equal(numbers(list), []int64{1, 2, 3, 4, 5, 6}) {
		t.Errorf("input modified: %v", numbers(list))
	}
}

func TestFilter_NilList(t *testing.T) {
	got := directory.Filter(nil, "x", "all")
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", got)
	}
}

func TestCategoryOptions(t *testing.T) {
	opts := directory.CategoryOptions()
	if opts[0] != "all" {
		t.Errorf("first option: got %q, want %q", opts[0], "all")
	}
	if len(opts) != len(models.Categories)+1 {
		t.Errorf("options: got %d, want %d", len(opts), len(models.Categories)+1)
	}
}
