// Package normalize cleans raw form values before they are validated or stored.
package normalize

import (
	"strings"
	"unicode"
)

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims and collapses internal runs of whitespace. Case is preserved.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Text trims a free-text field and normalizes line endings.
func Text(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.TrimSpace(s)
}

// URL trims a link field. An empty result means "no link".
func URL(s string) string {
	return strings.TrimSpace(s)
}

// Phone keeps digits and the usual separators, dropping anything else.
func Phone(s string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsDigit(r) || strings.ContainsRune("+-() .x", r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// Tags splits a comma-separated list, trims each entry, and drops blanks and
// repeats (compared case-insensitively, first spelling kept).
func Tags(s string) []string {
	var out []string
	seen := map[string]bool{}
	for _, part := range strings.Split(s, ",") {
		tag := Name(part)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tag)
	}
	return out
}

// QueryParam trims a search or filter value taken from the URL.
func QueryParam(s string) string {
	return strings.TrimSpace(s)
}
