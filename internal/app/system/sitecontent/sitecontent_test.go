package sitecontent_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dalemusser/compass/internal/app/system/sitecontent"
)

func TestDefault(t *testing.T) {
	c, err := sitecontent.Default()
	if err != nil {
		t.Fatalf("Default failed: %v", err)
	}
	if c.SiteName != "The Newcomer's Compass" {
		t.Errorf("SiteName: got %q", c.SiteName)
	}
	if len(c.Spotlights) != 3 {
		t.Errorf("Spotlights: got %d, want 3", len(c.Spotlights))
	}
	if len(c.LocalFlavor.Itineraries) != 2 || len(c.LocalFlavor.Glossary) != 5 {
		t.Errorf("LocalFlavor: got %d itineraries, %d terms", len(c.LocalFlavor.Itineraries), len(c.LocalFlavor.Glossary))
	}
	for _, slug := range []string{"student-copyright-checklist.pdf", "tsa-work-log.pdf"} {
		if _, ok := c.Document(slug); !ok {
			t.Errorf("missing document %q", slug)
		}
	}
	if _, ok := c.Document("other.pdf"); ok {
		t.Error("unexpected document other.pdf")
	}
}

func TestSystemPrompt(t *testing.T) {
	c, err := sitecontent.Default()
	if err != nil {
		t.Fatalf("Default failed: %v", err)
	}
	p := c.SystemPrompt()
	if !strings.HasPrefix(p, `You are the assistant for "The Newcomer's Compass,"`) {
		t.Errorf("prompt should start with the site context: %q", p[:60])
	}
	if !strings.HasSuffix(p, "Do not invent details about local services beyond what the site provides.") {
		t.Error("prompt should end with the response policy")
	}
	if !strings.Contains(p, "Keep responses short, friendly, and focused on the website.") {
		t.Error("prompt missing brevity policy")
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "content.yaml")
	yml := "site_name: Test Town\ndocuments:\n  - slug: a.pdf\n    file: a.pdf\n    title: A\n"
	if err := os.WriteFile(p, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := sitecontent.Load(p)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.SiteName != "Test Town" {
		t.Errorf("SiteName: got %q", c.SiteName)
	}
	if _, err := sitecontent.Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yml  string
	}{
		{"bad yaml", "site_name: [unclosed"},
		{"no site name", "tagline: hi"},
		{"path in file", "site_name: X\ndocuments:\n  - {slug: a.pdf, file: ../secret.pdf}"},
		{"path in slug", "site_name: X\ndocuments:\n  - {slug: sub/a.pdf, file: a.pdf}"},
		{"duplicate slug", "site_name: X\ndocuments:\n  - {slug: a.pdf, file: a.pdf}\n  - {slug: a.pdf, file: b.pdf}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := sitecontent.Parse([]byte(tt.yml)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
