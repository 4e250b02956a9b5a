// Package sitecontent holds the editorial content of the site: landing page
// sections, reference material, downloadable documents and the chat
// assistant's instructions. A built-in copy is embedded; a YAML file on disk
// can replace it.
package sitecontent

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed content.yaml
var defaultYAML []byte

type Content struct {
	SiteName    string      `yaml:"site_name"`
	Tagline     string      `yaml:"tagline"`
	Steps       []Step      `yaml:"steps"`
	Spotlights  []Spotlight `yaml:"spotlights"`
	LocalFlavor LocalFlavor `yaml:"local_flavor"`
	Documents   []Document  `yaml:"documents"`
	Reference   Reference   `yaml:"reference"`
	Chat        Chat        `yaml:"chat"`
}

type Step struct {
	Title string `yaml:"title"`
	Text  string `yaml:"text"`
}

// Spotlight is a featured community program on the landing page.
type Spotlight struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Features    []string `yaml:"features"`
	Icon        string   `yaml:"icon"`
	Color       string   `yaml:"color"`
}

type LocalFlavor struct {
	Itineraries []Itinerary `yaml:"itineraries"`
	Glossary    []Term      `yaml:"glossary"`
}

type Itinerary struct {
	Title      string     `yaml:"title"`
	Duration   string     `yaml:"duration"`
	Audience   string     `yaml:"audience"`
	Activities []Activity `yaml:"activities"`
}

type Activity struct {
	Time        string `yaml:"time"`
	Activity    string `yaml:"activity"`
	Location    string `yaml:"location"`
	Description string `yaml:"description"`
}

// Term is an entry in the local lingo glossary.
type Term struct {
	Term       string `yaml:"term"`
	Definition string `yaml:"definition"`
	Example    string `yaml:"example"`
	Category   string `yaml:"category"`
}

// Document is a file served under /docs/{Slug}, read from File in the
// configured documents directory.
type Document struct {
	Slug        string `yaml:"slug"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	File        string `yaml:"file"`
}

type Reference struct {
	Developed   string   `yaml:"developed"`
	Sources     []Source `yaml:"sources"`
	Framework   string   `yaml:"framework"`
	Permissions string   `yaml:"permissions"`
}

type Source struct {
	Name    string `yaml:"name"`
	URL     string `yaml:"url"`
	Details string `yaml:"details"`
}

type Chat struct {
	Context string   `yaml:"context"`
	Policy  []string `yaml:"policy"`
}

// Default returns the embedded content.
func Default() (*Content, error) {
	return Parse(defaultYAML)
}

// Load reads content from path, or returns the embedded content when path is empty.
func Load(path string) (*Content, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read site content: %w", err)
	}
	return Parse(b)
}

// Parse decodes and validates YAML content.
func Parse(b []byte) (*Content, error) {
	var c Content
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse site content: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Content) validate() error {
	if strings.TrimSpace(c.SiteName) == "" {
		return errors.New("site content: site_name is required")
	}
	seen := map[string]bool{}
	for _, d := range c.Documents {
		if !cleanName(d.Slug) || !cleanName(d.File) {
			return fmt.Errorf("site content: document %q must use plain file names", d.Title)
		}
		if seen[d.Slug] {
			return fmt.Errorf("site content: duplicate document slug %q", d.Slug)
		}
		seen[d.Slug] = true
	}
	return nil
}

// cleanName rejects anything that could step outside the documents directory.
func cleanName(name string) bool {
	if name == "" || strings.ContainsAny(name, `/\`) {
		return false
	}
	return path.Clean(name) == name && name != "." && name != ".."
}

// Document returns the document served at slug.
func (c *Content) Document(slug string) (Document, bool) {
	for _, d := range c.Documents {
		if d.Slug == slug {
			return d, true
		}
	}
	return Document{}, false
}

// SystemPrompt is the fixed instruction sent ahead of every chat conversation:
// the site context followed by the response policy, on one line each.
func (c *Content) SystemPrompt() string {
	parts := []string{strings.TrimSpace(c.Chat.Context)}
	for _, p := range c.Chat.Policy {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}
