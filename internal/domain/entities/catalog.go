package entities

import (
	"sort"
	"strings"
)

// CollectionMetadata is the optional metadata file of a collection folder
type CollectionMetadata struct {
	DisplayName       string   `json:"displayName" yaml:"displayName"`
	Description       string   `json:"description" yaml:"description"`
	Type              string   `json:"type" yaml:"type"`
	Tags              []string `json:"tags" yaml:"tags"`
	Prerequisites     []string `json:"prerequisites" yaml:"prerequisites"`
	EstimatedDuration string   `json:"estimatedDuration" yaml:"estimatedDuration"`
	Level             string   `json:"level" yaml:"level"`
}

// Collection is a folder of ordered modules
type Collection struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Type          string   `json:"type"`
	Level         string   `json:"level"`
	Duration      string   `json:"duration"`
	Tags          []string `json:"tags"`
	Prerequisites []string `json:"prerequisites,omitempty"`
	Modules       []Module `json:"modules"`
}

// Module returns the module stored under filename
func (c *Collection) Module(filename string) (*Module, bool) {
	filename = ModuleStem(filename)
	for i := range c.Modules {
		if ModuleStem(c.Modules[i].Filename) == filename {
			return &c.Modules[i], true
		}
	}
	return nil, false
}

// NextModule returns the module following filename in order, if any
func (c *Collection) NextModule(filename string) (*Module, bool) {
	filename = ModuleStem(filename)
	for i := range c.Modules {
		if ModuleStem(c.Modules[i].Filename) == filename && i+1 < len(c.Modules) {
			return &c.Modules[i+1], true
		}
	}
	return nil, false
}

// ModuleStem strips the markdown extension so "01_Intro.md" and "01_Intro" name the same module
func ModuleStem(filename string) string {
	return strings.TrimSuffix(filename, ".md")
}

// SortModules orders modules by their numeric prefix, then by filename
func (c *Collection) SortModules() {
	sort.SliceStable(c.Modules, func(i, j int) bool {
		if c.Modules[i].OrderIndex != c.Modules[j].OrderIndex {
			return c.Modules[i].OrderIndex < c.Modules[j].OrderIndex
		}
		return c.Modules[i].Filename < c.Modules[j].Filename
	})
}

// Module is one markdown file of a collection
type Module struct {
	Filename         string     `json:"filename"`
	OrderIndex       int        `json:"orderIndex"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Topics           []string   `json:"topics"`
	DurationEstimate string     `json:"duration"`
	Link             ModuleLink `json:"link"`
}

// ModuleLink is either Linked to a URL or Unlinked
type ModuleLink struct {
	url string
}

// Linked builds a link variant pointing at url
func Linked(url string) ModuleLink {
	return ModuleLink{url: url}
}

// Unlinked is the variant for modules without a presentation
func Unlinked() ModuleLink {
	return ModuleLink{}
}

// URL returns the target and whether the variant is Linked
func (l ModuleLink) URL() (string, bool) {
	return l.url, l.url != ""
}

// MarshalText encodes the variant as its URL, or empty when Unlinked
func (l ModuleLink) MarshalText() ([]byte, error) {
	return []byte(l.url), nil
}

// UnmarshalText restores a link from its JSON form
func (l *ModuleLink) UnmarshalText(text []byte) error {
	l.url = string(text)
	return nil
}
