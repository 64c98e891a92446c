package builders

import (
	"strconv"
	"strings"

	"github.com/fredcamaral/coursedeck/internal/domain/entities"
)

// MarkdownBuilder writes module markdown for tests
type MarkdownBuilder struct {
	lines []string
	crlf  bool
}

// NewMarkdownBuilder creates an empty markdown builder
func NewMarkdownBuilder() *MarkdownBuilder {
	return &MarkdownBuilder{}
}

// WithTitle adds a level-1 heading
func (b *MarkdownBuilder) WithTitle(title string) *MarkdownBuilder {
	b.lines = append(b.lines, "# "+title)
	return b
}

// WithSection adds a heading of the given level followed by body lines
func (b *MarkdownBuilder) WithSection(level int, heading string, body ...string) *MarkdownBuilder {
	b.lines = append(b.lines, strings.Repeat("#", level)+" "+heading)
	b.lines = append(b.lines, body...)
	return b
}

// WithLines adds raw lines
func (b *MarkdownBuilder) WithLines(lines ...string) *MarkdownBuilder {
	b.lines = append(b.lines, lines...)
	return b
}

// WithSplit adds a forced split
func (b *MarkdownBuilder) WithSplit() *MarkdownBuilder {
	b.lines = append(b.lines, "---", "", "---")
	return b
}

// WithCodeBlock adds a fenced code block
func (b *MarkdownBuilder) WithCodeBlock(lang string, code ...string) *MarkdownBuilder {
	b.lines = append(b.lines, "```"+lang)
	b.lines = append(b.lines, code...)
	b.lines = append(b.lines, "```")
	return b
}

// WithCRLF switches the output to Windows line endings
func (b *MarkdownBuilder) WithCRLF() *MarkdownBuilder {
	b.crlf = true
	return b
}

// Build joins the lines
func (b *MarkdownBuilder) Build() string {
	sep := "\n"
	if b.crlf {
		sep = "\r\n"
	}
	return strings.Join(b.lines, sep)
}

// ScenarioModule is a small module with two directive slides and one plain slide
func ScenarioModule() string {
	return NewMarkdownBuilder().
		WithTitle("My Module").
		WithLines("Intro text").
		WithSection(2, "Objectifs", "- Learn X", "- Learn Y").
		WithSection(2, "Pause", "Durée: 10 min").
		WithSection(2, "Conclusion", "Thanks").
		Build()
}

// CollectionBuilder helps build Collection entities for testing
type CollectionBuilder struct {
	collection *entities.Collection
}

// NewCollectionBuilder creates a collection builder with sensible defaults
func NewCollectionBuilder(id string) *CollectionBuilder {
	return &CollectionBuilder{
		collection: &entities.Collection{
			ID:          id,
			Name:        id,
			Description: "Présentation sur " + id,
			Type:        "Présentation",
			Level:       "Tous niveaux",
			Tags:        []string{id},
		},
	}
}

// WithName sets the display name
func (b *CollectionBuilder) WithName(name string) *CollectionBuilder {
	b.collection.Name = name
	return b
}

// WithModule appends a linked module; the order index is taken from the NN_ prefix
func (b *CollectionBuilder) WithModule(filename, title string) *CollectionBuilder {
	order := 999
	if i := strings.Index(filename, "_"); i > 0 {
		if n, err := strconv.Atoi(filename[:i]); err == nil {
			order = n
		}
	}
	b.collection.Modules = append(b.collection.Modules, entities.Module{
		Filename:         filename,
		OrderIndex:       order,
		Title:            title,
		DurationEstimate: "30min",
		Link:             entities.Linked(entities.PresentationURL(b.collection.ID, filename)),
	})
	return b
}

// Build returns the collection with modules sorted
func (b *CollectionBuilder) Build() *entities.Collection {
	c := *b.collection
	c.Modules = append([]entities.Module(nil), b.collection.Modules...)
	c.SortModules()
	return &c
}
