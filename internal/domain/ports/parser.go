package ports

import (
	"context"

	"github.com/fredcamaral/coursedeck/internal/domain/entities"
)

// DocumentParser turns module markdown into a section document
type DocumentParser interface {
	// Parse never fails: malformed input degrades to a partial document
	Parse(markdown string, enableSplits bool) *entities.Document
}

// SlideClassifier detects directive headings
type SlideClassifier interface {
	Classify(heading, content string, level int) entities.SpecialSlideData
}

// MarkdownRenderer converts a markdown fragment to HTML
type MarkdownRenderer interface {
	RenderHTML(ctx context.Context, markdown string) (string, error)
}
