package parser

import (
	"bytes"
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/fredcamaral/coursedeck/internal/domain/ports"
)

// GoldmarkRenderer renders section bodies to HTML with Goldmark
type GoldmarkRenderer struct {
	md goldmark.Markdown
}

var _ ports.MarkdownRenderer = (*GoldmarkRenderer)(nil)

// NewGoldmarkRenderer creates a renderer with the GFM extension set
func NewGoldmarkRenderer() *GoldmarkRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
			extension.Table,
			extension.Strikethrough,
			extension.TaskList,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithUnsafe(), // raw HTML is sanitized by the delivery layer
		),
	)

	return &GoldmarkRenderer{md: md}
}

// RenderHTML converts a markdown fragment to HTML
func (r *GoldmarkRenderer) RenderHTML(ctx context.Context, markdown string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}

	return buf.String(), nil
}
