package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/fredcamaral/coursedeck/internal/domain/entities"
	"github.com/fredcamaral/coursedeck/internal/domain/ports"
)

// DeckService builds slide decks and support documents from catalog modules
type DeckService struct {
	catalog      ports.Catalog
	parser       ports.DocumentParser
	classifier   ports.SlideClassifier
	renderer     ports.MarkdownRenderer
	enableSplits bool
	logger       *slog.Logger
}

var _ ports.DeckService = (*DeckService)(nil)

// NewDeckService creates a deck service. renderer may be nil, in which case
// slides carry markdown only.
func NewDeckService(
	catalog ports.Catalog,
	parser ports.DocumentParser,
	classifier ports.SlideClassifier,
	renderer ports.MarkdownRenderer,
	enableSplits bool,
	logger *slog.Logger,
) *DeckService {
	if logger == nil {
		logger = slog.Default()
	}

	return &DeckService{
		catalog:      catalog,
		parser:       parser,
		classifier:   classifier,
		renderer:     renderer,
		enableSplits: enableSplits,
		logger:       logger.With("service", "deck"),
	}
}

// Document looks up and parses a module
func (s *DeckService) Document(ctx context.Context, collectionID, filename string, enableSplits bool) (*entities.Document, error) {
	if collectionID == "" || filename == "" {
		return nil, fmt.Errorf("collection and module are required: %w", entities.ErrNotFound)
	}

	text, err := s.catalog.Lookup(ctx, collectionID, filename)
	if err != nil {
		return nil, fmt.Errorf("looking up %s/%s: %w", collectionID, filename, err)
	}

	return s.parser.Parse(text, enableSplits), nil
}

// BuildDeck returns the slide sequence of a module
func (s *DeckService) BuildDeck(ctx context.Context, collectionID, filename string) (*entities.Deck, error) {
	doc, err := s.Document(ctx, collectionID, filename, s.enableSplits)
	if err != nil {
		return nil, err
	}

	next, err := s.nextModule(ctx, collectionID, filename, entities.PresentationURL)
	if err != nil {
		return nil, err
	}

	deck := &entities.Deck{
		CollectionID: collectionID,
		Filename:     filename,
		Title:        s.title(ctx, doc, collectionID, filename),
		Slides:       BuildSlides(doc, next, s.classifier.Classify),
		Next:         next,
	}

	for i := range deck.Slides {
		slide := &deck.Slides[i]
		if slide.Section == nil {
			continue
		}
		if slide.HTML, err = s.render(ctx, slide.Section.Content); err != nil {
			return nil, fmt.Errorf("rendering slide %d: %w", i, err)
		}
	}

	s.logger.Debug("Deck built",
		slog.String("collection", collectionID),
		slog.String("module", filename),
		slog.Int("slides", deck.TotalSlides()),
	)

	return deck, nil
}

// BuildSupport returns the support document of a module. It is parsed without
// forced splits, shows each duplicated heading once with its merged content
// and leaves out directive slides.
func (s *DeckService) BuildSupport(ctx context.Context, collectionID, filename string) (*entities.SupportDocument, error) {
	doc, err := s.Document(ctx, collectionID, filename, false)
	if err != nil {
		return nil, err
	}

	next, err := s.nextModule(ctx, collectionID, filename, entities.SupportURL)
	if err != nil {
		return nil, err
	}

	support := &entities.SupportDocument{
		CollectionID: collectionID,
		Filename:     filename,
		Title:        s.title(ctx, doc, collectionID, filename),
		Next:         next,
	}

	anchors := make(map[string]int)
	for _, sec := range doc.Sections {
		if sec.DuplicateInfo != nil && !sec.DuplicateInfo.IsFirst {
			continue
		}
		if s.classifier.Classify(sec.Heading, sec.Content, sec.Level).IsSpecial() {
			continue
		}

		content := sec.SupportContent()
		html, err := s.render(ctx, content)
		if err != nil {
			return nil, fmt.Errorf("rendering section %q: %w", sec.Heading, err)
		}

		anchor := uniqueAnchor(anchors, sec.Heading)
		support.Sections = append(support.Sections, entities.SupportEntry{
			Anchor:  anchor,
			Heading: sec.Heading,
			Level:   sec.Level,
			Content: content,
			HTML:    html,
		})
		support.Contents = append(support.Contents, entities.TOCEntry{
			Anchor:  anchor,
			Heading: sec.Heading,
			Level:   sec.Level,
		})
	}

	return support, nil
}

func (s *DeckService) nextModule(ctx context.Context, collectionID, filename string, link func(string, string) string) (*entities.ModuleRef, error) {
	collection, err := s.catalog.Collection(ctx, collectionID)
	if err != nil {
		return nil, fmt.Errorf("loading collection %s: %w", collectionID, err)
	}

	next, ok := collection.NextModule(filename)
	if !ok {
		return nil, nil
	}

	return &entities.ModuleRef{
		CollectionID: collectionID,
		Filename:     next.Filename,
		Title:        next.Title,
		URL:          link(collectionID, next.Filename),
	}, nil
}

// title falls back to the catalog title when the document has no level-1 heading
func (s *DeckService) title(ctx context.Context, doc *entities.Document, collectionID, filename string) string {
	if doc.Found() {
		return doc.Title
	}

	collection, err := s.catalog.Collection(ctx, collectionID)
	if err != nil {
		if !errors.Is(err, entities.ErrNotFound) {
			s.logger.Warn("Collection lookup failed", slog.String("collection", collectionID), slog.Any("error", err))
		}
		return filename
	}
	if m, ok := collection.Module(filename); ok {
		return m.Title
	}
	return filename
}

func (s *DeckService) render(ctx context.Context, markdown string) (string, error) {
	if s.renderer == nil {
		return "", nil
	}
	return s.renderer.RenderHTML(ctx, markdown)
}

// uniqueAnchor slugs a heading and suffixes repeats with -1, -2, ...
func uniqueAnchor(seen map[string]int, heading string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(heading)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(b.String(), "-")
	if slug == "" {
		slug = "section"
	}

	n := seen[slug]
	seen[slug] = n + 1
	if n == 0 {
		return slug
	}
	return slug + "-" + strconv.Itoa(n)
}
