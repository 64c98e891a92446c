package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fredcamaral/coursedeck/internal/adapters/secondary/parser"
	"github.com/fredcamaral/coursedeck/internal/domain/entities"
	"github.com/fredcamaral/coursedeck/internal/domain/services"
)

type parseOptions struct {
	noSplits bool
	deck     bool
}

func newParseCmd() *cobra.Command {
	opts := &parseOptions{}

	cmd := &cobra.Command{
		Use:   "parse <file.md>",
		Short: "Print the section document of a module as JSON",
		Long: `Parse a markdown module and print its title and sections as JSON.
With --deck the slide sequence is printed instead, slide HTML included.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.noSplits, "no-splits", false, "Treat --- runs as content instead of forced splits")
	cmd.Flags().BoolVar(&opts.deck, "deck", false, "Print the slide sequence instead of the sections")

	return cmd
}

func runParse(cmd *cobra.Command, path string, opts *parseOptions) error {
	data, err := os.ReadFile(path) // #nosec G304 - path given by the user
	if err != nil {
		return fmt.Errorf("reading module: %w", err)
	}

	doc := parser.Parse(string(data), !opts.noSplits)

	var out interface{} = doc
	if opts.deck {
		deck, err := buildStandaloneDeck(cmd, path, doc)
		if err != nil {
			return err
		}
		out = deck
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

// buildStandaloneDeck sequences a module that is not part of a catalog,
// so the deck never ends on a next-module slide
func buildStandaloneDeck(cmd *cobra.Command, path string, doc *entities.Document) (*entities.Deck, error) {
	classifier := parser.NewClassifier()
	md := parser.NewGoldmarkRenderer()

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	title := doc.Title
	if title == "" {
		title = stem
	}

	deck := &entities.Deck{
		Filename: stem,
		Title:    title,
		Slides:   services.BuildSlides(doc, nil, classifier.Classify),
	}

	for i := range deck.Slides {
		slide := &deck.Slides[i]
		if slide.Section == nil {
			continue
		}
		html, err := md.RenderHTML(cmd.Context(), slide.Section.Content)
		if err != nil {
			return nil, fmt.Errorf("rendering slide %d: %w", i, err)
		}
		slide.HTML = html
	}

	return deck, nil
}
