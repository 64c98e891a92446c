package renderer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/fredcamaral/coursedeck/internal/domain/entities"
	"github.com/fredcamaral/coursedeck/internal/domain/ports"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/site.css
var siteCSS string

//go:embed static/deck.js
var deckJS string

// TemplateRenderer renders the site pages with html/template
type TemplateRenderer struct {
	templates *template.Template
}

var _ ports.PageRenderer = (*TemplateRenderer)(nil)

// specialLabels are the titles shown on directive slides
var specialLabels = map[entities.SpecialSlideType]string{
	entities.SpecialSlideExercise:   "Exercice",
	entities.SpecialSlidePause:      "Pause",
	entities.SpecialSlideLunch:      "Pause déjeuner",
	entities.SpecialSlideTrue:       "Vrai",
	entities.SpecialSlideFalse:      "Faux",
	entities.SpecialSlideQuestions:  "Questions",
	entities.SpecialSlideWarning:    "Attention",
	entities.SpecialSlideObjectives: "Objectifs",
	entities.SpecialSlideDemo:       "Démonstration",
	entities.SpecialSlideSummary:    "Récapitulatif",
}

// NewTemplateRenderer parses the embedded page templates
func NewTemplateRenderer() (*TemplateRenderer, error) {
	tmpl, err := template.New("pages").Funcs(template.FuncMap{
		"safeHTML": func(s string) template.HTML {
			return template.HTML(s) // #nosec G203 - callers pass sanitized markdown output
		},
		"styles": func() template.CSS {
			return template.CSS(siteCSS) // #nosec G203 - embedded stylesheet
		},
		"script": func() template.JS {
			return template.JS(deckJS) // #nosec G203 - embedded script
		},
		"linkURL": func(l entities.ModuleLink) string {
			u, _ := l.URL()
			return u
		},
		"specialLabel": func(t entities.SpecialSlideType) string {
			return specialLabels[t]
		},
		"collectionURL": func(id string) string {
			return "/presentations/" + id
		},
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing page templates: %w", err)
	}

	return &TemplateRenderer{templates: tmpl}, nil
}

// RenderHome renders the list of collections
func (r *TemplateRenderer) RenderHome(ctx context.Context, collections []entities.Collection) ([]byte, error) {
	return r.execute(ctx, "home.html", struct {
		Collections []entities.Collection
	}{collections})
}

// RenderCollection renders one collection and its modules
func (r *TemplateRenderer) RenderCollection(ctx context.Context, collection *entities.Collection) ([]byte, error) {
	if collection == nil {
		return nil, fmt.Errorf("rendering collection: %w", entities.ErrNotFound)
	}
	return r.execute(ctx, "collection.html", collection)
}

// RenderDeck renders the slide deck page. Slides are all present in the
// page; the navigation socket decides which one is shown.
func (r *TemplateRenderer) RenderDeck(ctx context.Context, deck *entities.Deck) ([]byte, error) {
	if deck == nil {
		return nil, fmt.Errorf("rendering deck: %w", entities.ErrNotFound)
	}

	return r.execute(ctx, "deck.html", struct {
		Deck       *entities.Deck
		SocketURL  string
		SupportURL string
	}{
		Deck:       deck,
		SocketURL:  "/ws/" + deck.CollectionID + "/" + deck.Filename,
		SupportURL: entities.SupportURL(deck.CollectionID, deck.Filename),
	})
}

// RenderSupport renders the support document with its table of contents
func (r *TemplateRenderer) RenderSupport(ctx context.Context, doc *entities.SupportDocument) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("rendering support: %w", entities.ErrNotFound)
	}

	return r.execute(ctx, "support.html", struct {
		Doc             *entities.SupportDocument
		PresentationURL string
	}{
		Doc:             doc,
		PresentationURL: entities.PresentationURL(doc.CollectionID, doc.Filename),
	})
}

func (r *TemplateRenderer) execute(ctx context.Context, name string, data interface{}) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("executing %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
