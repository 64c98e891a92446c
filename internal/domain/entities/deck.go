package entities

import "net/url"

// SlideKind distinguishes synthetic slides from section slides
type SlideKind string

const (
	SlideKindIntro      SlideKind = "intro"
	SlideKindSection    SlideKind = "section"
	SlideKindNextModule SlideKind = "next_module"
)

// ModuleRef points at another module of the same collection
type ModuleRef struct {
	CollectionID string `json:"collectionId"`
	Filename     string `json:"filename"`
	Title        string `json:"title"`
	URL          string `json:"url"`
}

// DeckSlide is one position of a linear slide deck
type DeckSlide struct {
	Index   int              `json:"index"`
	Kind    SlideKind        `json:"kind"`
	Section *Section         `json:"section,omitempty"`
	Special SpecialSlideData `json:"special"`

	// HTML is the rendered section body, filled by the delivery layer
	HTML string `json:"html,omitempty"`

	// Next is set on the next-module slide only
	Next *ModuleRef `json:"next,omitempty"`
}

// Deck is the slide sequence built from one module document
type Deck struct {
	CollectionID string      `json:"collectionId"`
	Filename     string      `json:"filename"`
	Title        string      `json:"title"`
	Slides       []DeckSlide `json:"slides"`
	Next         *ModuleRef  `json:"next,omitempty"`
}

// TotalSlides is sections + 1 intro slide + 1 when a next module exists
func (d *Deck) TotalSlides() int {
	if d == nil {
		return 0
	}
	return len(d.Slides)
}

// HasNextModule reports whether a successor module is appended
func (d *Deck) HasNextModule() bool {
	return d != nil && d.Next != nil
}

// SupportDocument is the scrollable companion view of a module
type SupportDocument struct {
	CollectionID string         `json:"collectionId"`
	Filename     string         `json:"filename"`
	Title        string         `json:"title"`
	Sections     []SupportEntry `json:"sections"`
	Contents     []TOCEntry     `json:"toc"`
	Next         *ModuleRef     `json:"next,omitempty"`
}

// SupportEntry is a section as shown in the support view
type SupportEntry struct {
	Anchor  string `json:"anchor"`
	Heading string `json:"heading"`
	Level   int    `json:"level"`
	Content string `json:"content"`
	HTML    string `json:"html,omitempty"`
}

// TOCEntry is a table-of-contents line of the support view
type TOCEntry struct {
	Anchor  string `json:"anchor"`
	Heading string `json:"heading"`
	Level   int    `json:"level"`
}

// PresentationURL is the slide deck page of a module
func PresentationURL(collectionID, filename string) string {
	return "/presentations/" + url.PathEscape(collectionID) + "/presentation/" + url.PathEscape(filename)
}

// SupportURL is the support page of a module
func SupportURL(collectionID, filename string) string {
	return "/presentations/" + url.PathEscape(collectionID) + "/support/" + url.PathEscape(filename)
}
