package services

import (
	"github.com/fredcamaral/coursedeck/internal/domain/entities"
)

// ClassifyFunc derives the special-slide data of a section
type ClassifyFunc func(heading, content string, level int) entities.SpecialSlideData

// BuildSlides linearizes a document into a deck: the intro slide at index 0,
// section i at index i+1, and a next-module slide last when next is set.
func BuildSlides(doc *entities.Document, next *entities.ModuleRef, classify ClassifyFunc) []entities.DeckSlide {
	slides := make([]entities.DeckSlide, 0, TotalSlides(doc.SectionCount(), next != nil))
	slides = append(slides, entities.DeckSlide{
		Index:   0,
		Kind:    entities.SlideKindIntro,
		Special: entities.SpecialSlideData{Type: entities.SpecialSlideNone},
	})

	if doc != nil {
		for i := range doc.Sections {
			sec := doc.Sections[i]
			special := entities.SpecialSlideData{Type: entities.SpecialSlideNone}
			if classify != nil {
				special = classify(sec.Heading, sec.Content, sec.Level)
			}
			slides = append(slides, entities.DeckSlide{
				Index:   i + 1,
				Kind:    entities.SlideKindSection,
				Section: &sec,
				Special: special,
			})
		}
	}

	if next != nil {
		slides = append(slides, entities.DeckSlide{
			Index:   len(slides),
			Kind:    entities.SlideKindNextModule,
			Special: entities.SpecialSlideData{Type: entities.SpecialSlideNone},
			Next:    next,
		})
	}

	return slides
}

// TotalSlides is the deck length for a section count
func TotalSlides(sectionCount int, hasNextModule bool) int {
	total := sectionCount + 1
	if hasNextModule {
		total++
	}
	return total
}
