package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/coursedeck/internal/domain/entities"
)

func TestBuildSlides(t *testing.T) {
	doc := &entities.Document{
		Title: "Module",
		Sections: []entities.Section{
			{Heading: "Pause", Level: 2, Content: "Durée: 5 min"},
			{Heading: "Body", Level: 3, Content: "text"},
		},
	}
	classify := func(heading, content string, level int) entities.SpecialSlideData {
		if heading == "Pause" {
			return entities.SpecialSlideData{Type: entities.SpecialSlidePause}
		}
		return entities.SpecialSlideData{Type: entities.SpecialSlideNone}
	}

	t.Run("without next module", func(t *testing.T) {
		slides := BuildSlides(doc, nil, classify)

		require.Len(t, slides, TotalSlides(len(doc.Sections), false))
		assert.Equal(t, entities.SlideKindIntro, slides[0].Kind)
		for i, s := range slides {
			assert.Equal(t, i, s.Index)
		}
		assert.Equal(t, "Pause", slides[1].Section.Heading)
		assert.Equal(t, entities.SpecialSlidePause, slides[1].Special.Type)
		assert.Equal(t, entities.SpecialSlideNone, slides[2].Special.Type)
	})

	t.Run("with next module", func(t *testing.T) {
		next := &entities.ModuleRef{Filename: "02_Next.md", Title: "Next"}
		slides := BuildSlides(doc, next, classify)

		require.Len(t, slides, 4)
		last := slides[3]
		assert.Equal(t, entities.SlideKindNextModule, last.Kind)
		assert.Equal(t, 3, last.Index)
		assert.Same(t, next, last.Next)
		assert.Nil(t, last.Section)
	})

	t.Run("slides hold copies of sections", func(t *testing.T) {
		slides := BuildSlides(doc, nil, nil)
		slides[1].Section.Heading = "changed"
		assert.Equal(t, "Pause", doc.Sections[0].Heading)
		assert.Equal(t, entities.SpecialSlideNone, slides[1].Special.Type)
	})

	t.Run("nil document yields the intro slide", func(t *testing.T) {
		slides := BuildSlides(nil, nil, classify)
		require.Len(t, slides, 1)
		assert.Equal(t, entities.SlideKindIntro, slides[0].Kind)
	})
}

func TestTotalSlides(t *testing.T) {
	assert.Equal(t, 1, TotalSlides(0, false))
	assert.Equal(t, 2, TotalSlides(0, true))
	assert.Equal(t, 4, TotalSlides(3, false))
	assert.Equal(t, 5, TotalSlides(3, true))
}
