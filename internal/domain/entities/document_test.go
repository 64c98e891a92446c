package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument_Found(t *testing.T) {
	var nilDoc *Document
	assert.False(t, nilDoc.Found())
	assert.Equal(t, 0, nilDoc.SectionCount())
	assert.False(t, (&Document{Title: "  "}).Found())
	assert.True(t, (&Document{Title: "Module"}).Found())
}

func TestSection_SupportContent(t *testing.T) {
	merged := "a\n\nb"
	s := Section{Heading: "A", Content: "a", MergedContent: &merged, DuplicateInfo: &DuplicateInfo{Current: 1, Total: 2, IsFirst: true}}
	assert.True(t, s.IsDuplicate())
	assert.Equal(t, merged, s.SupportContent())

	plain := Section{Heading: "B", Content: "b"}
	assert.False(t, plain.IsDuplicate())
	assert.Equal(t, "b", plain.SupportContent())
}

func TestCollection_ModuleOrdering(t *testing.T) {
	c := &Collection{Modules: []Module{
		{Filename: "10_Last.md", OrderIndex: 10},
		{Filename: "Appendix.md", OrderIndex: 999},
		{Filename: "02_Second.md", OrderIndex: 2},
		{Filename: "01_First.md", OrderIndex: 1},
	}}
	c.SortModules()

	var names []string
	for _, m := range c.Modules {
		names = append(names, m.Filename)
	}
	assert.Equal(t, []string{"01_First.md", "02_Second.md", "10_Last.md", "Appendix.md"}, names)

	next, ok := c.NextModule("02_Second.md")
	assert.True(t, ok)
	assert.Equal(t, "10_Last.md", next.Filename)

	_, ok = c.NextModule("Appendix.md")
	assert.False(t, ok)

	_, ok = c.Module("missing.md")
	assert.False(t, ok)
}

func TestCollection_ModuleLookupIgnoresExtension(t *testing.T) {
	c := &Collection{Modules: []Module{
		{Filename: "01_Intro.md", Title: "Intro"},
		{Filename: "02_Types", Title: "Types"},
	}}

	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{name: "stem against stored extension", filename: "01_Intro", want: "Intro"},
		{name: "extension against stored extension", filename: "01_Intro.md", want: "Intro"},
		{name: "extension against stored stem", filename: "02_Types.md", want: "Types"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := c.Module(tt.filename)
			require.True(t, ok)
			assert.Equal(t, tt.want, m.Title)
		})
	}

	next, ok := c.NextModule("01_Intro")
	require.True(t, ok)
	assert.Equal(t, "02_Types", next.Filename)

	_, ok = c.NextModule("02_Types.md")
	assert.False(t, ok)
}

func TestModuleLink(t *testing.T) {
	url, ok := Linked("/presentations/go/presentation/01_Intro.md").URL()
	assert.True(t, ok)
	assert.Equal(t, "/presentations/go/presentation/01_Intro.md", url)

	_, ok = Unlinked().URL()
	assert.False(t, ok)

	text, err := Unlinked().MarshalText()
	assert.NoError(t, err)
	assert.Empty(t, text)
}

func TestNavigationState_Bounds(t *testing.T) {
	s := NavigationState{Slide: 0, TotalSlides: 4}
	assert.True(t, s.AtFirst())
	assert.False(t, s.AtLast())
	assert.Equal(t, 1, s.SlideNumber())

	s.Slide = 3
	assert.True(t, s.AtLast())
}

func TestDeck_TotalSlides(t *testing.T) {
	var d *Deck
	assert.Equal(t, 0, d.TotalSlides())
	assert.False(t, d.HasNextModule())

	d = &Deck{Slides: make([]DeckSlide, 5), Next: &ModuleRef{Filename: "02_Next.md"}}
	assert.Equal(t, 5, d.TotalSlides())
	assert.True(t, d.HasNextModule())
}

func TestSpecialSlideData_IsSpecial(t *testing.T) {
	assert.False(t, SpecialSlideData{}.IsSpecial())
	assert.False(t, SpecialSlideData{Type: SpecialSlideNone}.IsSpecial())
	assert.True(t, SpecialSlideData{Type: SpecialSlidePause}.IsSpecial())
}
