package entities

// SpecialSlideType identifies a directive heading
type SpecialSlideType string

const (
	SpecialSlideNone       SpecialSlideType = "none"
	SpecialSlideExercise   SpecialSlideType = "exercise"
	SpecialSlidePause      SpecialSlideType = "pause"
	SpecialSlideLunch      SpecialSlideType = "lunch"
	SpecialSlideTrue       SpecialSlideType = "true"
	SpecialSlideFalse      SpecialSlideType = "false"
	SpecialSlideQuestions  SpecialSlideType = "questions"
	SpecialSlideWarning    SpecialSlideType = "warning"
	SpecialSlideObjectives SpecialSlideType = "objectives"
	SpecialSlideDemo       SpecialSlideType = "demo"
	SpecialSlideSummary    SpecialSlideType = "summary"
)

// SpecialSlideData is derived from a section's heading, content and level.
// Only the fields relevant to Type are populated.
type SpecialSlideData struct {
	Type          SpecialSlideType `json:"type"`
	Duration      string           `json:"duration,omitempty"`
	RepositoryURL string           `json:"repositoryUrl,omitempty"`
	Description   string           `json:"description,omitempty"`
	ReturnTime    string           `json:"returnTime,omitempty"`
	Title         string           `json:"title,omitempty"`
	Items         []string         `json:"items,omitempty"`
}

// IsSpecial returns true for any directive slide
func (d SpecialSlideData) IsSpecial() bool {
	return d.Type != "" && d.Type != SpecialSlideNone
}
