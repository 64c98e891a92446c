package parser

import (
	"regexp"
	"strings"

	"github.com/fredcamaral/coursedeck/internal/domain/entities"
	"github.com/fredcamaral/coursedeck/internal/domain/ports"
)

// field extractors match anywhere on a line; the value is the rest of that line
var (
	durationField    = regexp.MustCompile(`(?i)durée\s*:?\s*([^\n]+)`)
	repositoryField  = regexp.MustCompile(`(?i)repos\s*:?\s*([^\n]+)`)
	descriptionField = regexp.MustCompile(`(?i)description\s*:?\s*([^\n]+)`)
	returnField      = regexp.MustCompile(`(?i)retour\s*:?\s*([^\n]+)`)
	titleField       = regexp.MustCompile(`(?i)titre\s*:?\s*([^\n]+)`)
	bulletItem       = regexp.MustCompile(`^\s*[-*]\s*(.+)$`)
)

type slideField int

const (
	fieldDuration slideField = iota
	fieldRepository
	fieldDescription
	fieldReturn
	fieldTitle
	fieldItems
)

type directive struct {
	kind   entities.SpecialSlideType
	fields []slideField
}

// directives maps every accepted heading spelling, lowercased, to its slide type
var directives = func() map[string]directive {
	table := []struct {
		names  []string
		kind   entities.SpecialSlideType
		fields []slideField
	}{
		{[]string{"exercice"}, entities.SpecialSlideExercise, []slideField{fieldDuration, fieldRepository, fieldDescription}},
		{[]string{"pause"}, entities.SpecialSlidePause, []slideField{fieldDuration}},
		{[]string{"dejeuner", "déjeuner"}, entities.SpecialSlideLunch, []slideField{fieldReturn}},
		{[]string{"vrai"}, entities.SpecialSlideTrue, []slideField{fieldDescription}},
		{[]string{"faux"}, entities.SpecialSlideFalse, []slideField{fieldDescription}},
		{[]string{"questions", "question"}, entities.SpecialSlideQuestions, nil},
		{[]string{"attention", "avertissement"}, entities.SpecialSlideWarning, []slideField{fieldDescription}},
		{[]string{"objectifs", "objectif"}, entities.SpecialSlideObjectives, []slideField{fieldDescription, fieldItems}},
		{[]string{"demonstration", "démonstration", "demo", "démo", "live coding"}, entities.SpecialSlideDemo, []slideField{fieldTitle, fieldDescription}},
		{[]string{"recapitulatif", "récapitulatif", "recap", "résumé", "resume", "summary"}, entities.SpecialSlideSummary, []slideField{fieldDescription, fieldItems}},
	}

	m := make(map[string]directive)
	for _, row := range table {
		for _, name := range row.names {
			m[name] = directive{kind: row.kind, fields: row.fields}
		}
	}
	return m
}()

// Classifier implements ports.SlideClassifier
type Classifier struct{}

var _ ports.SlideClassifier = (*Classifier)(nil)

// NewClassifier creates a special-slide classifier
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify implements ports.SlideClassifier
func (c *Classifier) Classify(heading, content string, level int) entities.SpecialSlideData {
	return Classify(heading, content, level)
}

// Classify matches a section heading against the directive vocabulary and
// extracts the directive's fields from content. Level-1 headings never match.
func Classify(heading, content string, level int) entities.SpecialSlideData {
	if level == 1 {
		return entities.SpecialSlideData{Type: entities.SpecialSlideNone}
	}

	d, ok := directives[strings.ToLower(strings.TrimSpace(heading))]
	if !ok {
		return entities.SpecialSlideData{Type: entities.SpecialSlideNone}
	}

	data := entities.SpecialSlideData{Type: d.kind}
	for _, f := range d.fields {
		switch f {
		case fieldDuration:
			data.Duration = firstField(durationField, content)
		case fieldRepository:
			data.RepositoryURL = firstField(repositoryField, content)
		case fieldDescription:
			data.Description = firstField(descriptionField, content)
		case fieldReturn:
			data.ReturnTime = firstField(returnField, content)
		case fieldTitle:
			data.Title = firstField(titleField, content)
		case fieldItems:
			data.Items = bulletItems(content)
		}
	}

	return data
}

// firstField returns the trimmed value of the first match, single line only
func firstField(pattern *regexp.Regexp, content string) string {
	m := pattern.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func bulletItems(content string) []string {
	var items []string
	for _, line := range strings.Split(content, "\n") {
		if m := bulletItem.FindStringSubmatch(strings.TrimSuffix(line, "\r")); m != nil {
			items = append(items, strings.TrimSpace(m[1]))
		}
	}
	return items
}
