package parser

import (
	"regexp"
	"strings"

	"github.com/fredcamaral/coursedeck/internal/domain/entities"
	"github.com/fredcamaral/coursedeck/internal/domain/ports"
)

var headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)

const (
	fenceMarker     = "```"
	separatorMarker = "---"
)

// SectionParser implements ports.DocumentParser
type SectionParser struct{}

var _ ports.DocumentParser = (*SectionParser)(nil)

// NewSectionParser creates a section parser
func NewSectionParser() *SectionParser {
	return &SectionParser{}
}

// Parse implements ports.DocumentParser
func (p *SectionParser) Parse(markdown string, enableSplits bool) *entities.Document {
	return Parse(markdown, enableSplits)
}

// Parse splits markdown into a title and heading-delimited sections, then
// annotates duplicated headings. It never fails and keeps no state between calls.
func Parse(markdown string, enableSplits bool) *entities.Document {
	s := &scanner{enableSplits: enableSplits}
	for _, line := range strings.Split(markdown, "\n") {
		s.scan(strings.TrimSuffix(line, "\r"))
	}
	s.finish()

	return &entities.Document{
		Title:    s.title,
		Sections: MergeDuplicates(s.sections),
	}
}

type openSection struct {
	heading      string
	level        int
	continuation bool
	content      strings.Builder
}

// scanner holds the line state of a single Parse call
type scanner struct {
	enableSplits bool

	title    string
	sections []entities.Section
	current  *openSection
	inFence  bool

	// separator run: count of "---" lines and every line held back since the first one
	separators int
	held       []string
}

func (s *scanner) scan(line string) {
	trimmed := strings.TrimSpace(line)

	if strings.HasPrefix(trimmed, fenceMarker) {
		s.endSeparatorRun(false)
		s.inFence = !s.inFence
		s.appendLine(line)
		return
	}

	if s.inFence {
		s.appendLine(line)
		return
	}

	if s.enableSplits {
		if trimmed == separatorMarker {
			s.separators++
			s.held = append(s.held, line)
			return
		}
		if s.separators > 0 && trimmed == "" {
			s.held = append(s.held, line)
			return
		}
	}

	if m := headingPattern.FindStringSubmatch(line); m != nil {
		s.endSeparatorRun(true)
		s.heading(len(m[1]), strings.TrimSpace(m[2]))
		return
	}

	s.endSeparatorRun(false)
	s.appendLine(line)
}

// endSeparatorRun resolves a pending run of separators. Two or more close the
// open section; unless a heading follows, the content that follows continues
// under the same heading. A single separator is plain content.
func (s *scanner) endSeparatorRun(headingFollows bool) {
	if s.separators == 0 {
		return
	}
	count, held := s.separators, s.held
	s.separators, s.held = 0, nil

	if count < 2 {
		for _, l := range held {
			s.appendLine(l)
		}
		return
	}

	if s.current == nil {
		return
	}
	closed := s.current
	s.closeSection()
	if !headingFollows {
		s.current = &openSection{heading: closed.heading, level: closed.level, continuation: true}
	}
}

func (s *scanner) heading(level int, text string) {
	s.closeSection()

	if level == 1 && s.title == "" {
		s.title = text
		return
	}
	s.current = &openSection{heading: text, level: level}
}

func (s *scanner) appendLine(line string) {
	if s.current == nil {
		return
	}
	s.current.content.WriteString(line)
	s.current.content.WriteByte('\n')
}

func (s *scanner) closeSection() {
	if s.current == nil {
		return
	}
	s.sections = append(s.sections, entities.Section{
		Heading:      s.current.heading,
		Level:        s.current.level,
		Content:      strings.TrimSpace(s.current.content.String()),
		Continuation: s.current.continuation,
	})
	s.current = nil
}

func (s *scanner) finish() {
	s.endSeparatorRun(true)
	s.closeSection()
}
