package entities

import "strings"

// Document is the parsed form of one markdown module
type Document struct {
	// Title is the text of the first level-1 heading, empty if none
	Title string `json:"title"`

	// Sections holds every level 2-6 heading section in source order
	Sections []Section `json:"sections"`
}

// Found reports whether the document carried a title.
// An untitled document is treated as "no document" by callers that need one.
func (d *Document) Found() bool {
	return d != nil && strings.TrimSpace(d.Title) != ""
}

// SectionCount returns the number of parsed sections
func (d *Document) SectionCount() int {
	if d == nil {
		return 0
	}
	return len(d.Sections)
}

// Section is a heading-delimited unit of a document
type Section struct {
	Heading string `json:"heading"`
	Level   int    `json:"level"`
	Content string `json:"content"`

	// MergedContent joins the content of every section sharing this heading.
	// Set only together with DuplicateInfo.
	MergedContent *string `json:"mergedContent,omitempty"`

	// DuplicateInfo is set when another section has the exact same heading
	DuplicateInfo *DuplicateInfo `json:"duplicateInfo,omitempty"`

	// Continuation marks a section opened by a forced split rather than a heading
	Continuation bool `json:"continuation,omitempty"`
}

// IsDuplicate returns true if the heading occurs more than once in the document
func (s Section) IsDuplicate() bool {
	return s.DuplicateInfo != nil
}

// SupportContent returns the content used by the support view:
// merged content for duplicated headings, own content otherwise.
func (s Section) SupportContent() string {
	if s.MergedContent != nil {
		return *s.MergedContent
	}
	return s.Content
}

// DuplicateInfo locates one occurrence among same-heading sections
type DuplicateInfo struct {
	Current int  `json:"current"`
	Total   int  `json:"total"`
	IsFirst bool `json:"isFirst"`
}
