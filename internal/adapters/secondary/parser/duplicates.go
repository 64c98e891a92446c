package parser

import (
	"strings"

	"github.com/fredcamaral/coursedeck/internal/domain/entities"
)

const mergeSeparator = "\n\n"

// MergeDuplicates annotates sections whose heading appears more than once.
// Occurrences are counted over the whole list before any section is annotated.
// Headings compare by exact, case-sensitive equality. The input is not modified.
func MergeDuplicates(sections []entities.Section) []entities.Section {
	if sections == nil {
		return nil
	}

	groups := make(map[string][]int, len(sections))
	for i, sec := range sections {
		key := strings.TrimSpace(sec.Heading)
		groups[key] = append(groups[key], i)
	}

	out := make([]entities.Section, len(sections))
	copy(out, sections)

	for _, indexes := range groups {
		if len(indexes) < 2 {
			continue
		}

		parts := make([]string, len(indexes))
		for n, i := range indexes {
			parts[n] = sections[i].Content
		}
		merged := strings.Join(parts, mergeSeparator)

		for n, i := range indexes {
			m := merged
			out[i].MergedContent = &m
			out[i].DuplicateInfo = &entities.DuplicateInfo{
				Current: n + 1,
				Total:   len(indexes),
				IsFirst: n == 0,
			}
		}
	}

	return out
}
