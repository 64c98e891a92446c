package catalog

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/fredcamaral/coursedeck/internal/adapters/secondary/parser"
	"github.com/fredcamaral/coursedeck/internal/domain/entities"
)

const (
	maxTopics          = 5
	defaultOrder       = 999
	defaultDescription = "Module de la présentation"
	wordsPerHalfHour   = 500
)

var (
	orderPrefix      = regexp.MustCompile(`^(\d+)_`)
	explicitDuration = regexp.MustCompile(`(?i)durée\s*:\s*(\d+h?\d*(?:min)?)`)
	durationParts    = regexp.MustCompile(`^(?:(\d+)h)?(\d+)?(?:min)?$`)
	decimalHours     = regexp.MustCompile(`^(\d+\.\d+)h$`)
)

// analyzeModule extracts the catalog entry of one markdown file
func analyzeModule(collectionID, filename, text string) entities.Module {
	id := moduleID(filename)
	doc := parser.Parse(text, false)

	m := entities.Module{
		Filename:         id,
		OrderIndex:       defaultOrder,
		Title:            doc.Title,
		Description:      moduleDescription(text),
		DurationEstimate: estimateDuration(text),
		Link:             entities.Unlinked(),
	}

	if match := orderPrefix.FindStringSubmatch(id); match != nil {
		if n, err := strconv.Atoi(match[1]); err == nil {
			m.OrderIndex = n
		}
	}

	if doc.Found() {
		m.Link = entities.Linked(entities.PresentationURL(collectionID, id))
	} else {
		m.Title = strings.ReplaceAll(id, "_", " ")
	}

	for _, sec := range doc.Sections {
		if len(m.Topics) == maxTopics {
			break
		}
		if (sec.Level == 2 || sec.Level == 3) && !sec.Continuation {
			m.Topics = append(m.Topics, sec.Heading)
		}
	}

	return m
}

// moduleDescription is the first plain line after the title
func moduleDescription(text string) string {
	seenTitle := false
	for _, line := range strings.Split(text, "\n") {
		clean := strings.TrimSpace(line)
		if !seenTitle {
			seenTitle = strings.HasPrefix(clean, "# ")
			continue
		}
		if clean == "" || strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "-") {
			continue
		}
		return clean
	}
	return defaultDescription
}

// estimateDuration prefers an explicit "durée: 1h30" and otherwise counts
// words at 500 per half hour.
func estimateDuration(text string) string {
	if m := explicitDuration.FindStringSubmatch(text); m != nil {
		return m[1]
	}

	halfHours := int(math.Round(float64(len(strings.Fields(text))) / wordsPerHalfHour))
	if halfHours < 1 {
		return "30min"
	}
	return formatMinutes(halfHours * 30)
}

// durationMinutes reads "1h30", "2h", "1.5h", "45min" or "45".
// Anything unreadable counts as 30 minutes.
func durationMinutes(d string) int {
	d = strings.ToLower(strings.TrimSpace(d))
	if m := decimalHours.FindStringSubmatch(d); m != nil {
		h, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return int(math.Round(h * 60))
		}
	}

	m := durationParts.FindStringSubmatch(d)
	if m == nil || (m[1] == "" && m[2] == "") {
		return 30
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	return hours*60 + minutes
}

func formatMinutes(total int) string {
	h, m := total/60, total%60
	if m == 0 {
		return strconv.Itoa(h) + "h"
	}
	return strconv.Itoa(h) + "h" + strconv.Itoa(m)
}
