// Package document turns tailored résumé text into structured sections and
// renders them as an ATS-friendly Word document.
package document

import (
	"regexp"
	"strings"
	"unicode/utf16"
)

// Content markers inside Section.Content.
const (
	SubsectionMarker = "SUBSECTION: "
	ContentMarker    = "CONTENT: "
)

// SectionHeaders is the vocabulary of main section headers. A line is a header
// when its upper-cased form contains one of these.
var SectionHeaders = []string{
	"SUMMARY", "EXPERIENCE", "WORK EXPERIENCE", "EMPLOYMENT",
	"EDUCATION", "PROJECTS", "SKILLS", "TECHNICAL SKILLS",
	"CERTIFICATIONS", "AWARDS", "PUBLICATIONS", "LANGUAGES",
}

// Section is a titled block of résumé content. Content entries are plain
// lines, SubsectionMarker lines, or ContentMarker lines under the last subsection.
type Section struct {
	Title   string   `json:"title"`
	Content []string `json:"content"`
}

var leadingBullet = regexp.MustCompile(`^[•\-*]\s*`)

// Parse splits text into sections in scan order. It is a heuristic: lines are
// classified by fixed rules and anything before the first header is dropped.
func Parse(text string) []Section {
	var (
		sections   []Section
		current    *Section
		subsection string
	)

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		switch {
		case isSectionHeader(trimmed):
			if current != nil {
				sections = append(sections, *current)
			}
			current = &Section{Title: trimmed, Content: []string{}}
			subsection = ""

		case isSubsectionHeader(trimmed) && current != nil:
			subsection = trimmed
			current.Content = append(current.Content, SubsectionMarker+trimmed)

		case current != nil:
			clean := strings.TrimSpace(leadingBullet.ReplaceAllString(trimmed, ""))
			if clean == "" {
				continue
			}
			if subsection != "" {
				current.Content = append(current.Content, ContentMarker+clean)
			} else {
				current.Content = append(current.Content, clean)
			}
		}
	}

	if current != nil {
		sections = append(sections, *current)
	}
	return sections
}

func isSectionHeader(line string) bool {
	if textLength(line) >= 50 || strings.ContainsAny(line, "•-–") {
		return false
	}
	upper := strings.ToUpper(line)
	for _, h := range SectionHeaders {
		if strings.Contains(upper, h) {
			return true
		}
	}
	return false
}

// isSubsectionHeader detects company, school or project lines such as
// "Acme Corp – Senior Engineer" or "Search Service (Go, Postgres)".
func isSubsectionHeader(line string) bool {
	if textLength(line) >= 100 {
		return false
	}
	if strings.HasPrefix(line, "•") || strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*") {
		return false
	}
	return strings.ContainsAny(line, "–-(") ||
		strings.Contains(line, "Tech Stack:") ||
		strings.Contains(line, "Stack:")
}

// Render joins sections back into text that Parse reads as the same sections.
// Subsection lines are written plain and every other line as a "• " bullet, so
// a content line mentioning a header word is not taken for a new section.
func Render(sections []Section) string {
	var b strings.Builder
	for i, s := range sections {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s.Title)
		b.WriteString("\n")
		for _, item := range s.Content {
			if rest, ok := strings.CutPrefix(item, SubsectionMarker); ok {
				b.WriteString(rest)
			} else {
				b.WriteString("• ")
				b.WriteString(StripMarker(item))
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

// StripMarker removes a SUBSECTION or CONTENT marker from an item.
func StripMarker(item string) string {
	if rest, ok := strings.CutPrefix(item, SubsectionMarker); ok {
		return rest
	}
	if rest, ok := strings.CutPrefix(item, ContentMarker); ok {
		return rest
	}
	return item
}

// textLength measures text in UTF-16 code units.
func textLength(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
