package ats

import (
	"math"
	"strings"
)

// ResumewordedBreakdown is the per-component result of the resumeworded method.
type ResumewordedBreakdown struct {
	KeywordMatch int `json:"keywordMatch"`
	Impact       int `json:"impact"`
	Brevity      int `json:"brevity"`
	Skills       int `json:"skills"`
	Style        int `json:"style"`
	Overall      int `json:"overall"`
}

// Weights of the resumeworded blend.
const (
	rwKeywordWeight = 0.30
	rwImpactWeight  = 0.25
	rwBrevityWeight = 0.20
	rwSkillsWeight  = 0.15
	rwStyleWeight   = 0.10
)

// ScoreResumeworded blends keyword overlap with writing quality signals:
// bullet brevity, action verbs, quantified impact and the skills section.
func ScoreResumeworded(in Input) ResumewordedBreakdown {
	resume := strings.ToLower(in.ResumeText)

	matched, _ := matchKeywords(resume, in.Keywords)
	keyword := ratio(float64(len(matched)), float64(len(in.Keywords)))

	brevity := brevityScore(bullets(in.ResumeText))
	style := styleScore(resume)
	impact := math.Min(100, float64(len(impactPattern.FindAllStringIndex(resume, -1)))*15)

	var skills float64
	if span, ok := skillsSpan(in.ResumeText); ok {
		inSpan, _ := matchKeywords(strings.ToLower(span), in.Keywords)
		skills = ratio(float64(len(inSpan)), float64(len(in.Keywords)))
	}

	formatBonus := resumewordedFormat(in.ResumeText)

	overall := math.Min(100,
		keyword*rwKeywordWeight+
			impact*rwImpactWeight+
			brevity*rwBrevityWeight+
			skills*rwSkillsWeight+
			style*rwStyleWeight+
			formatBonus)

	return ResumewordedBreakdown{
		KeywordMatch: roundHalfUp(keyword),
		Impact:       roundHalfUp(impact),
		Brevity:      roundHalfUp(brevity),
		Skills:       roundHalfUp(skills),
		Style:        roundHalfUp(style),
		Overall:      roundHalfUp(overall),
	}
}

// bullets returns the lines whose trimmed text starts with a bullet marker.
func bullets(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if isBullet(strings.TrimSpace(line)) {
			out = append(out, line)
		}
	}
	return out
}

func isBullet(trimmed string) bool {
	for _, m := range bulletMarkers {
		if strings.HasPrefix(trimmed, m) {
			return true
		}
	}
	return false
}

// brevityScore rewards bullets of 12-18 words, and 8-25 words to a lesser degree.
func brevityScore(lines []string) float64 {
	var sum float64
	for _, line := range lines {
		words := len(strings.Split(line, " "))
		switch {
		case words >= 12 && words <= 18:
			sum += 20
		case words >= 8 && words <= 25:
			sum += 10
		}
	}
	return math.Min(100, sum/float64(max(len(lines), 1)))
}

func styleScore(lowerText string) float64 {
	var sum float64
	for _, verb := range ActionVerbs {
		if strings.Contains(lowerText, verb) {
			sum += 5
		}
	}
	return math.Min(100, sum)
}

// skillsSpan returns the first skills-like header span.
func skillsSpan(text string) (string, bool) {
	start, end, ok := headerSpan(text, skillsHeaders, 0)
	if !ok {
		return "", false
	}
	return text[start:end], true
}

// headerSpan finds, at or after from, the first position where one of headers
// starts (ASCII case-insensitive) and whose line is followed by a blank line,
// by a line starting with a letter, or by the end of the text. The span runs
// from that position to the end of its line.
func headerSpan(text string, headers []string, from int) (start, end int, ok bool) {
	lower := asciiLower(text)
	for i := from; i < len(lower); i++ {
		if !hasAnyPrefix(lower[i:], headers) {
			continue
		}
		end := strings.IndexAny(text[i:], lineTerminators)
		if end < 0 {
			return i, len(text), true
		}
		end += i
		if spanTerminates(text[end:]) {
			return i, end, true
		}
	}
	return 0, 0, false
}

// lineTerminators end a header line; only a newline can close a span.
const lineTerminators = "\n\r\u2028\u2029"

// spanTerminates reports whether rest, which starts at a newline, closes a skills span.
func spanTerminates(rest string) bool {
	if len(rest) < 2 || rest[0] != '\n' {
		return false
	}
	next := rest[1]
	return next == '\n' || (next >= 'a' && next <= 'z') || (next >= 'A' && next <= 'Z')
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// asciiLower lower-cases ASCII letters only so byte offsets stay aligned with the input.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

func resumewordedFormat(text string) float64 {
	var bonus float64
	if formatHeaders.MatchString(asciiLower(text)) {
		bonus += 10
	}
	if containsAny(text, bulletMarkers...) {
		bonus += 10
	}
	if goodLength(text) {
		bonus += 10
	}
	return bonus
}
