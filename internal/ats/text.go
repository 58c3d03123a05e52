package ats

import (
	"math"
	"strings"
	"unicode/utf16"
)

// NormalizeKeywords trims keywords and drops empty entries and case-insensitive
// duplicates, keeping first-seen order.
func NormalizeKeywords(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		key := strings.ToLower(k)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, k)
	}
	return out
}

// matchKeywords splits keywords into those contained in lowerText and the rest.
// Matching is plain substring containment, so "java" matches "javascript".
func matchKeywords(lowerText string, keywords []string) (matched, missing []string) {
	matched = []string{}
	missing = []string{}
	for _, k := range keywords {
		if strings.Contains(lowerText, strings.ToLower(k)) {
			matched = append(matched, k)
		} else {
			missing = append(missing, k)
		}
	}
	return matched, missing
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// textLength measures text in UTF-16 code units.
func textLength(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

func goodLength(s string) bool {
	n := textLength(s)
	return n > 500 && n < 2000
}

// ratio returns part/whole*100, or 0 when whole is zero.
func ratio(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

// roundHalfUp rounds non-negative scores to the nearest integer.
func roundHalfUp(x float64) int {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return int(math.Floor(x + 0.5))
}
