package ats

import "regexp"

// Keyword vocabularies used by the jobscan classifier. Entries are lower case
// and matched exactly against a lower-cased keyword.
var (
	HardSkills = []string{
		"python", "react", "aws", "sql", "javascript", "node.js",
		"docker", "kubernetes", "mongodb", "postgresql",
	}

	JobTitles = []string{
		"software engineer", "fullstack", "backend", "frontend", "developer", "architect",
	}

	EducationCerts = []string{
		"bs", "ms", "phd", "certified", "aws certified", "azure", "google cloud",
	}

	SoftSkills = []string{
		"teamwork", "communication", "leadership", "problem solving",
		"collaboration", "agile", "scrum",
	}
)

// Section words that earn the jobscan section placement bonus.
var sectionBonuses = []struct {
	words  []string
	points float64
}{
	{[]string{"experience", "work"}, 10},
	{[]string{"projects", "portfolio"}, 8},
	{[]string{"skills", "technologies"}, 5},
}

// ActionVerbs feed the resumeworded style score, 5 points each.
var ActionVerbs = []string{
	"led", "built", "improved", "developed", "created", "implemented", "designed",
	"optimized", "increased", "reduced", "delivered", "managed", "coordinated",
	"architected", "scaled",
}

// impactPattern counts quantified achievements in lower-cased text. Patterns
// here are case-sensitive: Go's (?i) folds non-ASCII letters such as ſ and K
// onto ASCII ones, so callers lower-case ASCII letters first instead.
var impactPattern = regexp.MustCompile(`\d+%|\$\d+|\d+ users|\d+ customers|\d+ million|\d+ thousand`)

// skillsHeaders open the span inspected by the resumeworded skills score.
var skillsHeaders = []string{"skills", "technologies", "tools", "languages"}

// formatHeaders is the resumeworded "has headers" check, matched against asciiLower text.
var formatHeaders = regexp.MustCompile(`experience|education|skills|projects`)

// Bullet markers recognised at the start of a line.
var bulletMarkers = []string{"•", "-", "*"}

// FallbackVocabulary is scanned in degraded mode when keyword extraction is unavailable.
var FallbackVocabulary = []string{
	"javascript", "python", "java", "react", "node.js", "sql", "aws", "docker",
	"kubernetes", "machine learning", "ai", "data analysis", "agile", "scrum",
	"communication", "leadership", "problem solving", "teamwork", "analytics",
}

// FallbackDefaultKeywords are used when the fallback scan finds nothing.
var FallbackDefaultKeywords = []string{"software development", "programming", "technology"}

// fallbackCommonKeywords is the degraded multi-job common keyword list.
var fallbackCommonKeywords = []string{"javascript", "react", "node.js", "python", "aws", "sql", "agile", "git"}
