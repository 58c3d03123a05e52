package ats

import (
	"math"
	"strings"
)

// JobscanBreakdown is the per-component result of the jobscan method.
type JobscanBreakdown struct {
	KeywordMatch     int `json:"keywordMatch"`
	SectionPlacement int `json:"sectionPlacement"`
	Coverage         int `json:"coverage"`
	Format           int `json:"format"`
	Overall          int `json:"overall"`
}

// jobscanNormalizer is added to the maximum keyword score before normalising.
const jobscanNormalizer = 25

// ScoreJobscan weights keywords by tier, adds section and format bonuses and
// normalises the total to 0-100. The job description is accepted for future
// rules and does not affect the result.
func ScoreJobscan(in Input) JobscanBreakdown {
	resume := strings.ToLower(in.ResumeText)

	var total, maxPossible float64
	for _, k := range in.Keywords {
		tier := Classify(k)
		if tier == TierNone {
			continue
		}
		weight := tier.Weight()
		maxPossible += weight

		lower := strings.ToLower(k)
		if !strings.Contains(resume, lower) {
			continue
		}
		total += weight
		if tier == TierHardSkill {
			total += repetitionBonus(resume, lower)
		}
	}

	section := sectionBonus(resume)
	format := jobscanFormat(in.ResumeText)

	matched, _ := matchKeywords(resume, in.Keywords)
	coverage := ratio(float64(len(matched)), float64(len(in.Keywords)))

	var final float64
	if maxPossible > 0 {
		final = math.Min(100, (total+section+format)/(maxPossible+jobscanNormalizer)*100)
	}

	return JobscanBreakdown{
		KeywordMatch:     roundHalfUp(ratio(total, maxPossible)),
		SectionPlacement: roundHalfUp(section),
		Coverage:         roundHalfUp(coverage),
		Format:           roundHalfUp(format),
		Overall:          roundHalfUp(final),
	}
}

// repetitionBonus awards up to 2 extra points for repeated hard skills.
func repetitionBonus(resume, keyword string) float64 {
	if keyword == "" {
		return 0
	}
	occurrences := strings.Count(resume, keyword)
	if occurrences <= 1 {
		return 0
	}
	return float64(min(occurrences-1, 2))
}

func sectionBonus(resume string) float64 {
	var bonus float64
	for _, b := range sectionBonuses {
		if containsAny(resume, b.words...) {
			bonus += b.points
		}
	}
	return bonus
}

func jobscanFormat(text string) float64 {
	var score float64
	if goodLength(text) {
		score += 10
	}
	if containsAny(text, "•", "-") {
		score += 5
	}
	if containsAny(text, "%", "$") {
		score += 5
	}
	return score
}
