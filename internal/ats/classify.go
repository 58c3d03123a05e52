package ats

import (
	"slices"
	"strings"
)

// Tier is the weight class of a keyword in the jobscan method.
type Tier int

const (
	TierNone Tier = iota
	TierHardSkill
	TierJobTitle
	TierEducationCert
	TierSoftSkill
)

// Weight returns the points a keyword of this tier is worth.
func (t Tier) Weight() float64 {
	switch t {
	case TierHardSkill:
		return 4
	case TierJobTitle:
		return 3
	case TierEducationCert:
		return 2
	case TierSoftSkill:
		return 1
	default:
		return 0
	}
}

func (t Tier) String() string {
	switch t {
	case TierHardSkill:
		return "hard_skill"
	case TierJobTitle:
		return "job_title"
	case TierEducationCert:
		return "education_cert"
	case TierSoftSkill:
		return "soft_skill"
	default:
		return "none"
	}
}

type tierRule struct {
	match func(lower string) bool
	tier  Tier
}

func inList(list []string) func(string) bool {
	return func(lower string) bool {
		return slices.Contains(list, lower)
	}
}

// tierRules is evaluated in order; the first matching rule wins.
var tierRules = []tierRule{
	{inList(HardSkills), TierHardSkill},
	{inList(JobTitles), TierJobTitle},
	{inList(EducationCerts), TierEducationCert},
	{inList(SoftSkills), TierSoftSkill},
}

// Classify returns the tier of a keyword, or TierNone.
func Classify(keyword string) Tier {
	lower := strings.ToLower(keyword)
	for _, rule := range tierRules {
		if rule.match(lower) {
			return rule.tier
		}
	}
	return TierNone
}
