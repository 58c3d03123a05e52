// Package ats computes deterministic applicant tracking system compatibility
// scores between a résumé and a job description.
//
// Two methods are available. Jobscan weights keywords by tier and adds section
// and format bonuses. Resumeworded blends keyword overlap with writing quality
// signals. Both are pure functions of their input.
package ats

import (
	"fmt"
	"strings"
)

// Method selects a scoring methodology.
type Method string

const (
	MethodJobscan      Method = "jobscan"
	MethodResumeworded Method = "resumeworded"
)

// DefaultMethod is used when the caller does not choose one.
const DefaultMethod = MethodJobscan

// Methods lists the supported methods.
var Methods = []Method{MethodJobscan, MethodResumeworded}

// ParseMethod resolves a method name. An empty name yields DefaultMethod.
func ParseMethod(name string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(name))) {
	case "":
		return DefaultMethod, nil
	case MethodJobscan:
		return MethodJobscan, nil
	case MethodResumeworded:
		return MethodResumeworded, nil
	default:
		return "", fmt.Errorf("unknown scoring method %q (supported: jobscan, resumeworded)", name)
	}
}

// Input is the immutable input of a scoring call.
type Input struct {
	ResumeText         string
	JobDescriptionText string
	Keywords           []string
}

// Result is the outcome of Score. Exactly one breakdown is set, matching Method.
type Result struct {
	Method          Method                 `json:"method"`
	Overall         int                    `json:"overall"`
	Jobscan         *JobscanBreakdown      `json:"jobscan,omitempty"`
	Resumeworded    *ResumewordedBreakdown `json:"resumeworded,omitempty"`
	MatchedKeywords []string               `json:"matchedKeywords"`
	MissingKeywords []string               `json:"missingKeywords"`
}

// Score runs the selected method. Unknown methods fall back to DefaultMethod.
func Score(in Input, method Method) Result {
	matched, missing := matchKeywords(strings.ToLower(in.ResumeText), in.Keywords)
	res := Result{
		MatchedKeywords: matched,
		MissingKeywords: missing,
	}

	switch method {
	case MethodResumeworded:
		b := ScoreResumeworded(in)
		res.Method = MethodResumeworded
		res.Overall = b.Overall
		res.Resumeworded = &b
	default:
		b := ScoreJobscan(in)
		res.Method = MethodJobscan
		res.Overall = b.Overall
		res.Jobscan = &b
	}
	return res
}

// Breakdown returns the active breakdown as a generic map, for renderers.
func (r Result) Breakdown() map[string]int {
	if r.Resumeworded != nil {
		b := r.Resumeworded
		return map[string]int{
			"keywordMatch": b.KeywordMatch,
			"impact":       b.Impact,
			"brevity":      b.Brevity,
			"skills":       b.Skills,
			"style":        b.Style,
			"overall":      b.Overall,
		}
	}
	if r.Jobscan != nil {
		b := r.Jobscan
		return map[string]int{
			"keywordMatch":     b.KeywordMatch,
			"sectionPlacement": b.SectionPlacement,
			"coverage":         b.Coverage,
			"format":           b.Format,
			"overall":          b.Overall,
		}
	}
	return map[string]int{"overall": r.Overall}
}
