package ai

import (
	"strings"

	"resumeforge/internal/types"

	"github.com/tidwall/gjson"
)

// Decoders read validated replies with gjson so that missing or null fields
// become empty values instead of decode errors.

func stringList(r gjson.Result) []string {
	arr := r.Array()
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		if s := strings.TrimSpace(v.String()); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func decodeKeywords(doc string) *types.KeywordExtraction {
	r := gjson.Parse(doc)
	return &types.KeywordExtraction{
		Keywords: stringList(r.Get("keywords")),
		Skills:   stringList(r.Get("skills")),
	}
}

func decodeOptimization(doc string) *types.Optimization {
	r := gjson.Parse(doc)
	out := &types.Optimization{
		OptimizedContent: r.Get("optimizedContent").String(),
		Improvements:     []types.Improvement{},
		KeywordMatches:   stringList(r.Get("keywordMatches")),
	}
	for _, imp := range r.Get("improvements").Array() {
		out.Improvements = append(out.Improvements, types.Improvement{
			Section:   imp.Get("section").String(),
			Before:    imp.Get("before").String(),
			After:     imp.Get("after").String(),
			Reasoning: imp.Get("reasoning").String(),
		})
	}
	return out
}

func decodeCoverLetter(doc, tone string) *types.CoverLetterDraft {
	r := gjson.Parse(doc)
	out := &types.CoverLetterDraft{
		Content:   r.Get("content").String(),
		Tone:      r.Get("tone").String(),
		KeyPoints: stringList(r.Get("keyPoints")),
	}
	if out.Tone == "" {
		out.Tone = tone
	}
	return out
}

func decodeInterview(doc string) *types.InterviewPrep {
	r := gjson.Parse(doc)
	out := &types.InterviewPrep{Questions: []types.InterviewQuestionDraft{}}
	for _, q := range r.Get("questions").Array() {
		question := strings.TrimSpace(q.Get("question").String())
		if question == "" {
			continue
		}
		out.Questions = append(out.Questions, types.InterviewQuestionDraft{
			Question:        question,
			SuggestedAnswer: q.Get("suggestedAnswer").String(),
			Category:        q.Get("category").String(),
			Difficulty:      q.Get("difficulty").String(),
		})
	}
	return out
}

func decodeMultiJob(doc string) *types.MultiJobAnalysis {
	r := gjson.Parse(doc)
	out := &types.MultiJobAnalysis{
		CommonKeywords:      stringList(r.Get("commonKeywords")),
		MasterOptimization:  r.Get("masterOptimization").String(),
		JobSpecificInsights: []types.JobInsight{},
	}
	for _, in := range r.Get("jobSpecificInsights").Array() {
		out.JobSpecificInsights = append(out.JobSpecificInsights, types.JobInsight{
			Title:          in.Get("title").String(),
			UniqueKeywords: stringList(in.Get("uniqueKeywords")),
			MatchScore:     int(in.Get("matchScore").Int()),
		})
	}
	out.DedupeInsights()
	return out
}
