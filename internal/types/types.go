package types

// Improvement describes one change the optimizer made to a résumé section
type Improvement struct {
	Section   string `json:"section"`
	Before    string `json:"before"`
	After     string `json:"after"`
	Reasoning string `json:"reasoning"`
}

// KeywordExtraction is the keyword extractor's view of a job description
type KeywordExtraction struct {
	Keywords []string `json:"keywords"`
	Skills   []string `json:"skills"`
}

// Optimization is the résumé optimizer's output before scoring
type Optimization struct {
	OptimizedContent string        `json:"optimizedContent"`
	Improvements     []Improvement `json:"improvements"`
	KeywordMatches   []string      `json:"keywordMatches"`
}

// CoverLetterDraft is a generated cover letter
type CoverLetterDraft struct {
	Content   string   `json:"content"`
	Tone      string   `json:"tone"`
	KeyPoints []string `json:"keyPoints"`
}

// InterviewQuestionDraft is one generated interview question
type InterviewQuestionDraft struct {
	Question        string `json:"question"`
	SuggestedAnswer string `json:"suggestedAnswer"`
	Category        string `json:"category"`   // behavioral, technical, situational, leadership
	Difficulty      string `json:"difficulty"` // easy, medium, hard
}

// InterviewPrep groups generated interview questions
type InterviewPrep struct {
	Questions []InterviewQuestionDraft `json:"questions"`
}

// JobPosting is a titled job description used in multi-job analysis
type JobPosting struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// JobInsight is the per-job part of a multi-job analysis
type JobInsight struct {
	Title          string   `json:"title"`
	UniqueKeywords []string `json:"uniqueKeywords"`
	MatchScore     int      `json:"matchScore"`
}

// MultiJobAnalysis is a master résumé strategy across several job descriptions
type MultiJobAnalysis struct {
	CommonKeywords      []string     `json:"commonKeywords"`
	MasterOptimization  string       `json:"masterOptimization"`
	JobSpecificInsights []JobInsight `json:"jobSpecificInsights"`
	Degraded            bool         `json:"degraded,omitempty"`
}

// DedupeInsights keeps the first insight for each title
func (m *MultiJobAnalysis) DedupeInsights() {
	seen := make(map[string]struct{}, len(m.JobSpecificInsights))
	unique := make([]JobInsight, 0, len(m.JobSpecificInsights))
	for _, insight := range m.JobSpecificInsights {
		if _, ok := seen[insight.Title]; ok {
			continue
		}
		seen[insight.Title] = struct{}{}
		unique = append(unique, insight)
	}
	m.JobSpecificInsights = unique
}

// TailorOutput is the result of a tailoring run that is not persisted (CLI)
type TailorOutput struct {
	TailoredContent string         `json:"tailoredContent"`
	Improvements    []Improvement  `json:"improvements"`
	KeywordMatches  []string       `json:"keywordMatches"`
	Keywords        []string       `json:"keywords"`
	ScoringMethod   string         `json:"scoringMethod"`
	ATSScore        int            `json:"atsScore"`
	Breakdown       map[string]int `json:"breakdown"`
	Degraded        bool           `json:"degraded,omitempty"`
}
