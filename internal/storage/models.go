package storage

import (
	"time"

	"resumeforge/internal/types"
)

// User is an account owning résumés and job descriptions.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Resume is an uploaded résumé in plain text.
type Resume struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	FileName        string    `json:"fileName"`
	OriginalContent string    `json:"originalContent"`
	FileType        string    `json:"fileType"`
	FileSize        int       `json:"fileSize"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// JobDescription is a stored job posting with its extracted keywords.
type JobDescription struct {
	ID                string    `json:"id"`
	UserID            string    `json:"userId"`
	Title             string    `json:"title"`
	Company           string    `json:"company"`
	Description       string    `json:"description"`
	URL               string    `json:"url,omitempty"`
	ExtractedKeywords []string  `json:"extractedKeywords"`
	RequiredSkills    []string  `json:"requiredSkills"`
	CreatedAt         time.Time `json:"createdAt"`
}

// ResumeVersion is a tailored résumé. It is written once; ATSScore is the
// decimal string of the overall score computed at creation.
type ResumeVersion struct {
	ID               string              `json:"id"`
	ResumeID         string              `json:"resumeId"`
	JobDescriptionID string              `json:"jobDescriptionId"`
	VersionName      string              `json:"versionName"`
	TailoredContent  string              `json:"tailoredContent"`
	ATSScore         string              `json:"atsScore"`
	ScoringMethod    string              `json:"scoringMethod"`
	Degraded         bool                `json:"degraded"`
	KeywordMatches   []string            `json:"keywordMatches"`
	Improvements     []types.Improvement `json:"improvements"`
	IsActive         bool                `json:"isActive"`
	CreatedAt        time.Time           `json:"createdAt"`

	// Filled from joins on read.
	UserID     string `json:"-"`
	JobTitle   string `json:"jobTitle,omitempty"`
	JobCompany string `json:"jobCompany,omitempty"`
}

// CoverLetter is a generated cover letter for a version.
type CoverLetter struct {
	ID              string    `json:"id"`
	ResumeVersionID string    `json:"resumeVersionId"`
	Content         string    `json:"content"`
	Tone            string    `json:"tone"`
	KeyPoints       []string  `json:"keyPoints"`
	CreatedAt       time.Time `json:"createdAt"`
}

// InterviewQuestion is a generated question with a suggested answer.
type InterviewQuestion struct {
	ID              string    `json:"id"`
	ResumeVersionID string    `json:"resumeVersionId"`
	Question        string    `json:"question"`
	SuggestedAnswer string    `json:"suggestedAnswer"`
	Category        string    `json:"category"`
	Difficulty      string    `json:"difficulty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// UserStats summarises a user's activity.
type UserStats struct {
	TotalResumes      int `json:"totalResumes"`
	TotalVersions     int `json:"totalVersions"`
	AverageATSScore   int `json:"averageAtsScore"`
	TotalApplications int `json:"totalApplications"`
}
