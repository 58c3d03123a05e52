// Package storage persists users, résumés, job descriptions and the artifacts
// derived from them. One SQL implementation runs on Postgres (pgx) or SQLite.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a unique constraint rejects a write.
var ErrConflict = errors.New("already exists")

// Store is the persistence boundary used by the tailoring service and the API.
type Store interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	CreateResume(ctx context.Context, r *Resume) error
	ListResumes(ctx context.Context, userID string) ([]Resume, error)
	GetResume(ctx context.Context, id string) (*Resume, error)
	DeleteResume(ctx context.Context, id string) error

	CreateJobDescription(ctx context.Context, j *JobDescription) error
	ListJobDescriptions(ctx context.Context, userID string) ([]JobDescription, error)
	GetJobDescription(ctx context.Context, id string) (*JobDescription, error)

	CreateResumeVersion(ctx context.Context, v *ResumeVersion) error
	ListResumeVersions(ctx context.Context, userID string) ([]ResumeVersion, error)
	GetResumeVersion(ctx context.Context, id string) (*ResumeVersion, error)
	DeleteResumeVersion(ctx context.Context, id string) error

	CreateCoverLetter(ctx context.Context, c *CoverLetter) error
	ListCoverLetters(ctx context.Context, versionID string) ([]CoverLetter, error)
	ListUserCoverLetters(ctx context.Context, userID string) ([]CoverLetter, error)

	CreateInterviewQuestions(ctx context.Context, qs []InterviewQuestion) error
	ListInterviewQuestions(ctx context.Context, versionID string) ([]InterviewQuestion, error)
	ListUserInterviewQuestions(ctx context.Context, userID string) ([]InterviewQuestion, error)

	UserStats(ctx context.Context, userID string) (*UserStats, error)

	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// Drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Options select and tune the backend.
type Options struct {
	Driver   string
	DSN      string
	MaxConns int
}

// Open connects to the configured database.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case DriverPostgres:
		return OpenPostgres(ctx, opts.DSN, opts.MaxConns)
	case DriverSQLite:
		return OpenSQLite(ctx, opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", opts.Driver)
	}
}
