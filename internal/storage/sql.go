package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type row interface {
	Scan(dest ...any) error
}

type rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}

// conn hides the driver differences. Queries use ? placeholders; rows report
// ErrNotFound and unique violations surface through isConflict.
type conn interface {
	exec(ctx context.Context, query string, args ...any) (int64, error)
	queryRow(ctx context.Context, query string, args ...any) row
	query(ctx context.Context, query string, args ...any) (rows, error)
	isConflict(err error) bool
	// inTx runs fn in a transaction, committing when fn returns nil
	inTx(ctx context.Context, fn func(exec execFunc) error) error
	schema() []string
	ping(ctx context.Context) error
	close() error
}

// execFunc runs one statement inside a transaction
type execFunc func(ctx context.Context, query string, args ...any) (int64, error)

type sqlStore struct {
	db  conn
	now func() time.Time
}

func newSQLStore(db conn) *sqlStore {
	return &sqlStore{db: db, now: func() time.Time { return time.Now().UTC() }}
}

func (s *sqlStore) Migrate(ctx context.Context) error {
	for _, stmt := range s.db.schema() {
		if _, err := s.db.exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

func (s *sqlStore) Ping(ctx context.Context) error { return s.db.ping(ctx) }

func (s *sqlStore) Close() error { return s.db.close() }

func (s *sqlStore) stamp(id *string, created *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	if created.IsZero() {
		*created = s.now()
	}
}

func (s *sqlStore) CreateUser(ctx context.Context, u *User) error {
	s.stamp(&u.ID, &u.CreatedAt)
	u.UpdatedAt = u.CreatedAt
	_, err := s.db.exec(ctx,
		`INSERT INTO users (id, email, first_name, last_name, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Email, u.FirstName, u.LastName, u.PasswordHash, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if s.db.isConflict(err) {
			return fmt.Errorf("user %s: %w", u.Email, ErrConflict)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

const userColumns = `id, email, first_name, last_name, password_hash, created_at, updated_at`

func scanUser(r row) (*User, error) {
	var u User
	if err := r.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *sqlStore) GetUser(ctx context.Context, id string) (*User, error) {
	u, err := scanUser(s.db.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return u, nil
}

func (s *sqlStore) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	u, err := scanUser(s.db.queryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

func (s *sqlStore) CreateResume(ctx context.Context, r *Resume) error {
	s.stamp(&r.ID, &r.CreatedAt)
	r.UpdatedAt = r.CreatedAt
	_, err := s.db.exec(ctx,
		`INSERT INTO resumes (id, user_id, file_name, original_content, file_type, file_size, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.UserID, r.FileName, r.OriginalContent, r.FileType, r.FileSize, r.CreatedAt, r.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create resume: %w", err)
	}
	return nil
}

const resumeColumns = `id, user_id, file_name, original_content, file_type, file_size, created_at, updated_at`

func scanResume(r row) (*Resume, error) {
	var res Resume
	err := r.Scan(&res.ID, &res.UserID, &res.FileName, &res.OriginalContent, &res.FileType, &res.FileSize, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *sqlStore) ListResumes(ctx context.Context, userID string) ([]Resume, error) {
	return collect(ctx, s.db, scanResume,
		`SELECT `+resumeColumns+` FROM resumes WHERE user_id = ? ORDER BY created_at DESC`, userID)
}

func (s *sqlStore) GetResume(ctx context.Context, id string) (*Resume, error) {
	r, err := scanResume(s.db.queryRow(ctx, `SELECT `+resumeColumns+` FROM resumes WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get resume %s: %w", id, err)
	}
	return r, nil
}

func (s *sqlStore) DeleteResume(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "resumes", id)
}

func (s *sqlStore) CreateJobDescription(ctx context.Context, j *JobDescription) error {
	s.stamp(&j.ID, &j.CreatedAt)
	_, err := s.db.exec(ctx,
		`INSERT INTO job_descriptions (id, user_id, title, company, description, url, extracted_keywords, required_skills, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		j.ID, j.UserID, j.Title, j.Company, j.Description, j.URL,
		encodeJSON(j.ExtractedKeywords), encodeJSON(j.RequiredSkills), j.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create job description: %w", err)
	}
	return nil
}

const jobColumns = `id, user_id, title, company, description, url, extracted_keywords, required_skills, created_at`

func scanJob(r row) (*JobDescription, error) {
	var (
		j                JobDescription
		keywords, skills string
	)
	if err := r.Scan(&j.ID, &j.UserID, &j.Title, &j.Company, &j.Description, &j.URL, &keywords, &skills, &j.CreatedAt); err != nil {
		return nil, err
	}
	if err := decodeJSON(keywords, &j.ExtractedKeywords); err != nil {
		return nil, err
	}
	if err := decodeJSON(skills, &j.RequiredSkills); err != nil {
		return nil, err
	}
	return &j, nil
}

func (s *sqlStore) ListJobDescriptions(ctx context.Context, userID string) ([]JobDescription, error) {
	return collect(ctx, s.db, scanJob,
		`SELECT `+jobColumns+` FROM job_descriptions WHERE user_id = ? ORDER BY created_at DESC`, userID)
}

func (s *sqlStore) GetJobDescription(ctx context.Context, id string) (*JobDescription, error) {
	j, err := scanJob(s.db.queryRow(ctx, `SELECT `+jobColumns+` FROM job_descriptions WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get job description %s: %w", id, err)
	}
	return j, nil
}

func (s *sqlStore) CreateResumeVersion(ctx context.Context, v *ResumeVersion) error {
	s.stamp(&v.ID, &v.CreatedAt)
	_, err := s.db.exec(ctx,
		`INSERT INTO resume_versions (id, resume_id, job_description_id, version_name, tailored_content,
		   ats_score, scoring_method, degraded, keyword_matches, improvements, is_active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.ResumeID, v.JobDescriptionID, v.VersionName, v.TailoredContent,
		v.ATSScore, v.ScoringMethod, v.Degraded, encodeJSON(v.KeywordMatches), encodeJSON(v.Improvements),
		v.IsActive, v.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create resume version: %w", err)
	}
	return nil
}

const versionSelect = `SELECT v.id, v.resume_id, v.job_description_id, v.version_name, v.tailored_content,
	v.ats_score, v.scoring_method, v.degraded, v.keyword_matches, v.improvements, v.is_active, v.created_at,
	r.user_id, COALESCE(j.title, ''), COALESCE(j.company, '')
	FROM resume_versions v
	JOIN resumes r ON r.id = v.resume_id
	LEFT JOIN job_descriptions j ON j.id = v.job_description_id`

func scanVersion(r row) (*ResumeVersion, error) {
	var (
		v                     ResumeVersion
		matches, improvements string
	)
	err := r.Scan(&v.ID, &v.ResumeID, &v.JobDescriptionID, &v.VersionName, &v.TailoredContent,
		&v.ATSScore, &v.ScoringMethod, &v.Degraded, &matches, &improvements, &v.IsActive, &v.CreatedAt,
		&v.UserID, &v.JobTitle, &v.JobCompany)
	if err != nil {
		return nil, err
	}
	if err := decodeJSON(matches, &v.KeywordMatches); err != nil {
		return nil, err
	}
	if err := decodeJSON(improvements, &v.Improvements); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *sqlStore) ListResumeVersions(ctx context.Context, userID string) ([]ResumeVersion, error) {
	return collect(ctx, s.db, scanVersion, versionSelect+` WHERE r.user_id = ? ORDER BY v.created_at DESC`, userID)
}

func (s *sqlStore) GetResumeVersion(ctx context.Context, id string) (*ResumeVersion, error) {
	v, err := scanVersion(s.db.queryRow(ctx, versionSelect+` WHERE v.id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get resume version %s: %w", id, err)
	}
	return v, nil
}

func (s *sqlStore) DeleteResumeVersion(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "resume_versions", id)
}

func (s *sqlStore) CreateCoverLetter(ctx context.Context, c *CoverLetter) error {
	s.stamp(&c.ID, &c.CreatedAt)
	_, err := s.db.exec(ctx,
		`INSERT INTO cover_letters (id, resume_version_id, content, tone, key_points, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.ResumeVersionID, c.Content, c.Tone, encodeJSON(c.KeyPoints), c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create cover letter: %w", err)
	}
	return nil
}

const coverLetterSelect = `SELECT c.id, c.resume_version_id, c.content, c.tone, c.key_points, c.created_at
	FROM cover_letters c`

func scanCoverLetter(r row) (*CoverLetter, error) {
	var (
		c      CoverLetter
		points string
	)
	if err := r.Scan(&c.ID, &c.ResumeVersionID, &c.Content, &c.Tone, &points, &c.CreatedAt); err != nil {
		return nil, err
	}
	if err := decodeJSON(points, &c.KeyPoints); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *sqlStore) ListCoverLetters(ctx context.Context, versionID string) ([]CoverLetter, error) {
	return collect(ctx, s.db, scanCoverLetter,
		coverLetterSelect+` WHERE c.resume_version_id = ? ORDER BY c.created_at DESC`, versionID)
}

func (s *sqlStore) ListUserCoverLetters(ctx context.Context, userID string) ([]CoverLetter, error) {
	return collect(ctx, s.db, scanCoverLetter, coverLetterSelect+`
		JOIN resume_versions v ON v.id = c.resume_version_id
		JOIN resumes r ON r.id = v.resume_id
		WHERE r.user_id = ? ORDER BY c.created_at DESC`, userID)
}

// CreateInterviewQuestions stores the whole batch or nothing
func (s *sqlStore) CreateInterviewQuestions(ctx context.Context, qs []InterviewQuestion) error {
	for i := range qs {
		s.stamp(&qs[i].ID, &qs[i].CreatedAt)
	}
	return s.db.inTx(ctx, func(exec execFunc) error {
		for _, q := range qs {
			_, err := exec(ctx,
				`INSERT INTO interview_questions (id, resume_version_id, question, suggested_answer, category, difficulty, created_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?)`,
				q.ID, q.ResumeVersionID, q.Question, q.SuggestedAnswer, q.Category, q.Difficulty, q.CreatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to create interview question: %w", err)
			}
		}
		return nil
	})
}

const questionSelect = `SELECT q.id, q.resume_version_id, q.question, q.suggested_answer, q.category, q.difficulty, q.created_at
	FROM interview_questions q`

func scanQuestion(r row) (*InterviewQuestion, error) {
	var q InterviewQuestion
	if err := r.Scan(&q.ID, &q.ResumeVersionID, &q.Question, &q.SuggestedAnswer, &q.Category, &q.Difficulty, &q.CreatedAt); err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *sqlStore) ListInterviewQuestions(ctx context.Context, versionID string) ([]InterviewQuestion, error) {
	return collect(ctx, s.db, scanQuestion,
		questionSelect+` WHERE q.resume_version_id = ? ORDER BY q.created_at`, versionID)
}

func (s *sqlStore) ListUserInterviewQuestions(ctx context.Context, userID string) ([]InterviewQuestion, error) {
	return collect(ctx, s.db, scanQuestion, questionSelect+`
		JOIN resume_versions v ON v.id = q.resume_version_id
		JOIN resumes r ON r.id = v.resume_id
		WHERE r.user_id = ? ORDER BY q.created_at DESC`, userID)
}

// UserStats averages the stored ATS scores in Go because the column is text.
func (s *sqlStore) UserStats(ctx context.Context, userID string) (*UserStats, error) {
	var stats UserStats
	if err := s.db.queryRow(ctx, `SELECT COUNT(*) FROM resumes WHERE user_id = ?`, userID).Scan(&stats.TotalResumes); err != nil {
		return nil, fmt.Errorf("failed to count resumes: %w", err)
	}

	scores, err := collect(ctx, s.db, func(r row) (*string, error) {
		var score string
		return &score, r.Scan(&score)
	}, `SELECT v.ats_score FROM resume_versions v JOIN resumes r ON r.id = v.resume_id WHERE r.user_id = ?`, userID)
	if err != nil {
		return nil, err
	}

	var sum float64
	for _, score := range scores {
		n, err := strconv.ParseFloat(score, 64)
		if err != nil {
			continue
		}
		sum += n
	}
	stats.TotalVersions = len(scores)
	stats.TotalApplications = len(scores)
	if len(scores) > 0 {
		stats.AverageATSScore = int(math.Floor(sum/float64(len(scores)) + 0.5))
	}
	return &stats, nil
}

func (s *sqlStore) deleteByID(ctx context.Context, table, id string) error {
	n, err := s.db.exec(ctx, `DELETE FROM `+table+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	if n == 0 {
		return fmt.Errorf("delete %s %s: %w", table, id, ErrNotFound)
	}
	return nil
}

func collect[T any](ctx context.Context, db conn, scan func(row) (*T, error), query string, args ...any) ([]T, error) {
	rs, err := db.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rs.Close()

	out := []T{}
	for rs.Next() {
		item, err := scan(rs)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		out = append(out, *item)
	}
	if err := rs.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	return out, nil
}

func encodeJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil || string(b) == "null" {
		return "[]"
	}
	return string(b)
}

func decodeJSON(s string, dst any) error {
	if s == "" {
		s = "[]"
	}
	if err := json.Unmarshal([]byte(s), dst); err != nil {
		return fmt.Errorf("failed to decode json column: %w", err)
	}
	return nil
}
