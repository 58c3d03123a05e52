package storage

// Both dialects store ids as text and list columns as JSON.
var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		first_name    TEXT NOT NULL DEFAULT '',
		last_name     TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS resumes (
		id               TEXT PRIMARY KEY,
		user_id          TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		file_name        TEXT NOT NULL,
		original_content TEXT NOT NULL,
		file_type        TEXT NOT NULL,
		file_size        INTEGER NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS job_descriptions (
		id                 TEXT PRIMARY KEY,
		user_id            TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title              TEXT NOT NULL,
		company            TEXT NOT NULL DEFAULT '',
		description        TEXT NOT NULL,
		url                TEXT NOT NULL DEFAULT '',
		extracted_keywords JSONB NOT NULL DEFAULT '[]',
		required_skills    JSONB NOT NULL DEFAULT '[]',
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS resume_versions (
		id                 TEXT PRIMARY KEY,
		resume_id          TEXT NOT NULL REFERENCES resumes(id) ON DELETE CASCADE,
		job_description_id TEXT NOT NULL REFERENCES job_descriptions(id) ON DELETE CASCADE,
		version_name       TEXT NOT NULL,
		tailored_content   TEXT NOT NULL,
		ats_score          TEXT NOT NULL,
		scoring_method     TEXT NOT NULL DEFAULT 'jobscan',
		degraded           BOOLEAN NOT NULL DEFAULT FALSE,
		keyword_matches    JSONB NOT NULL DEFAULT '[]',
		improvements       JSONB NOT NULL DEFAULT '[]',
		is_active          BOOLEAN NOT NULL DEFAULT FALSE,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS cover_letters (
		id                TEXT PRIMARY KEY,
		resume_version_id TEXT NOT NULL REFERENCES resume_versions(id) ON DELETE CASCADE,
		content           TEXT NOT NULL,
		tone              TEXT NOT NULL DEFAULT 'professional',
		key_points        JSONB NOT NULL DEFAULT '[]',
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS interview_questions (
		id                TEXT PRIMARY KEY,
		resume_version_id TEXT NOT NULL REFERENCES resume_versions(id) ON DELETE CASCADE,
		question          TEXT NOT NULL,
		suggested_answer  TEXT NOT NULL DEFAULT '',
		category          TEXT NOT NULL DEFAULT '',
		difficulty        TEXT NOT NULL DEFAULT '',
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_resumes_user ON resumes(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_job_descriptions_user ON job_descriptions(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_resume_versions_resume ON resume_versions(resume_id)`,
}

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		first_name    TEXT NOT NULL DEFAULT '',
		last_name     TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		created_at    DATETIME NOT NULL,
		updated_at    DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS resumes (
		id               TEXT PRIMARY KEY,
		user_id          TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		file_name        TEXT NOT NULL,
		original_content TEXT NOT NULL,
		file_type        TEXT NOT NULL,
		file_size        INTEGER NOT NULL,
		created_at       DATETIME NOT NULL,
		updated_at       DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS job_descriptions (
		id                 TEXT PRIMARY KEY,
		user_id            TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title              TEXT NOT NULL,
		company            TEXT NOT NULL DEFAULT '',
		description        TEXT NOT NULL,
		url                TEXT NOT NULL DEFAULT '',
		extracted_keywords TEXT NOT NULL DEFAULT '[]',
		required_skills    TEXT NOT NULL DEFAULT '[]',
		created_at         DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS resume_versions (
		id                 TEXT PRIMARY KEY,
		resume_id          TEXT NOT NULL REFERENCES resumes(id) ON DELETE CASCADE,
		job_description_id TEXT NOT NULL REFERENCES job_descriptions(id) ON DELETE CASCADE,
		version_name       TEXT NOT NULL,
		tailored_content   TEXT NOT NULL,
		ats_score          TEXT NOT NULL,
		scoring_method     TEXT NOT NULL DEFAULT 'jobscan',
		degraded           INTEGER NOT NULL DEFAULT 0,
		keyword_matches    TEXT NOT NULL DEFAULT '[]',
		improvements       TEXT NOT NULL DEFAULT '[]',
		is_active          INTEGER NOT NULL DEFAULT 0,
		created_at         DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS cover_letters (
		id                TEXT PRIMARY KEY,
		resume_version_id TEXT NOT NULL REFERENCES resume_versions(id) ON DELETE CASCADE,
		content           TEXT NOT NULL,
		tone              TEXT NOT NULL DEFAULT 'professional',
		key_points        TEXT NOT NULL DEFAULT '[]',
		created_at        DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS interview_questions (
		id                TEXT PRIMARY KEY,
		resume_version_id TEXT NOT NULL REFERENCES resume_versions(id) ON DELETE CASCADE,
		question          TEXT NOT NULL,
		suggested_answer  TEXT NOT NULL DEFAULT '',
		category          TEXT NOT NULL DEFAULT '',
		difficulty        TEXT NOT NULL DEFAULT '',
		created_at        DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_resumes_user ON resumes(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_job_descriptions_user ON job_descriptions(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_resume_versions_resume ON resume_versions(resume_id)`,
}
