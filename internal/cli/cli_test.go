package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"resumeforge/internal/config"
	"resumeforge/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testResume = `Jane Doe
jane@example.com | 555-123-4567

SUMMARY
Backend developer responsible for APIs.

EXPERIENCE
Software Engineer
• Built Go services handling 2 million requests per day

SKILLS
Go, Python, PostgreSQL, Docker`

	testJob = "We are hiring a backend engineer to build scalable APIs in Go and Python with PostgreSQL, Docker and Kubernetes."
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		App: config.AppConfig{
			LogLevel:         "error",
			DefaultFormat:    "json",
			SupportedFormats: []string{"json", "text", "markdown"},
			MaxFileSize:      1 << 20,
		},
		AI:       config.AIConfig{Provider: config.ProviderGemini},
		Database: config.DatabaseConfig{Driver: config.DriverSQLite, DSN: filepath.Join(t.TempDir(), "cli.db")},
		Scoring:  config.ScoringConfig{DefaultMethod: "jobscan"},
		Export:   config.ExportConfig{Backend: config.ExportLocal, Dir: t.TempDir()},
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

// run executes the root command. Flags keep their values between runs, so
// every test passes the flags it depends on.
func run(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := Execute(context.Background(), cfg, errors.NewLoggerTo(io.Discard, slog.LevelError))
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, testConfig(t), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "resumeforge version "+Version)
	assert.Contains(t, out, "Git commit:")
}

func TestScoreCommand(t *testing.T) {
	cfg := testConfig(t)
	resume := writeFile(t, "resume.txt", testResume)
	job := writeFile(t, "job.txt", testJob)

	out, err := run(t, cfg, "score", "--resume", resume, "--job", job,
		"--keywords", "Go,Kubernetes", "--method", "resumeworded", "--format", "json")
	require.NoError(t, err)

	var report struct {
		Method          string         `json:"method"`
		Overall         int            `json:"overall"`
		Breakdown       map[string]int `json:"breakdown"`
		MissingKeywords []string       `json:"missingKeywords"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "resumeworded", report.Method)
	assert.GreaterOrEqual(t, report.Overall, 0)
	assert.LessOrEqual(t, report.Overall, 100)
	assert.Contains(t, report.Breakdown, "impact")
	assert.Len(t, report.MissingKeywords, 1)
}

func TestScoreCommandErrors(t *testing.T) {
	cfg := testConfig(t)
	resume := writeFile(t, "resume.txt", testResume)

	_, err := run(t, cfg, "score", "--resume", resume, "--job", filepath.Join(t.TempDir(), "missing.txt"), "--format", "json")
	require.Error(t, err)

	_, err = run(t, cfg, "score", "--resume", resume, "--job", resume, "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported output format")
}

func TestTailorCommandDegraded(t *testing.T) {
	cfg := testConfig(t)
	resume := writeFile(t, "resume.txt", testResume)
	job := writeFile(t, "job.txt", testJob)
	outFile := filepath.Join(t.TempDir(), "out", "tailored.md")

	_, err := run(t, cfg, "tailor", "--resume", resume, "--job", job, "--method", "jobscan",
		"--format", "markdown", "--output", outFile)
	require.NoError(t, err)

	written, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Contains(t, string(written), "# Tailored Resume")
	assert.Contains(t, string(written), "degraded result")
}

func TestAnalyzeCommandDegraded(t *testing.T) {
	cfg := testConfig(t)
	resume := writeFile(t, "resume.txt", testResume)
	backend := writeFile(t, "backend.txt", testJob)
	cloud := writeFile(t, "cloud.txt", "Cloud engineer with Terraform and AWS.")

	out, err := run(t, cfg, "analyze", "--resume", resume, "--job", backend, "--job", cloud,
		"--format", "json", "--output", "")
	require.NoError(t, err)

	var analysis struct {
		Degraded bool `json:"degraded"`
		Insights []struct {
			Title string `json:"title"`
		} `json:"jobSpecificInsights"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &analysis))
	assert.True(t, analysis.Degraded)
	require.Len(t, analysis.Insights, 2)
	assert.Equal(t, "backend", analysis.Insights[0].Title)
}

func TestParseCommand(t *testing.T) {
	resume := writeFile(t, "resume.txt", testResume)

	out, err := run(t, testConfig(t), "parse", "--resume", resume, "--format", "markdown", "--output", "")
	require.NoError(t, err)
	assert.Contains(t, out, "## EXPERIENCE")
	assert.Contains(t, out, "## SKILLS")
	assert.True(t, strings.Index(out, "## SUMMARY") < strings.Index(out, "## EXPERIENCE"))
}

func TestExportCommand(t *testing.T) {
	cfg := testConfig(t)
	resume := writeFile(t, "resume.txt", testResume)
	outFile := filepath.Join(t.TempDir(), "jane.docx")

	out, err := run(t, cfg, "export", "--resume", resume, "--output", outFile, "--upload")
	require.NoError(t, err)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")), "docx is a zip archive")

	assert.Contains(t, out, "uploaded cli/jane.docx")
	archived, err := os.ReadFile(filepath.Join(cfg.Export.Dir, "cli", "jane.docx"))
	require.NoError(t, err)
	assert.Equal(t, data, archived)
}

func TestExportUploadNeedsBackend(t *testing.T) {
	cfg := testConfig(t)
	cfg.Export = config.ExportConfig{Backend: config.ExportNone}
	resume := writeFile(t, "resume.txt", testResume)

	_, err := run(t, cfg, "export", "--resume", resume, "--output", filepath.Join(t.TempDir(), "x.docx"), "--upload")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestMigrateCommand(t *testing.T) {
	cfg := testConfig(t)
	out, err := run(t, cfg, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "migrated sqlite database")
	_, err = os.Stat(cfg.Database.DSN)
	assert.NoError(t, err)
}
