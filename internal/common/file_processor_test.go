package common

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"resumeforge/internal/errors"
	"resumeforge/internal/types"
)

func quietLogger() *errors.Logger {
	return errors.NewLoggerTo(io.Discard, slog.LevelError)
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestValidateAndReadFiles(t *testing.T) {
	fp := NewFileProcessor(quietLogger(), 16)
	small := writeTemp(t, "resume.txt", "Jane Doe")
	large := writeTemp(t, "job.md", strings.Repeat("x", 17))

	tests := []struct {
		name     string
		files    []string
		wantCode string
	}{
		{name: "reads text file", files: []string{small}},
		{name: "missing file", files: []string{filepath.Join(t.TempDir(), "nope.txt")}, wantCode: "INVALID_INPUT_FILE"},
		{name: "directory", files: []string{t.TempDir()}, wantCode: "INVALID_INPUT_FILE"},
		{name: "too large", files: []string{small, large}, wantCode: errors.ErrCodePayloadTooLarge},
		{name: "empty name", files: []string{""}, wantCode: "INVALID_INPUT_FILE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contents, err := fp.ValidateAndReadFiles(tt.files...)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if contents[0] != "Jane Doe" {
					t.Errorf("content = %q", contents[0])
				}
				return
			}
			appErr, ok := errors.AsAppError(err)
			if !ok {
				t.Fatalf("expected AppError, got %v", err)
			}
			if appErr.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", appErr.Code, tt.wantCode)
			}
		})
	}
}

func TestIsTextFile(t *testing.T) {
	cases := map[string]bool{
		"resume.txt":  true,
		"resume.MD":   true,
		"notes.text":  true,
		"resume.docx": false,
		"resume":      false,
	}
	for name, want := range cases {
		if got := IsTextFile(name); got != want {
			t.Errorf("IsTextFile(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestFormatFileSize(t *testing.T) {
	cases := map[int64]string{
		512:             "512 B",
		2048:            "2.0 KB",
		5 * 1024 * 1024: "5.0 MB",
	}
	for size, want := range cases {
		if got := FormatFileSize(size); got != want {
			t.Errorf("FormatFileSize(%d) = %q, want %q", size, got, want)
		}
	}
}

func TestOutputHandlerWritesFile(t *testing.T) {
	var stdout bytes.Buffer
	oh := NewOutputHandler(&stdout, quietLogger())
	out := filepath.Join(t.TempDir(), "nested", "result.json")

	data := &types.JobPosting{Title: "Backend", Description: "Go"}
	if err := oh.HandleOutput(data, CommandConfig{OutputFile: out, OutputFormat: "json"}); err != nil {
		t.Fatalf("HandleOutput: %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout should be empty, got %q", stdout.String())
	}
	written, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(written), `"title": "Backend"`) {
		t.Errorf("unexpected output %s", written)
	}

	if err := oh.HandleOutput(data, CommandConfig{OutputFormat: "yaml"}); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestRunFileCommand(t *testing.T) {
	resume := writeTemp(t, "resume.txt", "Jane Doe")
	job := writeTemp(t, "job.txt", "Go developer")

	var stdout bytes.Buffer
	r := Runner{Logger: quietLogger(), Stdout: &stdout}

	var logged bool
	err := RunFileCommand(context.Background(), r, CommandConfig{OutputFormat: "json"}, []string{resume, job},
		func(contents []string) (types.JobPosting, error) {
			return types.JobPosting{Title: contents[0], Description: contents[1]}, nil
		},
		func(_ context.Context, in types.JobPosting) (*types.JobPosting, error) {
			in.Title = strings.ToUpper(in.Title)
			return &in, nil
		},
		func(types.JobPosting, CommandConfig) { logged = true },
	)
	if err != nil {
		t.Fatalf("RunFileCommand: %v", err)
	}
	if !logged {
		t.Error("logDetails was not called")
	}
	if !strings.Contains(stdout.String(), "JANE DOE") || !strings.Contains(stdout.String(), "Go developer") {
		t.Errorf("unexpected stdout %q", stdout.String())
	}
}
