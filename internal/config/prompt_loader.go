package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"resumeforge/internal/errors"

	"github.com/fsnotify/fsnotify"
)

// Prompt kinds
const (
	PromptSystem = "system"
	PromptUser   = "user"
)

// LoadedPrompt is the file-backed prompt pair for one operation. Empty fields
// mean no file was present.
type LoadedPrompt struct {
	System string
	User   string
}

// PromptStore holds prompts read from ai.promptsDir. Files are named
// <kind>.<operation>.md, for example system.optimize.md or user.keywords.md.
type PromptStore struct {
	dir    string
	logger *errors.Logger

	mu      sync.RWMutex
	prompts map[string]LoadedPrompt
}

// NewPromptStore loads every prompt file in dir. An empty dir yields an empty
// store that always falls through to configured or built-in prompts.
func NewPromptStore(dir string, logger *errors.Logger) (*PromptStore, error) {
	ps := &PromptStore{dir: dir, logger: logger, prompts: map[string]LoadedPrompt{}}
	if dir == "" {
		return ps, nil
	}
	if info, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("prompts directory %s: %w", dir, err)
	} else if !info.IsDir() {
		return nil, fmt.Errorf("prompts path %s is not a directory", dir)
	}
	if err := ps.Reload(); err != nil {
		return nil, err
	}
	return ps, nil
}

// Get returns the loaded prompts for op
func (ps *PromptStore) Get(op string) LoadedPrompt {
	if ps == nil {
		return LoadedPrompt{}
	}
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return ps.prompts[op]
}

// Reload re-reads every prompt file. On error the previous prompts stay in place.
func (ps *PromptStore) Reload() error {
	if ps.dir == "" {
		return nil
	}

	loaded := make(map[string]LoadedPrompt, len(Operations))
	count := 0
	for _, op := range Operations {
		var p LoadedPrompt
		for _, kind := range []string{PromptSystem, PromptUser} {
			content, err := loadPromptFile(PromptFilePath(ps.dir, kind, op))
			if err != nil {
				return fmt.Errorf("failed to load %s %s prompt: %w", kind, op, err)
			}
			if content == "" {
				continue
			}
			count++
			if kind == PromptSystem {
				p.System = content
			} else {
				p.User = content
			}
		}
		loaded[op] = p
	}

	ps.mu.Lock()
	ps.prompts = loaded
	ps.mu.Unlock()

	if ps.logger != nil {
		ps.logger.Info("Loaded prompt files", "dir", ps.dir, "count", count)
	}
	return nil
}

// PromptFilePath returns the file that holds kind's prompt for op
func PromptFilePath(dir, kind, op string) string {
	return filepath.Join(dir, kind+"."+op+".md")
}

// loadPromptFile returns the trimmed file content, or "" when the file does not exist
func loadPromptFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read prompt file '%s': %w", path, err)
	}
	trimmed := strings.TrimSpace(string(content))
	if trimmed == "" {
		return "", fmt.Errorf("prompt file '%s' is empty", path)
	}
	return trimmed, nil
}

// Watch reloads the store whenever a prompt file changes until ctx is done.
// Bursts of events are collapsed with debounce.
func (ps *PromptStore) Watch(ctx context.Context, debounce time.Duration) error {
	if ps.dir == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(ps.dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch directory %s: %w", ps.dir, err)
	}

	if ps.logger != nil {
		ps.logger.Info("Prompt file watcher started", "dir", ps.dir, "debounce_delay", debounce)
	}

	go ps.watchLoop(ctx, watcher, debounce)
	return nil
}

func (ps *PromptStore) watchLoop(ctx context.Context, watcher *fsnotify.Watcher, debounce time.Duration) {
	defer func() {
		if err := watcher.Close(); err != nil && ps.logger != nil {
			ps.logger.LogError(err, "Failed to close prompt file watcher")
		}
	}()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !isPromptEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			if err := ps.Reload(); err != nil && ps.logger != nil {
				ps.logger.LogError(err, "Failed to reload prompt files", "dir", ps.dir)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			if ps.logger != nil {
				ps.logger.LogError(err, "Prompt file watcher error")
			}
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

func isPromptEvent(event fsnotify.Event) bool {
	if filepath.Ext(event.Name) != ".md" {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}
