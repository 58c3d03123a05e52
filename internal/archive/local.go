package archive

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"resumeforge/internal/errors"
)

// LocalStore writes documents below a directory
type LocalStore struct {
	dir    string
	logger *errors.Logger
}

var _ Store = (*LocalStore)(nil)

// NewLocalStore creates dir if needed
func NewLocalStore(dir string, logger *errors.Logger) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, errors.NewIOError(errors.ErrCodeExportFailed, "failed to create export directory", err).
			WithContext("dir", dir)
	}
	return &LocalStore{dir: dir, logger: logger}, nil
}

func (s *LocalStore) path(key string) (string, error) {
	key = cleanKey(key)
	if key == "" || !filepath.IsLocal(key) {
		return "", invalidKey(key)
	}
	return filepath.Join(s.dir, filepath.FromSlash(key)), nil
}

func (s *LocalStore) Put(_ context.Context, key string, data []byte, _ string) (*Object, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, errors.NewIOError(errors.ErrCodeExportFailed, "failed to create export directory", err)
	}

	// Write to a temp file first so readers never see a partial document.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return nil, errors.NewIOError(errors.ErrCodeExportFailed, "failed to write export", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return nil, errors.NewIOError(errors.ErrCodeExportFailed, "failed to write export", err)
	}

	if s.logger != nil {
		s.logger.Debug("Archived document", "backend", "local", "path", path, "size", len(data))
	}
	return &Object{Key: cleanKey(key), Location: path, Size: len(data)}, nil
}

func (s *LocalStore) Get(_ context.Context, key string) ([]byte, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.NewNotFoundError(errors.ErrCodeNotFound, "archived document not found", err)
	}
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable, "failed to read archived document", err)
	}
	return data, nil
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return errors.NewIOError(errors.ErrCodeExportFailed, "failed to delete archived document", err)
	}
	return nil
}
