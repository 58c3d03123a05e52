// Package archive keeps copies of exported documents in a local directory or
// an S3 bucket.
package archive

import (
	"context"
	"fmt"
	"strings"

	"resumeforge/internal/config"
	"resumeforge/internal/errors"
)

// DocxContentType is the MIME type of exported résumés
const DocxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Object describes a stored document
type Object struct {
	Key      string `json:"key"`
	Location string `json:"location"` // file path or presigned URL
	Size     int    `json:"size"`
}

// Store archives exported documents
type Store interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (*Object, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// New returns the store selected by cfg.Backend, or nil for "none"
func New(cfg config.ExportConfig, logger *errors.Logger) (Store, error) {
	switch cfg.Backend {
	case "", config.ExportNone:
		return nil, nil
	case config.ExportLocal:
		return NewLocalStore(cfg.Dir, logger)
	case config.ExportS3:
		s, err := NewS3Store(cfg, logger)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig,
			fmt.Sprintf("unsupported export backend: %s", cfg.Backend), nil)
	}
}

// Key builds the object key for an exported résumé version
func Key(userID, versionID string) string {
	return userID + "/" + versionID + ".docx"
}

func invalidKey(key string) error {
	return errors.NewValidationError(errors.ErrCodeInvalidRequest,
		fmt.Sprintf("invalid archive key %q", key), nil)
}

func cleanKey(key string) string {
	return strings.TrimPrefix(strings.TrimSpace(key), "/")
}
