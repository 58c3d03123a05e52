package archive

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"time"

	"resumeforge/internal/config"
	"resumeforge/internal/errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// presignTTL is how long the Location of an uploaded object stays valid
const presignTTL = time.Hour

// S3Store writes documents to an S3 bucket. Credentials come from the default
// AWS chain (environment, shared config, instance role).
type S3Store struct {
	client *s3.S3
	bucket string
	prefix string
	logger *errors.Logger
}

var _ Store = (*S3Store)(nil)

// NewS3Store creates an S3 client for cfg.Region. A non-empty cfg.Endpoint
// selects an S3-compatible service with path-style addressing.
func NewS3Store(cfg config.ExportConfig, logger *errors.Logger) (*S3Store, error) {
	awsCfg := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, errors.NewConfigError(errors.ErrCodeInvalidConfig, "failed to create AWS session", err)
	}
	return newS3Store(s3.New(sess), cfg, logger), nil
}

func newS3Store(client *s3.S3, cfg config.ExportConfig, logger *errors.Logger) *S3Store {
	return &S3Store{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix, logger: logger}
}

func (s *S3Store) objectKey(key string) (string, error) {
	key = cleanKey(key)
	if key == "" {
		return "", invalidKey(key)
	}
	return s.prefix + key, nil
}

func (s *S3Store) Put(ctx context.Context, key string, data []byte, contentType string) (*Object, error) {
	objKey, err := s.objectKey(key)
	if err != nil {
		return nil, err
	}

	_, err = s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, errors.NewNetworkError(errors.ErrCodeExportFailed, "failed to upload to S3", err).
			WithContext("key", objKey)
	}

	obj := &Object{Key: objKey, Size: len(data)}
	req, _ := s.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objKey),
	})
	if url, err := req.Presign(presignTTL); err == nil {
		obj.Location = url
	} else if s.logger != nil {
		s.logger.Warn("Failed to presign archived document", "key", objKey, "error", err.Error())
	}

	if s.logger != nil {
		s.logger.Info("Archived document", "backend", "s3", "bucket", s.bucket, "key", objKey, "size", len(data))
	}
	return obj, nil
}

func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	objKey, err := s.objectKey(key)
	if err != nil {
		return nil, err
	}

	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objKey),
	})
	if err != nil {
		var aerr awserr.Error
		if stderrors.As(err, &aerr) && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil, errors.NewNotFoundError(errors.ErrCodeNotFound, "archived document not found", err)
		}
		return nil, errors.NewNetworkError(errors.ErrCodeExportFailed, "failed to download from S3", err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, errors.NewNetworkError(errors.ErrCodeExportFailed, "failed to read S3 object", err)
	}
	return data, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	objKey, err := s.objectKey(key)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objKey),
	})
	if err != nil {
		return errors.NewNetworkError(errors.ErrCodeExportFailed, "failed to delete from S3", err)
	}
	return nil
}
