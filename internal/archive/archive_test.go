package archive

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"resumeforge/internal/config"
	"resumeforge/internal/errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	s, err := New(config.ExportConfig{Backend: config.ExportNone}, nil)
	require.NoError(t, err)
	assert.Nil(t, s)

	s, err = New(config.ExportConfig{Backend: config.ExportLocal, Dir: t.TempDir()}, nil)
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, s)

	_, err = New(config.ExportConfig{Backend: "ftp"}, nil)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewLocalStore(dir, nil)
	require.NoError(t, err)

	key := Key("user-1", "version-1")
	obj, err := s.Put(ctx, key, []byte("docx bytes"), DocxContentType)
	require.NoError(t, err)
	assert.Equal(t, "user-1/version-1.docx", obj.Key)
	assert.Equal(t, filepath.Join(dir, "user-1", "version-1.docx"), obj.Location)
	assert.Equal(t, 10, obj.Size)

	data, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "docx bytes", string(data))

	_, err = os.Stat(obj.Location + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should be renamed away")

	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key), "deleting twice is not an error")

	_, err = s.Get(ctx, key)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
}

func TestLocalStoreRejectsEscapingKeys(t *testing.T) {
	s, err := NewLocalStore(t.TempDir(), nil)
	require.NoError(t, err)

	for _, key := range []string{"", "../outside.docx", "a/../../b.docx"} {
		_, err := s.Put(context.Background(), key, []byte("x"), DocxContentType)
		assert.True(t, errors.IsType(err, errors.ErrorTypeValidation), "key %q", key)
	}
}

// fakeS3 serves path-style object requests from memory
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	path := strings.TrimPrefix(r.URL.Path, "/")

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[path] = body
		f.types[path] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		body, ok := f.objects[path]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`))
			return
		}
		_, _ = w.Write(body)
	case http.MethodDelete:
		delete(f.objects, path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func TestS3Store(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	srv := httptest.NewServer(fake)
	defer srv.Close()

	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String("us-east-1"),
		Endpoint:         aws.String(srv.URL),
		S3ForcePathStyle: aws.Bool(true),
		Credentials:      credentials.NewStaticCredentials("id", "secret", ""),
	})
	require.NoError(t, err)

	cfg := config.ExportConfig{Backend: config.ExportS3, Bucket: "exports", Region: "us-east-1", Prefix: "resumes/"}
	s := newS3Store(s3.New(sess), cfg, nil)
	ctx := context.Background()

	obj, err := s.Put(ctx, Key("u1", "v1"), []byte("docx"), DocxContentType)
	require.NoError(t, err)
	assert.Equal(t, "resumes/u1/v1.docx", obj.Key)
	assert.Contains(t, obj.Location, "X-Amz-Signature")

	assert.Equal(t, []byte("docx"), fake.objects["exports/resumes/u1/v1.docx"])
	assert.Equal(t, DocxContentType, fake.types["exports/resumes/u1/v1.docx"])

	data, err := s.Get(ctx, Key("u1", "v1"))
	require.NoError(t, err)
	assert.Equal(t, "docx", string(data))

	require.NoError(t, s.Delete(ctx, Key("u1", "v1")))

	_, err = s.Get(ctx, Key("u1", "v1"))
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound), "got %v", err)
}
