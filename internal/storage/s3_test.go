package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 - минимальный path-style S3 для тестов
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := strings.TrimPrefix(r.URL.Path, "/")
	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[key] = body
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet, http.MethodHead:
		body, ok := f.objects[key]
		if !ok {
			if r.Method == http.MethodHead {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(body)))
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodGet {
			w.Write(body)
		}
	case http.MethodDelete:
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestS3(t *testing.T, maxSize int64) (*S3Storage, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: make(map[string][]byte)}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	s, err := NewS3Storage(context.Background(), Config{
		Bucket:    "integrity",
		Region:    "us-east-1",
		AccessKey: "test",
		SecretKey: "test",
		Endpoint:  srv.URL,
		MaxSize:   maxSize,
	})
	require.NoError(t, err)
	return s, fake
}

func TestS3Storage_SaveOpenDelete(t *testing.T) {
	ctx := context.Background()
	s, fake := newTestS3(t, 1024)

	key, size, err := s.Save(ctx, "doc.txt", []byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), size)
	assert.Contains(t, fake.objects, "integrity/"+key)

	exists, err := s.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := s.Open(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))

	deleted, err := s.Delete(ctx, key)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = s.Delete(ctx, key)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, err = s.Open(ctx, key)
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestS3Storage_RejectsTooLarge(t *testing.T) {
	s, fake := newTestS3(t, 2)

	_, _, err := s.Save(context.Background(), "big", []byte("abc"))
	assert.ErrorIs(t, err, ErrFileTooLarge)
	assert.Empty(t, fake.objects)
}

func TestNewStorage_UnknownType(t *testing.T) {
	_, err := NewStorage(context.Background(), Config{Type: "ftp"})
	assert.Error(t, err)
}
