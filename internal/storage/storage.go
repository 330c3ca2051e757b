package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrObjectNotFound = errors.New("object not found")
	ErrFileTooLarge   = errors.New("file too large")
)

// Storage defines the interface for blob storage operations
type Storage interface {
	// Save stores content under a generated unique name and returns its path and size.
	// Content larger than the configured maximum is rejected before anything is written.
	Save(ctx context.Context, originalName string, content []byte) (string, int64, error)

	// Open returns a reader for the stored blob, ErrObjectNotFound if it is absent
	Open(ctx context.Context, path string) (io.ReadCloser, error)

	// Exists checks if a blob exists at the given path
	Exists(ctx context.Context, path string) (bool, error)

	// Delete removes a blob; a missing blob yields (false, nil)
	Delete(ctx context.Context, path string) (bool, error)

	// Name returns the generated filename part of a storage path
	Name(path string) string
}

// Digester is implemented by backends that can fingerprint a blob in place
// without streaming it through the caller.
type Digester interface {
	Digest(ctx context.Context, path string) (string, error)
}

// Config holds storage configuration
type Config struct {
	Type      string // local, s3
	BasePath  string // For local storage
	Bucket    string // For S3
	Region    string // For S3
	AccessKey string // For S3
	SecretKey string // For S3
	Endpoint  string // For MinIO or custom S3
	MaxSize   int64  // Max blob size in bytes
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(ctx context.Context, cfg Config) (Storage, error) {
	switch cfg.Type {
	case "local", "":
		return NewLocalStorage(cfg)
	case "s3":
		return NewS3Storage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// GenerateName returns a uuid hex name that keeps the original extension.
func GenerateName(originalName string) string {
	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	ext := filepath.Ext(filepath.Base(originalName))
	if ext == "." || len(ext) > 16 || strings.ContainsAny(ext, `/\`) {
		ext = ""
	}
	return name + ext
}

func checkSize(content []byte, maxSize int64) error {
	if maxSize > 0 && int64(len(content)) > maxSize {
		return ErrFileTooLarge
	}
	return nil
}
