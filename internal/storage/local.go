package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"file_integrity_backend/internal/integrity"
)

// LocalStorage implements Storage interface for local filesystem
type LocalStorage struct {
	basePath string
	maxSize  int64
}

// NewLocalStorage creates the base directory if needed
func NewLocalStorage(cfg Config) (*LocalStorage, error) {
	if cfg.BasePath == "" {
		cfg.BasePath = "uploads"
	}

	if err := os.MkdirAll(cfg.BasePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: cfg.BasePath,
		maxSize:  cfg.MaxSize,
	}, nil
}

// Save пишет во временный файл и атомарно переименовывает его.
func (s *LocalStorage) Save(ctx context.Context, originalName string, content []byte) (string, int64, error) {
	if err := checkSize(content, s.maxSize); err != nil {
		return "", 0, err
	}
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	fullPath := filepath.Join(s.basePath, GenerateName(originalName))

	tmp, err := os.CreateTemp(s.basePath, ".upload-*")
	if err != nil {
		return "", 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(content); err != nil {
		cleanup()
		return "", 0, fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		cleanup()
		return "", 0, fmt.Errorf("failed to sync file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", 0, fmt.Errorf("failed to close file: %w", err)
	}
	if err := os.Rename(tmpName, fullPath); err != nil {
		os.Remove(tmpName)
		return "", 0, fmt.Errorf("failed to move file into place: %w", err)
	}

	return fullPath, int64(len(content)), nil
}

func (s *LocalStorage) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrObjectNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

func (s *LocalStorage) Exists(ctx context.Context, path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

func (s *LocalStorage) Delete(ctx context.Context, path string) (bool, error) {
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete file: %w", err)
	}
	return true, nil
}

func (s *LocalStorage) Name(path string) string {
	return filepath.Base(path)
}

// Digest hashes the blob straight from disk.
func (s *LocalStorage) Digest(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	sum, err := integrity.DigestFile(path)
	if errors.Is(err, integrity.ErrNotFound) {
		return "", ErrObjectNotFound
	}
	return sum, err
}
