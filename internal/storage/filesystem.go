package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// ErrTooLarge is returned when an upload exceeds the configured byte limit.
var ErrTooLarge = errors.New("storage: file too large")

// FileStore persists uploaded videos on an afero filesystem and hands out
// public URLs under a base URL.
type FileStore struct {
	fs       afero.Fs
	basePath string
	baseURL  string
}

// NewFileStore initializes a FileStore rooted at basePath on fs.
func NewFileStore(fs afero.Fs, basePath, baseURL string) (*FileStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("storage: base path is required")
	}
	if err := fs.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: ensure base path: %w", err)
	}
	return &FileStore{fs: fs, basePath: basePath, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// NewOSFileStore is NewFileStore on the operating system filesystem.
func NewOSFileStore(basePath, baseURL string) (*FileStore, error) {
	return NewFileStore(afero.NewOsFs(), basePath, baseURL)
}

// BasePath returns the configured root directory.
func (s *FileStore) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// Fs exposes the underlying filesystem rooted at BasePath.
func (s *FileStore) Fs() afero.Fs {
	return afero.NewBasePathFs(s.fs, s.basePath)
}

// URL returns the public URL for a storage key.
func (s *FileStore) URL(key string) string {
	return s.baseURL + "/" + strings.TrimLeft(key, "/")
}

// Put streams r into a fresh key under dir, keeping the extension of name.
// At most limit bytes are accepted when limit is positive. The partial file
// is removed on any failure.
func (s *FileStore) Put(ctx context.Context, dir, name string, r io.Reader, limit int64) (string, int64, error) {
	if s == nil {
		return "", 0, errors.New("storage: no store configured")
	}
	if err := ctx.Err(); err != nil {
		return "", 0, err
	}
	ext := strings.ToLower(path.Ext(filepath.ToSlash(name)))
	key, err := sanitizeKey(path.Join(dir, uuid.NewString()+ext))
	if err != nil {
		return "", 0, err
	}
	fullPath := filepath.Join(s.basePath, filepath.FromSlash(key))
	if err := s.fs.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", 0, fmt.Errorf("storage: ensure directory: %w", err)
	}
	f, err := s.fs.OpenFile(fullPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", 0, fmt.Errorf("storage: create file: %w", err)
	}

	src := r
	if limit > 0 {
		src = io.LimitReader(r, limit+1)
	}
	n, copyErr := io.Copy(f, src)
	closeErr := f.Close()
	switch {
	case copyErr != nil:
		err = fmt.Errorf("storage: write file: %w", copyErr)
	case closeErr != nil:
		err = fmt.Errorf("storage: close file: %w", closeErr)
	case limit > 0 && n > limit:
		err = ErrTooLarge
	}
	if err != nil {
		_ = s.fs.Remove(fullPath)
		return "", 0, err
	}
	return key, n, nil
}

// Remove deletes key. Missing files are not an error.
func (s *FileStore) Remove(key string) error {
	cleanKey, err := sanitizeKey(key)
	if err != nil {
		return err
	}
	err = s.fs.Remove(filepath.Join(s.basePath, filepath.FromSlash(cleanKey)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: remove: %w", err)
	}
	return nil
}

// sanitizeKey normalizes a key and prevents escaping the storage root.
func sanitizeKey(key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", errors.New("storage: key is required")
	}
	key = strings.ReplaceAll(key, "\\", "/")
	key = strings.TrimPrefix(key, "./")
	key = strings.TrimLeft(key, "/")
	cleaned := path.Clean(key)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", errors.New("storage: invalid key")
	}
	return cleaned, nil
}
