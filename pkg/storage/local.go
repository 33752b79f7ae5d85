package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStorage writes files under dir and serves them from
// publicBaseURL + "/uploads/"
type LocalStorage struct {
	dir     string
	baseURL string
}

func NewLocalStorage(dir, publicBaseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{dir: dir, baseURL: strings.TrimSuffix(publicBaseURL, "/") + "/uploads/"}, nil
}

func (s *LocalStorage) Save(_ context.Context, name, _ string, data []byte) (string, error) {
	path, err := s.path(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return s.baseURL + filepath.ToSlash(name), nil
}

// Delete removes a file previously returned by Save. URLs that do not
// belong to this storage are ignored.
func (s *LocalStorage) Delete(_ context.Context, url string) error {
	name, ok := strings.CutPrefix(url, s.baseURL)
	if !ok {
		return nil
	}
	path, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *LocalStorage) path(name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(name))
	if clean == "." || filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return "", fmt.Errorf("invalid object name %q", name)
	}
	return filepath.Join(s.dir, clean), nil
}
