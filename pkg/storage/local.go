package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
)

type LocalStore struct {
	root    string
	baseURL string
}

// NewLocalStore stores objects under root and builds URLs from baseURL
// (e.g. "/uploads"). Intended for development.
func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *LocalStore) Put(_ context.Context, objectPath, _ string, r io.Reader) (string, error) {
	full := filepath.Join(s.root, filepath.FromSlash(objectPath))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(full)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return s.baseURL + "/" + objectPath, nil
}

func (s *LocalStore) Open(_ context.Context, objectPath string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.root, filepath.FromSlash(objectPath)))
}

func (s *LocalStore) Delete(_ context.Context, objectPath string) error {
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(objectPath)))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
