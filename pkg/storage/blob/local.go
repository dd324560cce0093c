package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps blobs on the local filesystem under a base directory.
// StorageID is the path relative to that directory.
type LocalStore struct {
	baseDir string
}

func NewLocalStore(baseDir string) *LocalStore {
	if baseDir == "" {
		baseDir = "uploads"
	}
	return &LocalStore{baseDir: baseDir}
}

func (s *LocalStore) Put(_ context.Context, data []byte, pathHint string) (Object, error) {
	rel := sanitize(pathHint)
	if rel == "" {
		return Object{}, fmt.Errorf("empty path hint")
	}
	dst := filepath.Join(s.baseDir, rel)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return Object{}, fmt.Errorf("prepare storage dir: %w", err)
	}
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return Object{}, fmt.Errorf("store blob: %w", err)
	}
	return Object{URL: "/files/" + filepath.ToSlash(rel), StorageID: filepath.ToSlash(rel)}, nil
}

func (s *LocalStore) Delete(_ context.Context, storageID string) error {
	rel := sanitize(storageID)
	if rel == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.baseDir, rel))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// sanitize strips path escapes so a hint can never leave the base dir.
func sanitize(p string) string {
	p = filepath.ToSlash(filepath.Clean("/" + p))
	return strings.TrimPrefix(p, "/")
}
