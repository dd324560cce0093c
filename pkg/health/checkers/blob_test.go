package checkers

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestBlobDirCheckerOK(t *testing.T) {
	c := NewBlobDirChecker(t.TempDir())
	if err := c.Check(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBlobDirCheckerMissing(t *testing.T) {
	c := NewBlobDirChecker(filepath.Join(t.TempDir(), "gone"))
	if err := c.Check(context.Background()); err == nil {
		t.Fatalf("expected an error for a missing directory")
	}
}

func TestBlobDirCheckerRegularFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uploads")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	c := NewBlobDirChecker(path)
	if err := c.Check(context.Background()); err == nil {
		t.Fatalf("expected an error for a regular file")
	}
}
