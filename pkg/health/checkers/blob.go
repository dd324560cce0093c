package checkers

import (
	"context"
	"os"
)

// BlobDirChecker verifies the resume upload directory exists and is a
// directory. Resume intake is down without it even when postgres is up.
type BlobDirChecker struct {
	dir string
}

func NewBlobDirChecker(dir string) *BlobDirChecker {
	return &BlobDirChecker{dir: dir}
}

func (c *BlobDirChecker) Name() string { return "blob-dir" }

func (c *BlobDirChecker) Check(ctx context.Context) error {
	info, err := os.Stat(c.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return os.ErrInvalid
	}
	return nil
}
