package upload

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DiskStore writes uploads into a local directory served as static files.
type DiskStore struct {
	dir string
}

func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

func (s *DiskStore) Save(ctx context.Context, filename string, body io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dst := filepath.Join(s.dir, filepath.Base(filename))
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(dst)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(dst)
		return err
	}
	return nil
}

func (s *DiskStore) Remove(_ context.Context, filename string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(filename)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
