package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// PublicPath is the URL prefix the disk store's files are served under.
const PublicPath = "/images"

// DiskStore keeps images in a local directory.
type DiskStore struct {
	dir string
}

// NewDiskStore creates dir if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create image dir: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Dir returns the directory images are written to.
func (d *DiskStore) Dir() string { return d.dir }

func (d *DiskStore) Put(ctx context.Context, obj Object) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key := newKey(obj.ContentType)
	f, err := os.OpenFile(filepath.Join(d.dir, key), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("create image: %w", err)
	}
	if _, err := io.Copy(f, obj.Body); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("write image: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("close image: %w", err)
	}
	return key, nil
}

func (d *DiskStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if strings.ContainsAny(key, `/\`) || key == ".." {
		return fmt.Errorf("invalid image key %q", key)
	}
	err := os.Remove(filepath.Join(d.dir, key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (d *DiskStore) URL(origin, key string) string {
	return strings.TrimRight(origin, "/") + PublicPath + "/" + key
}
