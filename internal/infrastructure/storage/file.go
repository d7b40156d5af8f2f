package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/example/table-booker/internal/internaltypes"
)

// File keeps one JSON file per key under Dir.
type File struct {
	Dir string
}

func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage dir %s: %w", dir, err)
	}
	return &File{Dir: dir}, nil
}

// path escapes the key so namespaced keys ("site-a:tableBookings") map to
// names that are valid on every platform.
func (f *File) path(key string) string {
	return filepath.Join(f.Dir, url.QueryEscape(key)+".json")
}

func (f *File) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, internaltypes.ErrNotFound
	}
	return b, err
}

// Set writes to a temp file and renames it over the old value, so readers see
// either the previous or the new value in full.
func (f *File) Set(ctx context.Context, key string, value []byte) error {
	tmp, err := os.CreateTemp(f.Dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path(key))
}

func (f *File) Close() error { return nil }
