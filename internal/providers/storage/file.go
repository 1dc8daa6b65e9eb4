package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// File stores each key as <dir>/<key>.json.
// Reads go through an in-memory cache that is updated on every write.
type File struct {
	dir   string
	cache sync.Map
	mu    sync.Mutex // serializes writers
}

// NewFile creates a file-backed store rooted at dir, creating it if needed
func NewFile(dir string) (*File, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &File{dir: dir}, nil
}

func (f *File) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if cached, ok := f.cache.Load(key); ok {
		return append([]byte(nil), cached.([]byte)...), nil
	}

	data, err := os.ReadFile(f.keyPath(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read failed: %w", err)
	}

	f.cache.Store(key, data)
	return append([]byte(nil), data...), nil
}

func (f *File) Set(ctx context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	// Write to a temp file and rename so readers never see a partial value
	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write failed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write failed: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.keyPath(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write failed: %w", err)
	}

	f.cache.Store(key, append([]byte(nil), value...))
	return nil
}

func (f *File) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.keyPath(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete failed: %w", err)
	}
	f.cache.Delete(key)
	return nil
}

// Close is a no-op; every Set is already durable
func (f *File) Close() error { return nil }

// Dir returns the root directory
func (f *File) Dir() string {
	return f.dir
}

func (f *File) keyPath(key string) string {
	return filepath.Join(f.dir, key+".json")
}
