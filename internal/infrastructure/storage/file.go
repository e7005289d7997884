package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/buysmart/comparison/internal/domain"
)

// FileStorage keeps one JSON file per key inside a directory
type FileStorage struct {
	dir   string
	mutex sync.Mutex
}

// NewFileStorage creates the directory if needed
func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &FileStorage{dir: dir}, nil
}

func (f *FileStorage) pathFor(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("%w: bad slot key %q", domain.ErrInvalidRequest, key)
	}
	return filepath.Join(f.dir, key+".json"), nil
}

// Get reads the file backing key
func (f *FileStorage) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := f.pathFor(key)
	if err != nil {
		return nil, err
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrSlotNotFound
		}
		return nil, fmt.Errorf("read slot %s: %w", key, err)
	}
	return data, nil
}

// Put replaces the file backing key. Writes go to a temp file first so a crash never leaves a half-written slot.
func (f *FileStorage) Put(ctx context.Context, key string, value []byte) error {
	path, err := f.pathFor(key)
	if err != nil {
		return err
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()

	tmp, err := os.CreateTemp(f.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp slot: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write slot %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close slot %s: %w", key, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace slot %s: %w", key, err)
	}
	return nil
}

// Ping checks that the storage directory is still present
func (f *FileStorage) Ping(ctx context.Context) error {
	info, err := os.Stat(f.dir)
	if err != nil {
		return fmt.Errorf("stat storage dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("storage path %s is not a directory", f.dir)
	}
	return nil
}

// Close is a no-op
func (f *FileStorage) Close() error {
	return nil
}
