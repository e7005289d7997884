// Package storage provides the durable single-key slot backends the
// comparison set is persisted to.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/buysmart/comparison/config"
	"github.com/buysmart/comparison/internal/domain"
)

// Backend is a slot store that owns resources and can report its health
type Backend interface {
	domain.SlotStorage
	io.Closer
	Ping(ctx context.Context) error
}

// Open builds the backend selected by cfg.Type
func Open(ctx context.Context, cfg config.StorageConfig) (Backend, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStorage(), nil
	case "file":
		return NewFileStorage(cfg.Path)
	case "redis":
		return NewRedisStorage(ctx, cfg.RedisURL, cfg.KeyPrefix)
	case "sqlite":
		if err := os.MkdirAll(cfg.Path, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
		return NewSQLiteStorage(filepath.Join(cfg.Path, "buysmart.db"))
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
