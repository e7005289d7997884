package storage

import (
	"context"
	"sync"

	"github.com/buysmart/comparison/internal/domain"
)

// MemoryStorage is a thread-safe in-memory slot store. Contents are lost on restart.
type MemoryStorage struct {
	data  map[string][]byte
	mutex sync.RWMutex
}

// NewMemoryStorage creates a new in-memory slot store
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		data: make(map[string][]byte),
	}
}

// Get returns a copy of the value stored at key
func (m *MemoryStorage) Get(ctx context.Context, key string) ([]byte, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	value, exists := m.data[key]
	if !exists {
		return nil, domain.ErrSlotNotFound
	}

	return append([]byte(nil), value...), nil
}

// Put overwrites the value stored at key
func (m *MemoryStorage) Put(ctx context.Context, key string, value []byte) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	// Copy so later mutation of the caller's buffer cannot leak in
	m.data[key] = append([]byte(nil), value...)
	return nil
}

// Close is a no-op
func (m *MemoryStorage) Close() error {
	return nil
}

// Ping always succeeds
func (m *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}
