package store

import (
	"context"
	"sync"
)

// MemoryStore keeps values in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	values   map[string]string
	maxBytes int
}

func NewMemoryStore(maxBytes int) *MemoryStore {
	return &MemoryStore{values: make(map[string]string), maxBytes: maxBytes}
}

func (m *MemoryStore) Load(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Save(_ context.Context, key, value string) error {
	if err := checkQuota(key, value, m.maxBytes); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Close() error { return nil }
