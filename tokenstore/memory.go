package tokenstore

import (
	"context"
	"sync"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps the token for the lifetime of the process.
type MemoryStore struct {
	token string
	lock  sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Get(_ context.Context) (string, error) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if m.token == "" {
		return "", ErrNotFound
	}
	return m.token, nil
}

func (m *MemoryStore) Set(_ context.Context, token string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.token = token
	return nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.token = ""
	return nil
}
