package storage

import (
	"context"
	"sync"
)

// MemoryStore keeps collections in process memory. It backs tests and the
// "memory" storage driver for throwaway environments.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

// Read returns a copy of the stored document.
func (s *MemoryStore) Read(_ context.Context, collection string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.data[collection]
	if !ok {
		return nil, ErrNotExist
	}
	return append([]byte(nil), payload...), nil
}

// Write stores a copy of the payload.
func (s *MemoryStore) Write(_ context.Context, collection string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[collection] = append([]byte(nil), payload...)
	return nil
}
