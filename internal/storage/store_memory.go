package storage

import (
	"context"
	"sync"
)

// InMemoryStore implements ObjectStore for tests and local development.
type InMemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewInMemoryStore creates an empty in-memory object store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{objects: make(map[string][]byte)}
}

// Put stores a copy of the document bytes.
func (s *InMemoryStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.objects[key] = cp
	return nil
}

// Get returns the stored bytes for a key.
func (s *InMemoryStore) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	return data, ok
}

// Len returns the number of stored objects.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
