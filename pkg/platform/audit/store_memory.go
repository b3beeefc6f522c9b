package audit

import (
	"context"
	"sync"

	id "nagrik/pkg/domain"
)

// InMemoryStore keeps audit events in process memory. Suitable for tests and
// single-instance deployments; production should fan out to Kafka.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []Event
}

var _ Store = (*InMemoryStore)(nil)

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *InMemoryStore) ListByUser(_ context.Context, userID id.UserID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Event
	for _, e := range s.events {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}
