package store

import (
	"context"
	"sort"
	"sync"

	"nagrik/internal/verification/models"
	id "nagrik/pkg/domain"
)

// InMemoryStore implements ResultStore for tests and local development.
type InMemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]*models.VerificationResult
	byUser  map[string][]string
}

// NewInMemoryStore creates an empty in-memory result store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID:   make(map[string]*models.VerificationResult),
		byUser: make(map[string][]string),
	}
}

// Save stores a copy of the result.
func (s *InMemoryStore) Save(ctx context.Context, result *models.VerificationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *result
	s.byID[result.VerificationID] = &cp
	userKey := result.UserID.String()
	s.byUser[userKey] = append(s.byUser[userKey], result.VerificationID)
	return nil
}

// FindByID loads a result by verification ID.
func (s *InMemoryStore) FindByID(ctx context.Context, verificationID string) (*models.VerificationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.byID[verificationID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *result
	return &cp, nil
}

// ListByUser returns a user's results, newest first.
func (s *InMemoryStore) ListByUser(ctx context.Context, userID id.UserID, limit int) ([]*models.VerificationResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byUser[userID.String()]
	results := make([]*models.VerificationResult, 0, len(ids))
	for _, verificationID := range ids {
		if r, ok := s.byID[verificationID]; ok {
			cp := *r
			results = append(results, &cp)
		}
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}
