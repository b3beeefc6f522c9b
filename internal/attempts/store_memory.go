package attempts

import (
	"context"
	"sync"
	"time"

	id "nagrik/pkg/domain"
)

// InMemoryStore implements Store with per-key sliding windows.
// For production, use RedisStore instead.
type InMemoryStore struct {
	mu      sync.RWMutex
	byUser  map[string][]Attempt // userID:documentType -> attempts, oldest first
	maxKeep time.Duration
}

// NewInMemoryStore creates an in-memory attempt store. Entries older than
// maxKeep are pruned on write.
func NewInMemoryStore(maxKeep time.Duration) *InMemoryStore {
	return &InMemoryStore{
		byUser:  make(map[string][]Attempt),
		maxKeep: maxKeep,
	}
}

// Record appends an attempt and prunes entries outside the retention window.
func (s *InMemoryStore) Record(ctx context.Context, attempt Attempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := attemptKey(attempt.UserID, attempt.DocumentType)
	s.byUser[key] = pruneBefore(append(s.byUser[key], attempt), attempt.At.Add(-s.maxKeep))
	return nil
}

// CountSince returns the number of attempts for the user and document type
// strictly after the cutoff.
func (s *InMemoryStore) CountSince(ctx context.Context, userID id.UserID, documentType string, cutoff time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, a := range s.byUser[attemptKey(userID, documentType)] {
		if a.At.After(cutoff) {
			count++
		}
	}
	return count, nil
}

// HasDocumentHash reports whether the user submitted a document with the given
// content hash after the cutoff, for any document type.
func (s *InMemoryStore) HasDocumentHash(ctx context.Context, userID id.UserID, contentHash string, cutoff time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	prefix := userID.String() + ":"
	for key, attemptList := range s.byUser {
		if len(key) < len(prefix) || key[:len(prefix)] != prefix {
			continue
		}
		for _, a := range attemptList {
			if a.ContentHash == contentHash && a.At.After(cutoff) {
				return true, nil
			}
		}
	}
	return false, nil
}

func pruneBefore(attemptList []Attempt, cutoff time.Time) []Attempt {
	i := 0
	for ; i < len(attemptList); i++ {
		if attemptList[i].At.After(cutoff) {
			break
		}
	}
	return attemptList[i:]
}

func attemptKey(userID id.UserID, documentType string) string {
	return userID.String() + ":" + documentType
}
