package attempts

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	id "nagrik/pkg/domain"
	"nagrik/pkg/requestcontext"
)

const (
	// RetryWindow is the rolling window over which repeated submissions count.
	RetryWindow = time.Hour

	// RetryThreshold is the attempt count at which MultipleAttempts trips.
	RetryThreshold = 5

	// DedupWindow is how long a document hash marks later submissions of the
	// same bytes as duplicates.
	DedupWindow = 24 * time.Hour
)

// Store defines the persistence interface for attempt history.
type Store interface {
	// Record persists a completed attempt.
	Record(ctx context.Context, attempt Attempt) error

	// CountSince counts attempts for a user and document type after cutoff.
	CountSince(ctx context.Context, userID id.UserID, documentType string, cutoff time.Time) (int, error)

	// HasDocumentHash reports whether the user already submitted a document
	// with this content hash after cutoff.
	HasDocumentHash(ctx context.Context, userID id.UserID, contentHash string, cutoff time.Time) (bool, error)
}

// Checker evaluates a submission against the user's attempt history.
type Checker struct {
	store  Store
	logger *slog.Logger
}

type Option func(*Checker)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		c.logger = logger
	}
}

// NewChecker constructs a Checker over the given store.
func NewChecker(store Store, opts ...Option) *Checker {
	c := &Checker{
		store:  store,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Check returns the attempt history signals for a submission. It does not
// record the attempt; Record is called once the pipeline reaches a decision.
func (c *Checker) Check(ctx context.Context, userID id.UserID, documentType, contentHash string) (*Result, error) {
	now := requestcontext.Now(ctx)

	count, err := c.store.CountSince(ctx, userID, documentType, now.Add(-RetryWindow))
	if err != nil {
		return nil, fmt.Errorf("count recent attempts: %w", err)
	}

	duplicate := false
	if contentHash != "" {
		duplicate, err = c.store.HasDocumentHash(ctx, userID, contentHash, now.Add(-DedupWindow))
		if err != nil {
			return nil, fmt.Errorf("check duplicate document: %w", err)
		}
	}

	result := &Result{
		AttemptCount:      count,
		MultipleAttempts:  count >= RetryThreshold,
		DuplicateDocument: duplicate,
	}
	if result.MultipleAttempts || result.DuplicateDocument {
		c.logger.WarnContext(ctx, "attempt history flagged",
			slog.String("user_id", userID.String()),
			slog.String("document_type", documentType),
			slog.Int("attempt_count", count),
			slog.Bool("duplicate_document", duplicate))
	}
	return result, nil
}

// RecordDecision appends the completed attempt to the history.
func (c *Checker) RecordDecision(ctx context.Context, attempt Attempt) error {
	if attempt.At.IsZero() {
		attempt.At = requestcontext.Now(ctx)
	}
	if err := c.store.Record(ctx, attempt); err != nil {
		return fmt.Errorf("record attempt: %w", err)
	}
	return nil
}
