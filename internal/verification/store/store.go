// Package store persists verification results.
package store

import (
	"context"
	"errors"

	"nagrik/internal/verification/models"
	id "nagrik/pkg/domain"
)

// ErrNotFound is returned when no result exists for a lookup.
var ErrNotFound = errors.New("verification result not found")

// ResultStore defines the persistence interface for verification results.
type ResultStore interface {
	// Save persists a completed result. Results are immutable; saving the
	// same verification ID twice is a programming error.
	Save(ctx context.Context, result *models.VerificationResult) error

	// FindByID loads a result by verification ID.
	FindByID(ctx context.Context, verificationID string) (*models.VerificationResult, error)

	// ListByUser returns a user's results, newest first.
	ListByUser(ctx context.Context, userID id.UserID, limit int) ([]*models.VerificationResult, error)
}
