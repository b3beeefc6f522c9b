// Package storage persists submitted document images to encrypted object
// storage. Uploads are best-effort: the pipeline keeps the in-memory bytes
// and continues when a write fails.
package storage

import (
	"context"
	"fmt"
	"time"

	id "nagrik/pkg/domain"
)

// ObjectStore abstracts the document archive backend.
type ObjectStore interface {
	// Put writes the document bytes under the given key.
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// DocumentKey builds the archive key for one submitted document.
func DocumentKey(userID id.UserID, documentType id.DocumentType, verificationID string, at time.Time) string {
	return fmt.Sprintf("documents/%s/%s/%s/%s", documentType, at.Format("2006/01/02"), userID.String(), verificationID)
}
