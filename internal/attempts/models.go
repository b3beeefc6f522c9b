// Package attempts tracks verification submissions per user so the pipeline
// can flag rapid retries and duplicate document uploads.
package attempts

import (
	"time"

	id "nagrik/pkg/domain"
)

// Attempt is a single recorded verification submission.
type Attempt struct {
	UserID            id.UserID `json:"userId"`
	DocumentType      string    `json:"documentType"`
	ContentHash       string    `json:"contentHash"`
	VerificationID    string    `json:"verificationId"`
	Decision          string    `json:"decision"`
	IPAddress         string    `json:"ipAddress,omitempty"`
	DeviceFingerprint string    `json:"deviceFingerprint,omitempty"`
	At                time.Time `json:"at"`
}

// Result summarizes the attempt history relevant to one submission.
type Result struct {
	// AttemptCount is the number of prior attempts for the same user and
	// document type inside the rolling window, excluding the current one.
	AttemptCount int `json:"attemptCount"`

	// MultipleAttempts is set when AttemptCount crosses the retry threshold.
	MultipleAttempts bool `json:"multipleAttempts"`

	// DuplicateDocument is set when the same user already submitted a
	// byte-identical document inside the dedup window.
	DuplicateDocument bool `json:"duplicateDocument"`
}
