package audit

import (
	"context"
	"time"

	id "nagrik/pkg/domain"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp      time.Time
	UserID         id.UserID
	Action         string
	DocumentType   string
	VerificationID string
	Decision       string
	Reason         string
	RequestID      string
}

type AuditEvent string

const (
	EventVerificationReceived  AuditEvent = "verification_received"
	EventStructuralChecked     AuditEvent = "structural_checked"
	EventDedupChecked          AuditEvent = "dedup_checked"
	EventOCRExtracted          AuditEvent = "ocr_extracted"
	EventMatchScored           AuditEvent = "match_scored"
	EventFaceCompared          AuditEvent = "face_compared"
	EventFraudScored           AuditEvent = "fraud_scored"
	EventDocumentStored        AuditEvent = "document_stored"
	EventVerificationDecided   AuditEvent = "verification_decided"
	EventVerificationRecorded  AuditEvent = "verification_recorded"
	EventVerificationFailed    AuditEvent = "verification_failed"
)

// Store persists audit events. Implementations must be append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID id.UserID) ([]Event, error)
}
