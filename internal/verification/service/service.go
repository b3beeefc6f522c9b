// Package service orchestrates the verification pipeline for each document
// type: structural validation, attempt history, OCR extraction, match
// scoring, face comparison (Aadhaar), fraud scoring, and the final decision.
package service

import (
	"context"
	"errors"
	"log/slog"

	"nagrik/internal/attempts"
	"nagrik/internal/face"
	"nagrik/internal/fraud"
	"nagrik/internal/ocr"
	"nagrik/internal/verification/metrics"
	"nagrik/internal/verification/models"
	"nagrik/internal/verification/store"
	"nagrik/internal/verification/tracer"
	id "nagrik/pkg/domain"
	dErrors "nagrik/pkg/domain-errors"
	"nagrik/pkg/platform/audit"
)

// OCRAdapter extracts structured fields from a document image.
type OCRAdapter interface {
	Extract(ctx context.Context, documentType id.DocumentType, image []byte) *ocr.Extraction
}

// FaceComparer compares the document photo against the selfie.
type FaceComparer interface {
	Compare(ctx context.Context, documentImage, selfie []byte) *face.ComparisonResult
}

// FraudEngine scores an assembled signal vector.
type FraudEngine interface {
	Analyze(ctx context.Context, signals fraud.Signals) *fraud.Analysis
}

// AttemptTracker checks and records submission history.
type AttemptTracker interface {
	Check(ctx context.Context, userID id.UserID, documentType, contentHash string) (*attempts.Result, error)
	RecordDecision(ctx context.Context, attempt attempts.Attempt) error
}

// ObjectStore archives submitted document images.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// AuditPublisher emits audit events for each pipeline step.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service runs the verification pipeline.
type Service struct {
	ocr      OCRAdapter
	face     FaceComparer
	fraud    FraudEngine
	attempts AttemptTracker
	objects  ObjectStore
	results  store.ResultStore
	audit    AuditPublisher
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   tracer.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.audit = publisher
	}
}

// WithObjectStore enables best-effort document archiving.
func WithObjectStore(objects ObjectStore) Option {
	return func(s *Service) {
		s.objects = objects
	}
}

// WithFaceComparer enables face comparison on the Aadhaar path.
func WithFaceComparer(comparer FaceComparer) Option {
	return func(s *Service) {
		s.face = comparer
	}
}

// WithTracer sets the distributed tracer for pipeline spans.
func WithTracer(t tracer.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// New creates a verification service.
func New(ocrAdapter OCRAdapter, fraudEngine FraudEngine, tracker AttemptTracker, results store.ResultStore, opts ...Option) *Service {
	s := &Service{
		ocr:      ocrAdapter,
		fraud:    fraudEngine,
		attempts: tracker,
		results:  results,
		logger:   slog.Default(),
		tracer:   tracer.NewNoop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetVerification loads a stored result. Users can only read their own.
func (s *Service) GetVerification(ctx context.Context, userID id.UserID, verificationID string) (*models.VerificationResult, error) {
	result, err := s.results.FindByID(ctx, verificationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "verification not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load verification")
	}
	if result.UserID != userID {
		// Existence of another user's verification is not disclosed.
		return nil, dErrors.New(dErrors.CodeNotFound, "verification not found")
	}
	return result, nil
}

// ListVerifications returns the caller's recent results, newest first.
func (s *Service) ListVerifications(ctx context.Context, userID id.UserID, limit int) ([]*models.VerificationResult, error) {
	results, err := s.results.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list verifications")
	}
	return results, nil
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			slog.String("action", event.Action),
			slog.String("error", err.Error()))
	}
}

func (s *Service) recordCollaboratorFailure(collaborator string) {
	if s.metrics != nil {
		s.metrics.RecordCollaboratorFailure(collaborator)
	}
}
