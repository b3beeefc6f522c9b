// Package handler exposes the verification pipeline over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"nagrik/internal/verification/models"
	id "nagrik/pkg/domain"
	dErrors "nagrik/pkg/domain-errors"
	"nagrik/pkg/platform/audit"
	"nagrik/pkg/platform/httputil"
	"nagrik/pkg/platform/middleware/request"
)

// VerificationService defines the pipeline operations used by handlers.
type VerificationService interface {
	VerifyAadhaar(ctx context.Context, userID id.UserID, req *models.AadhaarRequest) (*models.VerificationResult, error)
	VerifyPAN(ctx context.Context, userID id.UserID, req *models.PANRequest) (*models.VerificationResult, error)
	VerifyPassbook(ctx context.Context, userID id.UserID, req *models.PassbookRequest) (*models.VerificationResult, error)
	VerifyIncomeCertificate(ctx context.Context, userID id.UserID, req *models.IncomeCertificateRequest) (*models.VerificationResult, error)
	GetVerification(ctx context.Context, userID id.UserID, verificationID string) (*models.VerificationResult, error)
	ListVerifications(ctx context.Context, userID id.UserID, limit int) ([]*models.VerificationResult, error)
}

// AuditLister exposes a caller's audit trail. Write-only sinks may reject
// reads; the handler surfaces that as an error.
type AuditLister interface {
	List(ctx context.Context, userID id.UserID) ([]audit.Event, error)
}

// Handler handles HTTP requests for document verification.
type Handler struct {
	service  VerificationService
	auditLog AuditLister
	logger   *slog.Logger
}

// Option configures the Handler.
type Option func(*Handler)

// WithAuditLog enables the per-user audit trail endpoint.
func WithAuditLog(lister AuditLister) Option {
	return func(h *Handler) {
		h.auditLog = lister
	}
}

// New creates a verification handler.
func New(service VerificationService, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{
		service: service,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the handler routes on the given router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/verify/aadhaar", h.HandleVerifyAadhaar)
	r.Post("/verify/pan", h.HandleVerifyPAN)
	r.Post("/verify/passbook", h.HandleVerifyPassbook)
	r.Post("/verify/income-certificate", h.HandleVerifyIncomeCertificate)
	r.Get("/verifications", h.HandleListVerifications)
	r.Get("/verifications/{verificationID}", h.HandleGetVerification)
	if h.auditLog != nil {
		r.Get("/audit-events", h.HandleListAuditEvents)
	}
}

// HandleVerifyAadhaar handles POST /verify/aadhaar requests.
func (h *Handler) HandleVerifyAadhaar(w http.ResponseWriter, r *http.Request) {
	handleVerify(h, w, r, h.service.VerifyAadhaar)
}

// HandleVerifyPAN handles POST /verify/pan requests.
func (h *Handler) HandleVerifyPAN(w http.ResponseWriter, r *http.Request) {
	handleVerify(h, w, r, h.service.VerifyPAN)
}

// HandleVerifyPassbook handles POST /verify/passbook requests.
func (h *Handler) HandleVerifyPassbook(w http.ResponseWriter, r *http.Request) {
	handleVerify(h, w, r, h.service.VerifyPassbook)
}

// HandleVerifyIncomeCertificate handles POST /verify/income-certificate requests.
func (h *Handler) HandleVerifyIncomeCertificate(w http.ResponseWriter, r *http.Request) {
	handleVerify(h, w, r, h.service.VerifyIncomeCertificate)
}

// handleVerify is the shared decode/verify/respond flow for all four
// document types.
func handleVerify[T any](h *Handler, w http.ResponseWriter, r *http.Request, verify func(context.Context, id.UserID, *T) (*models.VerificationResult, error)) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	userID, err := httputil.RequireUserID(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.DecodeAndPrepare[T](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := verify(ctx, userID, req)
	if err != nil {
		h.logger.ErrorContext(ctx, "verification failed",
			"request_id", requestID,
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, result)
}

// HandleGetVerification handles GET /verifications/{verificationID} requests.
func (h *Handler) HandleGetVerification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	userID, err := httputil.RequireUserID(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	verificationID := chi.URLParam(r, "verificationID")
	if verificationID == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "missing verification id"))
		return
	}

	result, err := h.service.GetVerification(ctx, userID, verificationID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, result)
}

// HandleListVerifications handles GET /verifications requests.
func (h *Handler) HandleListVerifications(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	userID, err := httputil.RequireUserID(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	results, err := h.service.ListVerifications(ctx, userID, 50)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, http.StatusOK, results)
}

// auditEventResponse is the API shape of an audit event. The caller's own
// user ID is implicit and omitted.
type auditEventResponse struct {
	Timestamp      time.Time `json:"timestamp"`
	Action         string    `json:"action"`
	DocumentType   string    `json:"documentType,omitempty"`
	VerificationID string    `json:"verificationId,omitempty"`
	Decision       string    `json:"decision,omitempty"`
	Reason         string    `json:"reason,omitempty"`
	RequestID      string    `json:"requestId,omitempty"`
}

// HandleListAuditEvents handles GET /audit-events requests.
func (h *Handler) HandleListAuditEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := request.GetRequestID(ctx)

	userID, err := httputil.RequireUserID(ctx, h.logger, requestID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	events, err := h.auditLog.List(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "audit trail read failed",
			"request_id", requestID,
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "list audit events"))
		return
	}

	response := make([]auditEventResponse, 0, len(events))
	for _, event := range events {
		response = append(response, auditEventResponse{
			Timestamp:      event.Timestamp,
			Action:         event.Action,
			DocumentType:   event.DocumentType,
			VerificationID: event.VerificationID,
			Decision:       event.Decision,
			Reason:         event.Reason,
			RequestID:      event.RequestID,
		})
	}

	httputil.WriteSuccess(w, http.StatusOK, response)
}
