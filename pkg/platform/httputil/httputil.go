package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	id "nagrik/pkg/domain"
	dErrors "nagrik/pkg/domain-errors"
	"nagrik/pkg/platform/middleware/auth"
)

func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so we ignore encoding errors.
	// The response body may be incomplete, but headers are already sent.
	_ = json.NewEncoder(w).Encode(response)
}

// Envelope is the uniform response wrapper for every endpoint.
type Envelope struct {
	Success bool           `json:"success"`
	Data    any            `json:"data,omitempty"`
	Error   *ErrorEnvelope `json:"error,omitempty"`
}

// ErrorEnvelope carries the failure message and optional detail.
type ErrorEnvelope struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// WriteSuccess writes a success envelope around the payload.
func WriteSuccess(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, Envelope{Success: true, Data: data})
}

// WriteError centralizes domain error translation to HTTP responses.
// It translates transport-agnostic domain errors into HTTP status codes and
// failure envelopes. Internal error details are never leaked to clients.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		status := DomainCodeToHTTPStatus(domainErr.Code)
		message := domainErr.Message
		if status >= http.StatusInternalServerError || message == "" {
			message = "internal server error"
		}
		WriteJSON(w, status, Envelope{Success: false, Error: &ErrorEnvelope{
			Message: message,
			Details: string(domainErr.Code),
		}})
		return
	}

	// Fallback for unexpected errors
	WriteJSON(w, http.StatusInternalServerError, Envelope{Success: false, Error: &ErrorEnvelope{
		Message: "internal server error",
		Details: string(dErrors.CodeInternal),
	}})
}

// DomainCodeToHTTPStatus translates domain error codes to HTTP status codes.
func DomainCodeToHTTPStatus(code dErrors.Code) int {
	switch code {
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeBadRequest, dErrors.CodeValidation, dErrors.CodeInvalidInput, dErrors.CodeInvariantViolation:
		return http.StatusBadRequest
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeForbidden:
		return http.StatusForbidden
	case dErrors.CodeRateLimited:
		return http.StatusTooManyRequests
	case dErrors.CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// RequireUserID extracts the authenticated user ID from context.
// Returns a domain error suitable for HTTP response on failure.
// This centralizes auth context extraction for handlers.
func RequireUserID(ctx context.Context, logger *slog.Logger, requestID string) (id.UserID, error) {
	userID := auth.GetUserID(ctx)
	if userID.IsNil() {
		if logger != nil {
			logger.ErrorContext(ctx, "userID missing from context despite auth middleware",
				"request_id", requestID)
		}
		return id.UserID{}, dErrors.New(dErrors.CodeInternal, "authentication context error")
	}
	return userID, nil
}
