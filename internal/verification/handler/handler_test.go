package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"nagrik/internal/fraud"
	"nagrik/internal/verification/models"
	id "nagrik/pkg/domain"
	dErrors "nagrik/pkg/domain-errors"
	"nagrik/pkg/platform/audit"
	"nagrik/pkg/requestcontext"
)

// stubService returns scripted results per operation.
type stubService struct {
	result *models.VerificationResult
	err    error

	lastAadhaar *models.AadhaarRequest
}

func (s *stubService) VerifyAadhaar(_ context.Context, _ id.UserID, req *models.AadhaarRequest) (*models.VerificationResult, error) {
	s.lastAadhaar = req
	return s.result, s.err
}

func (s *stubService) VerifyPAN(context.Context, id.UserID, *models.PANRequest) (*models.VerificationResult, error) {
	return s.result, s.err
}

func (s *stubService) VerifyPassbook(context.Context, id.UserID, *models.PassbookRequest) (*models.VerificationResult, error) {
	return s.result, s.err
}

func (s *stubService) VerifyIncomeCertificate(context.Context, id.UserID, *models.IncomeCertificateRequest) (*models.VerificationResult, error) {
	return s.result, s.err
}

func (s *stubService) GetVerification(context.Context, id.UserID, string) (*models.VerificationResult, error) {
	return s.result, s.err
}

func (s *stubService) ListVerifications(context.Context, id.UserID, int) ([]*models.VerificationResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*models.VerificationResult{s.result}, nil
}

// HandlerSuite tests request decoding, the response envelope, and status
// mapping.
type HandlerSuite struct {
	suite.Suite

	service *stubService
	router  chi.Router
	userID  id.UserID
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.userID = id.NewUserID()
	s.service = &stubService{
		result: &models.VerificationResult{
			VerificationID:       "VER-1-abcd",
			DocumentType:         id.DocumentAadhaar,
			Status:               models.StatusVerified,
			StructuralValid:      true,
			OCRMatchScore:        95,
			FraudAnalysis:        &fraud.Analysis{RiskLevel: fraud.RiskLow, RecommendedAction: fraud.ActionApprove, ConfidenceScore: 95, Flags: []string{}},
			MaskedDocumentNumber: "XXXX-XXXX-2506",
		},
	}

	h := New(s.service, slog.New(slog.DiscardHandler))
	s.router = chi.NewRouter()
	// Stands in for the auth middleware.
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(requestcontext.WithUserID(r.Context(), s.userID)))
		})
	})
	s.router.Route("/v1", h.Register)
}

func (s *HandlerSuite) postJSON(path string, body any) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	s.Require().NoError(err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) decodeEnvelope(rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	var envelope map[string]json.RawMessage
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

func validAadhaarBody() map[string]string {
	return map[string]string{
		"name":          "Ramesh Kumar",
		"aadhaarNumber": "498617362506",
		"dateOfBirth":   "15/08/1990",
		"documentImage": base64.StdEncoding.EncodeToString([]byte("scan")),
	}
}

func (s *HandlerSuite) TestVerifyAadhaarSuccessEnvelope() {
	rec := s.postJSON("/v1/verify/aadhaar", validAadhaarBody())

	s.Equal(http.StatusOK, rec.Code)
	envelope := s.decodeEnvelope(rec)
	s.JSONEq(`true`, string(envelope["success"]))

	var data models.VerificationResult
	s.Require().NoError(json.Unmarshal(envelope["data"], &data))
	s.Equal("VER-1-abcd", data.VerificationID)
	s.Equal(models.StatusVerified, data.Status)
	s.Equal("XXXX-XXXX-2506", data.MaskedDocumentNumber)
}

func (s *HandlerSuite) TestMissingRequiredFieldIs400() {
	body := validAadhaarBody()
	delete(body, "aadhaarNumber")

	rec := s.postJSON("/v1/verify/aadhaar", body)

	s.Equal(http.StatusBadRequest, rec.Code)
	envelope := s.decodeEnvelope(rec)
	s.JSONEq(`false`, string(envelope["success"]))

	var errBody struct {
		Message string `json:"message"`
	}
	s.Require().NoError(json.Unmarshal(envelope["error"], &errBody))
	s.Contains(errBody.Message, "aadhaarNumber")
}

func (s *HandlerSuite) TestMalformedJSONIs400() {
	req := httptest.NewRequest(http.MethodPost, "/v1/verify/pan", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestUnexpectedServiceErrorIs500() {
	s.service.err = dErrors.New(dErrors.CodeInternal, "pipeline broke")

	rec := s.postJSON("/v1/verify/aadhaar", validAadhaarBody())

	s.Equal(http.StatusInternalServerError, rec.Code)
	envelope := s.decodeEnvelope(rec)
	s.JSONEq(`false`, string(envelope["success"]))

	var errBody struct {
		Message string `json:"message"`
	}
	s.Require().NoError(json.Unmarshal(envelope["error"], &errBody))
	s.Equal("internal server error", errBody.Message)
}

func (s *HandlerSuite) TestRequestNormalizationRuns() {
	body := validAadhaarBody()
	body["name"] = "  Ramesh Kumar  "

	rec := s.postJSON("/v1/verify/aadhaar", body)

	s.Equal(http.StatusOK, rec.Code)
	s.Require().NotNil(s.service.lastAadhaar)
	s.Equal("Ramesh Kumar", s.service.lastAadhaar.Name)
}

func (s *HandlerSuite) TestGetVerification() {
	req := httptest.NewRequest(http.MethodGet, "/v1/verifications/VER-1-abcd", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusOK, rec.Code)

	s.Run("not found maps to 404", func() {
		s.service.err = dErrors.New(dErrors.CodeNotFound, "verification not found")
		req := httptest.NewRequest(http.MethodGet, "/v1/verifications/VER-missing", nil)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		s.Equal(http.StatusNotFound, rec.Code)
		s.service.err = nil
	})
}

func (s *HandlerSuite) TestListVerifications() {
	req := httptest.NewRequest(http.MethodGet, "/v1/verifications", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	s.Equal(http.StatusOK, rec.Code)
	envelope := s.decodeEnvelope(rec)

	var data []*models.VerificationResult
	s.Require().NoError(json.Unmarshal(envelope["data"], &data))
	s.Len(data, 1)
}

type stubAuditLog struct {
	events []audit.Event
	err    error
}

func (s *stubAuditLog) List(context.Context, id.UserID) ([]audit.Event, error) {
	return s.events, s.err
}

func (s *HandlerSuite) TestListAuditEvents() {
	lister := &stubAuditLog{events: []audit.Event{
		{UserID: s.userID, Action: "verification.received"},
		{UserID: s.userID, Action: "verification.decided"},
	}}
	h := New(s.service, slog.New(slog.DiscardHandler), WithAuditLog(lister))
	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(requestcontext.WithUserID(r.Context(), s.userID)))
		})
	})
	router.Route("/v1", h.Register)

	req := httptest.NewRequest(http.MethodGet, "/v1/audit-events", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	s.Equal(http.StatusOK, rec.Code)
	envelope := s.decodeEnvelope(rec)

	var events []struct {
		Action string `json:"action"`
	}
	s.Require().NoError(json.Unmarshal(envelope["data"], &events))
	s.Require().Len(events, 2)
	s.Equal("verification.received", events[0].Action)

	s.Run("write-only sink maps to 500", func() {
		lister.err = dErrors.New(dErrors.CodeInternal, "sink is write-only")
		req := httptest.NewRequest(http.MethodGet, "/v1/audit-events", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		s.Equal(http.StatusInternalServerError, rec.Code)
		lister.err = nil
	})

	s.Run("endpoint absent without audit log", func() {
		req := httptest.NewRequest(http.MethodGet, "/v1/audit-events", nil)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		s.Equal(http.StatusNotFound, rec.Code)
	})
}

func (s *HandlerSuite) TestMissingAuthContextIs500() {
	// A router without the user ID middleware simulates a broken auth chain.
	h := New(s.service, slog.New(slog.DiscardHandler))
	router := chi.NewRouter()
	router.Route("/v1", h.Register)

	payload, _ := json.Marshal(validAadhaarBody())
	req := httptest.NewRequest(http.MethodPost, "/v1/verify/aadhaar", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	s.Equal(http.StatusInternalServerError, rec.Code)
}
