package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"nagrik/internal/attempts"
	"nagrik/internal/fraud"
	"nagrik/internal/match"
	"nagrik/internal/ocr"
	"nagrik/internal/storage"
	"nagrik/internal/validate"
	"nagrik/internal/verification/models"
	"nagrik/internal/verification/tracer"
	id "nagrik/pkg/domain"
	dErrors "nagrik/pkg/domain-errors"
	"nagrik/pkg/platform/audit"
	"nagrik/pkg/requestcontext"
)

// pipelineInput carries the per-document-type pieces into the shared runner.
type pipelineInput struct {
	documentType    id.DocumentType
	structuralValid bool
	checksumValid   bool
	maskedNumber    string
	image           []byte
	selfie          []byte

	// matchScore computes the claimed-vs-extracted blend for this type.
	matchScore func(*ocr.Extraction) int

	// redFlags returns document-type-specific forgery indicators.
	redFlags func(*ocr.Extraction) []string
}

// VerifyAadhaar runs the Aadhaar pipeline: Verhoeff structural validation,
// then the shared flow with optional selfie comparison.
func (s *Service) VerifyAadhaar(ctx context.Context, userID id.UserID, req *models.AadhaarRequest) (*models.VerificationResult, error) {
	image, err := models.DecodeImage(req.DocumentImage)
	if err != nil {
		return nil, err
	}
	var selfie []byte
	if req.SelfieImage != "" {
		if selfie, err = models.DecodeImage(req.SelfieImage); err != nil {
			return nil, err
		}
	}

	structural := validate.Aadhaar(req.AadhaarNumber)
	return s.run(ctx, userID, pipelineInput{
		documentType:    id.DocumentAadhaar,
		structuralValid: structural.IsValid,
		checksumValid:   structural.ChecksumValid,
		maskedNumber:    match.MaskAadhaar(req.AadhaarNumber),
		image:           image,
		selfie:          selfie,
		matchScore:      func(ex *ocr.Extraction) int { return aadhaarMatchScore(req, ex) },
		redFlags: func(ex *ocr.Extraction) []string {
			return documentRedFlags(id.DocumentAadhaar, ex, false)
		},
	})
}

// VerifyPAN runs the PAN pipeline.
func (s *Service) VerifyPAN(ctx context.Context, userID id.UserID, req *models.PANRequest) (*models.VerificationResult, error) {
	image, err := models.DecodeImage(req.DocumentImage)
	if err != nil {
		return nil, err
	}

	structural := validate.PAN(req.PANNumber, req.Category)
	return s.run(ctx, userID, pipelineInput{
		documentType:    id.DocumentPAN,
		structuralValid: structural.IsValid,
		checksumValid:   structural.FormatValid && !structural.DeclaredTypeMismatch,
		maskedNumber:    match.MaskPAN(req.PANNumber),
		image:           image,
		matchScore:      func(ex *ocr.Extraction) int { return panMatchScore(req, ex) },
		redFlags: func(ex *ocr.Extraction) []string {
			return documentRedFlags(id.DocumentPAN, ex, structural.DeclaredTypeMismatch)
		},
	})
}

// VerifyPassbook runs the bank passbook pipeline.
func (s *Service) VerifyPassbook(ctx context.Context, userID id.UserID, req *models.PassbookRequest) (*models.VerificationResult, error) {
	image, err := models.DecodeImage(req.DocumentImage)
	if err != nil {
		return nil, err
	}

	ifsc := validate.IFSC(req.IFSCCode)
	account := validate.AccountNumber(req.AccountNumber)
	return s.run(ctx, userID, pipelineInput{
		documentType:    id.DocumentBankPassbook,
		structuralValid: ifsc.IsValid && account.IsValid,
		checksumValid:   ifsc.IsValid && account.IsValid,
		maskedNumber:    match.MaskAccountNumber(req.AccountNumber),
		image:           image,
		matchScore:      func(ex *ocr.Extraction) int { return passbookMatchScore(req, ex) },
		redFlags: func(ex *ocr.Extraction) []string {
			return documentRedFlags(id.DocumentBankPassbook, ex, false)
		},
	})
}

// VerifyIncomeCertificate runs the income certificate pipeline.
func (s *Service) VerifyIncomeCertificate(ctx context.Context, userID id.UserID, req *models.IncomeCertificateRequest) (*models.VerificationResult, error) {
	image, err := models.DecodeImage(req.DocumentImage)
	if err != nil {
		return nil, err
	}

	// Income certificates have no checksum; structural validity is claim
	// plausibility only.
	_, parseErr := parsePositiveAmount(req.AnnualIncome)
	return s.run(ctx, userID, pipelineInput{
		documentType:    id.DocumentIncomeCertificate,
		structuralValid: parseErr == nil,
		checksumValid:   parseErr == nil,
		image:           image,
		matchScore:      func(ex *ocr.Extraction) int { return incomeMatchScore(req, ex) },
		redFlags: func(ex *ocr.Extraction) []string {
			return documentRedFlags(id.DocumentIncomeCertificate, ex, false)
		},
	})
}

// run is the shared orchestrator. It always reaches a decision when the
// request is well-formed: collaborator failures degrade, and only unexpected
// panics surface as errors (in which case no attempt is recorded).
func (s *Service) run(ctx context.Context, userID id.UserID, input pipelineInput) (result *models.VerificationResult, err error) {
	startedAt := time.Now()
	createdAt := requestcontext.Now(ctx)
	verificationID := match.NewVerificationID(createdAt)
	requestID := requestcontext.RequestID(ctx)

	ctx, span := s.tracer.Start(ctx, tracer.SpanPipeline,
		tracer.String(tracer.AttrDocumentType, input.documentType.String()),
		tracer.String(tracer.AttrVerificationID, verificationID),
		tracer.Bool(tracer.AttrStructuralValid, input.structuralValid))
	defer func() { span.End(err) }()

	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "verification pipeline panic",
				slog.String("verification_id", verificationID),
				slog.String("document_type", input.documentType.String()),
				slog.Any("panic", r))
			s.emitAudit(ctx, s.event(userID, audit.EventVerificationFailed, input.documentType, verificationID, "", "panic", requestID, createdAt))
			result = nil
			err = dErrors.New(dErrors.CodeInternal, "verification failed unexpectedly")
		}
	}()

	s.emitAudit(ctx, s.event(userID, audit.EventVerificationReceived, input.documentType, verificationID, "", "", requestID, createdAt))

	structuralDecision := "valid"
	if !input.structuralValid {
		structuralDecision = "invalid"
	}
	s.emitAudit(ctx, s.event(userID, audit.EventStructuralChecked, input.documentType, verificationID, structuralDecision, "", requestID, createdAt))

	// Attempt history. A tracker failure degrades to a clean history rather
	// than blocking the verification.
	contentHash := match.ContentHash(input.image)
	attemptState, attErr := s.attempts.Check(ctx, userID, input.documentType.String(), contentHash)
	if attErr != nil {
		s.logger.WarnContext(ctx, "attempt check failed, assuming clean history",
			slog.String("verification_id", verificationID),
			slog.String("error", attErr.Error()))
		s.recordCollaboratorFailure("attempts")
		attemptState = &attempts.Result{}
	}
	s.emitAudit(ctx, s.event(userID, audit.EventDedupChecked, input.documentType, verificationID, fmt.Sprintf("attempts=%d duplicate=%t", attemptState.AttemptCount, attemptState.DuplicateDocument), "", requestID, createdAt))
	span.AddEvent(tracer.EventDedupChecked,
		tracer.Int64("attempt_count", int64(attemptState.AttemptCount)),
		tracer.Bool("duplicate", attemptState.DuplicateDocument))

	// Best-effort archive; the pipeline continues on the in-memory bytes.
	if s.objects != nil {
		key := storage.DocumentKey(userID, input.documentType, verificationID, createdAt)
		if putErr := s.objects.Put(ctx, key, input.image, "image/jpeg"); putErr != nil {
			s.logger.WarnContext(ctx, "document archive failed, continuing",
				slog.String("verification_id", verificationID),
				slog.String("error", putErr.Error()))
			s.recordCollaboratorFailure("object_storage")
		} else {
			s.emitAudit(ctx, s.event(userID, audit.EventDocumentStored, input.documentType, verificationID, "stored", "", requestID, createdAt))
		}
	}

	extraction := s.ocr.Extract(ctx, input.documentType, input.image)
	s.emitAudit(ctx, s.event(userID, audit.EventOCRExtracted, input.documentType, verificationID, fmt.Sprintf("confidence=%d", extraction.Confidence), "", requestID, createdAt))
	span.AddEvent(tracer.EventOCRExtracted, tracer.Int64("confidence", int64(extraction.Confidence)))

	matchScore := input.matchScore(extraction)
	s.emitAudit(ctx, s.event(userID, audit.EventMatchScored, input.documentType, verificationID, fmt.Sprintf("score=%d", matchScore), "", requestID, createdAt))

	redFlags := input.redFlags(extraction)

	var faceSimilarity *int
	if len(input.selfie) > 0 && s.face != nil {
		comparison := s.face.Compare(ctx, input.image, input.selfie)
		faceSimilarity = &comparison.Similarity
		if comparison.HasQualityIssues {
			redFlags = append(redFlags, "selfie_quality_issues")
		}
		s.emitAudit(ctx, s.event(userID, audit.EventFaceCompared, input.documentType, verificationID, fmt.Sprintf("similarity=%d matched=%t", comparison.Similarity, comparison.Matched), "", requestID, createdAt))
		span.AddEvent(tracer.EventFaceCompared,
			tracer.Int64(tracer.AttrFaceSimilarity, int64(comparison.Similarity)),
			tracer.Bool("matched", comparison.Matched))
	}

	signals := assembleSignals(
		input.documentType,
		input.checksumValid,
		matchScore,
		faceSimilarity,
		extraction,
		attemptState,
		attempts.IPRiskScore(requestcontext.ClientIP(ctx)),
		redFlags,
	)

	analysis := s.fraud.Analyze(ctx, signals)
	if s.metrics != nil {
		s.metrics.RecordRisk(string(analysis.RiskLevel))
		if analysis.UsedFallback {
			s.metrics.RecordScorerFallback()
		}
	}
	s.emitAudit(ctx, s.event(userID, audit.EventFraudScored, input.documentType, verificationID, string(analysis.RiskLevel), analysis.Explanation, requestID, createdAt))
	span.AddEvent(tracer.EventFraudScored,
		tracer.Int64("fraud_probability", int64(analysis.FraudProbability)))

	status := decideStatus(input.documentType, input.structuralValid, analysis.RiskLevel)
	s.emitAudit(ctx, s.event(userID, audit.EventVerificationDecided, input.documentType, verificationID, string(status), "", requestID, createdAt))
	span.SetAttributes(
		tracer.Int64(tracer.AttrMatchScore, int64(matchScore)),
		tracer.String(tracer.AttrRiskLevel, string(analysis.RiskLevel)),
		tracer.String(tracer.AttrStatus, string(status)))

	result = &models.VerificationResult{
		VerificationID:       verificationID,
		UserID:               userID,
		DocumentType:         input.documentType,
		Status:               status,
		StructuralValid:      input.structuralValid,
		OCRMatchScore:        matchScore,
		FaceSimilarity:       faceSimilarity,
		FraudAnalysis:        analysis,
		MaskedDocumentNumber: input.maskedNumber,
		ExtractedData:        maskedExtractedData(input.documentType, extraction),
		CreatedAt:            createdAt,
		ProcessingTimeMs:     time.Since(startedAt).Milliseconds(),
	}
	if input.documentType == id.DocumentIncomeCertificate && result.MaskedDocumentNumber == "" {
		result.MaskedDocumentNumber = extraction.CertificateNumber
	}

	if saveErr := s.results.Save(ctx, result); saveErr != nil {
		s.logger.ErrorContext(ctx, "result persistence failed",
			slog.String("verification_id", verificationID),
			slog.String("error", saveErr.Error()))
		return nil, dErrors.Wrap(saveErr, dErrors.CodeInternal, "persist verification result")
	}

	// Only completed decisions count toward the attempt history.
	if recErr := s.attempts.RecordDecision(ctx, attempts.Attempt{
		UserID:            userID,
		DocumentType:      input.documentType.String(),
		ContentHash:       contentHash,
		VerificationID:    verificationID,
		Decision:          string(status),
		IPAddress:         requestcontext.ClientIP(ctx),
		DeviceFingerprint: requestcontext.DeviceFingerprint(ctx),
		At:                createdAt,
	}); recErr != nil {
		s.logger.WarnContext(ctx, "attempt record failed",
			slog.String("verification_id", verificationID),
			slog.String("error", recErr.Error()))
	}
	s.emitAudit(ctx, s.event(userID, audit.EventVerificationRecorded, input.documentType, verificationID, string(status), "", requestID, createdAt))

	if s.metrics != nil {
		s.metrics.RecordVerification(input.documentType.String(), string(status), time.Since(startedAt).Seconds())
	}
	s.logger.InfoContext(ctx, "verification completed",
		slog.String("verification_id", verificationID),
		slog.String("document_type", input.documentType.String()),
		slog.String("status", string(status)),
		slog.Int("match_score", matchScore),
		slog.String("risk_level", string(analysis.RiskLevel)))

	return result, nil
}

// decideStatus maps structural validity and fraud risk onto the final
// status. Document types with a hard checksum or format reject on structural
// failure alone; passbooks and income certificates downgrade to manual
// review unless risk is independently high.
func decideStatus(documentType id.DocumentType, structuralValid bool, risk fraud.RiskLevel) models.Status {
	hardFormat := documentType == id.DocumentAadhaar || documentType == id.DocumentPAN

	switch {
	case risk == fraud.RiskHigh:
		return models.StatusRejected
	case !structuralValid && hardFormat:
		return models.StatusRejected
	case !structuralValid:
		return models.StatusManualReview
	case risk == fraud.RiskMedium:
		return models.StatusManualReview
	default:
		return models.StatusVerified
	}
}

// maskedExtractedData copies the extraction with sensitive fields masked.
func maskedExtractedData(documentType id.DocumentType, ex *ocr.Extraction) *models.ExtractedData {
	data := &models.ExtractedData{
		Name:              ex.Name,
		DateOfBirth:       ex.DateOfBirth,
		Gender:            ex.Gender,
		FatherName:        ex.FatherName,
		IFSCCode:          ex.IFSCCode,
		BankName:          ex.BankName,
		Branch:            ex.Branch,
		IncomeAmount:      ex.IncomeAmount,
		IssuingAuthority:  ex.IssuingAuthority,
		DateIssued:        ex.DateIssued,
		CertificateNumber: ex.CertificateNumber,
		OCRConfidence:     ex.Confidence,
	}
	if ex.DocumentNumber != "" {
		switch documentType {
		case id.DocumentAadhaar:
			data.DocumentNumber = match.MaskAadhaar(ex.DocumentNumber)
		case id.DocumentPAN:
			data.DocumentNumber = match.MaskPAN(ex.DocumentNumber)
		default:
			data.DocumentNumber = ex.DocumentNumber
		}
	}
	if ex.AccountNumber != "" {
		data.AccountNumber = match.MaskAccountNumber(ex.AccountNumber)
	}
	return data
}

// event fills the shared audit event fields.
func (s *Service) event(userID id.UserID, action audit.AuditEvent, documentType id.DocumentType, verificationID, decision, reason, requestID string, at time.Time) audit.Event {
	return audit.Event{
		Timestamp:      at,
		UserID:         userID,
		Action:         string(action),
		DocumentType:   documentType.String(),
		VerificationID: verificationID,
		Decision:       decision,
		Reason:         reason,
		RequestID:      requestID,
	}
}
