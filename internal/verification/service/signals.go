package service

import (
	"strings"

	"nagrik/internal/attempts"
	"nagrik/internal/fraud"
	"nagrik/internal/ocr"
	id "nagrik/pkg/domain"
)

// lowConfidenceThreshold marks an OCR read as suspicious on its own.
const lowConfidenceThreshold = 40

// layoutKeywords are the phrases a genuine document of each type prints.
var layoutKeywords = map[id.DocumentType][]string{
	id.DocumentAadhaar:           {"government of india", "unique identification", "aadhaar"},
	id.DocumentPAN:               {"income tax department", "permanent account number", "govt"},
	id.DocumentBankPassbook:      {"bank", "account", "branch"},
	id.DocumentIncomeCertificate: {"certificate", "income", "revenue"},
}

// sealKeywords identify the official seal or attestation block on an income
// certificate.
var sealKeywords = []string{"seal", "stamp", "signature", "attested", "मुहर"}

// assembleSignals builds the complete fraud signal vector. Every field is
// computed here so the scoring engine receives a finished input.
func assembleSignals(
	documentType id.DocumentType,
	checksumValid bool,
	matchScore int,
	faceSimilarity *int,
	extraction *ocr.Extraction,
	attemptState *attempts.Result,
	ipRisk int,
	redFlags []string,
) fraud.Signals {
	textScore := textConsistency(extraction)
	layoutScore := layoutConsistency(documentType, extraction)
	fontScore := fontConsistency(extraction)

	flags := append([]string{}, redFlags...)
	suspicious := len(redFlags) > 0
	if extraction.Confidence < lowConfidenceThreshold {
		suspicious = true
		flags = append(flags, "low_ocr_confidence")
	}

	return fraud.Signals{
		DocumentType:        documentType,
		ChecksumValid:       checksumValid,
		OCRMatchScore:       matchScore,
		FaceSimilarity:      faceSimilarity,
		SuspiciousPatterns:  suspicious,
		MultipleAttempts:    attemptState.MultipleAttempts,
		AttemptCount:        attemptState.AttemptCount,
		DuplicateSubmission: attemptState.DuplicateDocument,
		IPRiskScore:         ipRisk,
		TextConsistency:     textScore,
		LayoutConsistency:   layoutScore,
		FontConsistency:     fontScore,
		MetadataFlags:       flags,
	}
}

// textConsistency follows the OCR confidence: a clean scan reads uniformly.
func textConsistency(extraction *ocr.Extraction) int {
	if extraction.RawText == "" {
		return 0
	}
	return extraction.Confidence
}

// layoutConsistency checks how many of the expected layout phrases appear.
func layoutConsistency(documentType id.DocumentType, extraction *ocr.Extraction) int {
	if extraction.RawText == "" {
		return 0
	}
	keywords := layoutKeywords[documentType]
	lower := strings.ToLower(extraction.RawText)
	matched := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			matched++
		}
	}
	switch matched {
	case 0:
		return 30
	case 1:
		return 65
	default:
		return 100
	}
}

// fontConsistency has no dedicated engine signal; a confident uniform read
// implies consistent type. Tracks confidence with a small allowance.
func fontConsistency(extraction *ocr.Extraction) int {
	if extraction.RawText == "" {
		return 0
	}
	score := extraction.Confidence + 10
	if score > 100 {
		score = 100
	}
	return score
}

// documentRedFlags returns document-type-specific forgery indicators.
func documentRedFlags(documentType id.DocumentType, extraction *ocr.Extraction, declaredTypeMismatch bool) []string {
	var flags []string
	switch documentType {
	case id.DocumentPAN:
		if declaredTypeMismatch {
			flags = append(flags, "pan_declared_type_mismatch")
		}
	case id.DocumentBankPassbook:
		if extraction.BankName == "" && extraction.RawText != "" {
			flags = append(flags, "missing_bank_header")
		}
	case id.DocumentIncomeCertificate:
		if extraction.RawText != "" && !containsAny(strings.ToLower(extraction.RawText), sealKeywords) {
			flags = append(flags, "missing_official_seal")
		}
	}
	return flags
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
