// Package fraud scores an assembled signal vector into a risk assessment.
// The primary path asks a generative scorer for a structured assessment; a
// deterministic point model takes over whenever the scorer fails or returns
// output that cannot be parsed.
package fraud

import id "nagrik/pkg/domain"

// RiskLevel buckets the fraud probability.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// RecommendedAction is the scorer's suggested disposition.
type RecommendedAction string

const (
	ActionApprove      RecommendedAction = "APPROVE"
	ActionManualReview RecommendedAction = "MANUAL_REVIEW"
	ActionReject       RecommendedAction = "REJECT"
)

// Signals is the fully-computed input vector for one verification. Every
// field must be populated before scoring begins; optional engine outputs use
// pointers so "not measured" is distinct from zero.
type Signals struct {
	DocumentType id.DocumentType `json:"documentType"`

	ChecksumValid bool `json:"checksumValid"`
	OCRMatchScore int  `json:"ocrMatchScore"`

	FaceSimilarity *int  `json:"faceSimilarity,omitempty"`
	QRMatch        *bool `json:"qrMatch,omitempty"`

	SuspiciousPatterns  bool `json:"suspiciousPatterns"`
	MultipleAttempts    bool `json:"multipleAttempts"`
	AttemptCount        int  `json:"attemptCount"`
	DuplicateSubmission bool `json:"duplicateSubmission"`
	IPRiskScore         int  `json:"ipRiskScore"`

	TextConsistency   int `json:"textConsistency"`
	LayoutConsistency int `json:"layoutConsistency"`
	FontConsistency   int `json:"fontConsistency"`

	MetadataFlags []string `json:"metadataFlags"`
}

// Analysis is the scorer output, identical in shape for both paths.
type Analysis struct {
	FraudProbability  int               `json:"fraudProbability"`
	RiskLevel         RiskLevel         `json:"riskLevel"`
	ConfidenceScore   int               `json:"confidenceScore"`
	Explanation       string            `json:"explanation"`
	RecommendedAction RecommendedAction `json:"recommendedAction"`
	Flags             []string          `json:"flags"`

	// UsedFallback reports which path produced the assessment: true when the
	// rule-based fallback ran instead of the generative scorer.
	UsedFallback bool `json:"usedFallback"`
}

// riskFromProbability applies the shared probability buckets.
func riskFromProbability(probability int) RiskLevel {
	switch {
	case probability > 60:
		return RiskHigh
	case probability > 30:
		return RiskMedium
	default:
		return RiskLow
	}
}

// actionFromRisk maps risk buckets to dispositions.
func actionFromRisk(risk RiskLevel) RecommendedAction {
	switch risk {
	case RiskHigh:
		return ActionReject
	case RiskMedium:
		return ActionManualReview
	default:
		return ActionApprove
	}
}
