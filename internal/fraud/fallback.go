package fraud

// fallbackCondition is one row of the deterministic point model.
type fallbackCondition struct {
	name    string
	points  int
	applies func(Signals) bool
}

// fallbackConditions is the complete point table. Order matters only for the
// flag list, which mirrors the table order.
var fallbackConditions = []fallbackCondition{
	{"CHECKSUM_INVALID", 30, func(s Signals) bool { return !s.ChecksumValid }},
	{"OCR_MATCH_LOW", 25, func(s Signals) bool { return s.OCRMatchScore < 50 }},
	{"OCR_MATCH_MODERATE", 10, func(s Signals) bool { return s.OCRMatchScore >= 50 && s.OCRMatchScore < 75 }},
	{"FACE_SIMILARITY_LOW", 25, func(s Signals) bool { return s.FaceSimilarity != nil && *s.FaceSimilarity < 50 }},
	{"FACE_SIMILARITY_MODERATE", 10, func(s Signals) bool { return s.FaceSimilarity != nil && *s.FaceSimilarity >= 50 && *s.FaceSimilarity < 70 }},
	{"QR_MISMATCH", 15, func(s Signals) bool { return s.QRMatch != nil && !*s.QRMatch }},
	{"SUSPICIOUS_PATTERNS", 20, func(s Signals) bool { return s.SuspiciousPatterns }},
	{"MULTIPLE_ATTEMPTS", 15, func(s Signals) bool { return s.MultipleAttempts }},
	{"DUPLICATE_SUBMISSION", 10, func(s Signals) bool { return s.DuplicateSubmission }},
	{"TEXT_CONSISTENCY_LOW", 10, func(s Signals) bool { return s.TextConsistency < 50 }},
	{"LAYOUT_CONSISTENCY_LOW", 10, func(s Signals) bool { return s.LayoutConsistency < 50 }},
}

// ScoreFallback runs the rule-based point model. It is fully deterministic
// and serves as the correctness backstop when the generative scorer is
// unavailable.
func ScoreFallback(signals Signals) *Analysis {
	points := 0
	flags := []string{}
	for _, cond := range fallbackConditions {
		if cond.applies(signals) {
			points += cond.points
			flags = append(flags, cond.name)
		}
	}
	if points > 100 {
		points = 100
	}

	risk := riskFromProbability(points)
	return &Analysis{
		FraudProbability:  points,
		RiskLevel:         risk,
		ConfidenceScore:   100 - points,
		Explanation:       "rule-based assessment from accumulated signal points",
		RecommendedAction: actionFromRisk(risk),
		Flags:             flags,
		UsedFallback:      true,
	}
}
