package fraud

import (
	"encoding/json"
	"errors"
	"strings"
)

var errNoJSONBlock = errors.New("no json object in scorer output")

// ParseScorerOutput recovers an Analysis from free-form model output. It
// extracts the first balanced {...} block, clamps numeric fields to [0,100],
// and coerces the enumerated fields to allowed values.
func ParseScorerOutput(output string) (*Analysis, error) {
	block, err := firstJSONBlock(output)
	if err != nil {
		return nil, err
	}

	var raw struct {
		FraudProbability  *int     `json:"fraudProbability"`
		RiskLevel         string   `json:"riskLevel"`
		ConfidenceScore   *int     `json:"confidenceScore"`
		Explanation       string   `json:"explanation"`
		RecommendedAction string   `json:"recommendedAction"`
		Flags             []string `json:"flags"`
	}
	if err := json.Unmarshal([]byte(block), &raw); err != nil {
		return nil, err
	}
	if raw.FraudProbability == nil {
		return nil, errors.New("scorer output missing fraudProbability")
	}

	analysis := &Analysis{
		FraudProbability:  clamp(*raw.FraudProbability),
		RiskLevel:         coerceRisk(raw.RiskLevel),
		Explanation:       raw.Explanation,
		RecommendedAction: coerceAction(raw.RecommendedAction),
		Flags:             raw.Flags,
	}
	if raw.ConfidenceScore != nil {
		analysis.ConfidenceScore = clamp(*raw.ConfidenceScore)
	} else {
		analysis.ConfidenceScore = 100 - analysis.FraudProbability
	}
	if analysis.Flags == nil {
		analysis.Flags = []string{}
	}
	return analysis, nil
}

// firstJSONBlock returns the first balanced top-level {...} substring,
// respecting string literals and escapes.
func firstJSONBlock(s string) (string, error) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", errNoJSONBlock
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", errNoJSONBlock
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func coerceRisk(s string) RiskLevel {
	switch RiskLevel(strings.ToUpper(strings.TrimSpace(s))) {
	case RiskLow:
		return RiskLow
	case RiskHigh:
		return RiskHigh
	case RiskMedium:
		return RiskMedium
	default:
		return RiskMedium
	}
}

func coerceAction(s string) RecommendedAction {
	switch RecommendedAction(strings.ToUpper(strings.TrimSpace(s))) {
	case ActionApprove:
		return ActionApprove
	case ActionReject:
		return ActionReject
	case ActionManualReview:
		return ActionManualReview
	default:
		return ActionManualReview
	}
}
