package validate

import (
	"regexp"
	"strings"
)

// PANResult captures the sub-checks for a PAN (Permanent Account Number).
type PANResult struct {
	IsValid              bool     `json:"isValid"`
	FormatValid          bool     `json:"formatValid"`
	EntityType           string   `json:"entityType,omitempty"`
	DeclaredTypeMismatch bool     `json:"declaredTypeMismatch"`
	Errors               []string `json:"errors"`
}

var panPattern = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

// panEntityTypes maps the PAN's fourth character to the legal-person category.
var panEntityTypes = map[byte]string{
	'A': "AOP",
	'B': "BOI",
	'C': "COMPANY",
	'F': "FIRM",
	'G': "GOVERNMENT",
	'H': "HUF",
	'J': "ARTIFICIAL_JURIDICAL_PERSON",
	'L': "LOCAL_AUTHORITY",
	'P': "INDIVIDUAL",
	'T': "TRUST",
}

// PAN validates a claimed PAN. declaredCategory is optional; when supplied
// (e.g. "INDIVIDUAL") a mismatch against the 4th-character-derived entity
// type flags DeclaredTypeMismatch and invalidates the result.
func PAN(number, declaredCategory string) PANResult {
	cleaned := strings.ToUpper(strings.TrimSpace(number))

	res := PANResult{
		FormatValid: panPattern.MatchString(cleaned),
	}
	if !res.FormatValid {
		res.Errors = append(res.Errors, "pan must match the format AAAAA9999A")
		return res
	}

	entity, known := panEntityTypes[cleaned[3]]
	if !known {
		res.Errors = append(res.Errors, "pan fourth character does not map to a known entity type")
		return res
	}
	res.EntityType = entity

	if declaredCategory != "" && !strings.EqualFold(declaredCategory, entity) {
		res.DeclaredTypeMismatch = true
		res.Errors = append(res.Errors, "pan entity type does not match the declared category")
		return res
	}

	res.IsValid = true
	return res
}
