// Package match provides PII masking, content hashing, fuzzy matching, and
// verification-ID generation for the KYC pipeline.
package match

import "strings"

// Canonical placeholders returned when input fails shape checks.
// Masking never errors; malformed input yields a generic masked value.
const (
	maskedAadhaarPlaceholder = "XXXX-XXXX-XXXX"
	maskedPANPlaceholder     = "XXXXX****X"
	maskedAccountPlaceholder = "XXXXXXXXXXXX"
)

// MaskAadhaar reveals only the last four digits: "XXXX-XXXX-1234".
func MaskAadhaar(number string) string {
	cleaned := digitsOnly(number)
	if len(cleaned) != 12 {
		return maskedAadhaarPlaceholder
	}
	return "XXXX-XXXX-" + cleaned[8:]
}

// MaskPAN keeps the first three letters and the last two characters,
// hiding the entity character and most of the serial: "ABC*****4F".
func MaskPAN(number string) string {
	cleaned := strings.ToUpper(strings.TrimSpace(number))
	if len(cleaned) != 10 {
		return maskedPANPlaceholder
	}
	return cleaned[:3] + "*****" + cleaned[8:]
}

// MaskAccountNumber pads with X and keeps the last four digits visible.
func MaskAccountNumber(number string) string {
	cleaned := digitsOnly(number)
	if len(cleaned) < 9 || len(cleaned) > 18 {
		return maskedAccountPlaceholder
	}
	return strings.Repeat("X", len(cleaned)-4) + cleaned[len(cleaned)-4:]
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
