// Package validate implements structural document-number validation.
//
// Everything here is pure: results derive entirely from the claimed number,
// never from the document image.
package validate

import (
	"strings"
)

// AadhaarResult captures the independent sub-checks for an Aadhaar number.
// IsValid is the conjunction of all checks; Errors lists each failure.
type AadhaarResult struct {
	IsValid        bool     `json:"isValid"`
	NumericOnly    bool     `json:"numericOnly"`
	CorrectLength  bool     `json:"correctLength"`
	NotRepeated    bool     `json:"notRepeated"`
	NotSequential  bool     `json:"notSequential"`
	ValidFirstDigit bool    `json:"validFirstDigit"`
	ChecksumValid  bool     `json:"checksumValid"`
	Errors         []string `json:"errors"`
}

// Verhoeff multiplication table (dihedral group D5).
var verhoeffD = [10][10]int{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
	{1, 2, 3, 4, 0, 6, 7, 8, 9, 5},
	{2, 3, 4, 0, 1, 7, 8, 9, 5, 6},
	{3, 4, 0, 1, 2, 8, 9, 5, 6, 7},
	{4, 0, 1, 2, 3, 9, 5, 6, 7, 8},
	{5, 9, 8, 7, 6, 0, 4, 3, 2, 1},
	{6, 5, 9, 8, 7, 1, 0, 4, 3, 2},
	{7, 6, 5, 9, 8, 2, 1, 0, 4, 3},
	{8, 7, 6, 5, 9, 3, 2, 1, 0, 4},
	{9, 8, 7, 6, 5, 4, 3, 2, 1, 0},
}

// Verhoeff permutation table, applied by digit position mod 8.
var verhoeffP = [8][10]int{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9},
	{1, 5, 7, 6, 2, 8, 3, 0, 9, 4},
	{5, 8, 0, 3, 7, 9, 6, 1, 4, 2},
	{8, 9, 1, 6, 0, 4, 3, 5, 2, 7},
	{9, 4, 5, 3, 1, 2, 6, 8, 7, 0},
	{4, 2, 8, 6, 5, 7, 3, 9, 0, 1},
	{2, 7, 9, 3, 8, 0, 6, 4, 1, 5},
	{7, 0, 4, 6, 9, 1, 3, 2, 5, 8},
}

// VerhoeffChecksum reports whether the digit string passes the Verhoeff check.
// The number is processed right to left; a running check digit of zero means valid.
func VerhoeffChecksum(number string) bool {
	if number == "" {
		return false
	}
	c := 0
	n := len(number)
	for i := 0; i < n; i++ {
		ch := number[n-1-i]
		if ch < '0' || ch > '9' {
			return false
		}
		c = verhoeffD[c][verhoeffP[i%8][ch-'0']]
	}
	return c == 0
}

// Aadhaar validates a claimed Aadhaar number. Punctuation and whitespace are
// stripped before checking, so "4986 1736 2506" and "4986-1736-2506" both pass.
func Aadhaar(number string) AadhaarResult {
	cleaned := stripSeparators(number)

	res := AadhaarResult{
		NumericOnly:     isNumeric(cleaned),
		CorrectLength:   len(cleaned) == 12,
		NotRepeated:     true,
		NotSequential:   true,
		ValidFirstDigit: true,
	}

	if !res.NumericOnly {
		res.Errors = append(res.Errors, "aadhaar number must contain only digits")
	}
	if !res.CorrectLength {
		res.Errors = append(res.Errors, "aadhaar number must be exactly 12 digits")
	}

	if res.NumericOnly && res.CorrectLength {
		if isRepeatedDigits(cleaned) {
			res.NotRepeated = false
			res.Errors = append(res.Errors, "aadhaar number cannot be a single repeated digit")
		}
		if isSequentialRun(cleaned) {
			res.NotSequential = false
			res.Errors = append(res.Errors, "aadhaar number cannot be a sequential digit run")
		}
		if cleaned[0] == '0' || cleaned[0] == '1' {
			res.ValidFirstDigit = false
			res.Errors = append(res.Errors, "aadhaar number cannot start with 0 or 1")
		}
		res.ChecksumValid = VerhoeffChecksum(cleaned)
		if !res.ChecksumValid {
			res.Errors = append(res.Errors, "aadhaar number failed checksum validation")
		}
	}

	res.IsValid = res.NumericOnly && res.CorrectLength && res.NotRepeated &&
		res.NotSequential && res.ValidFirstDigit && res.ChecksumValid
	return res
}

func stripSeparators(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '.', '/':
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func isRepeatedDigits(s string) bool {
	for i := 1; i < len(s); i++ {
		if s[i] != s[0] {
			return false
		}
	}
	return true
}

// isSequentialRun detects strictly ascending or descending digit runs,
// e.g. "123456789012" (wrapping) or "987654321098".
func isSequentialRun(s string) bool {
	asc, desc := true, true
	for i := 1; i < len(s); i++ {
		prev, cur := int(s[i-1]-'0'), int(s[i]-'0')
		if cur != (prev+1)%10 {
			asc = false
		}
		if cur != (prev+9)%10 {
			desc = false
		}
	}
	return asc || desc
}
