package validate

import (
	"regexp"
	"strings"
)

// BankFieldResult is the outcome of a single bank-field format check.
type BankFieldResult struct {
	IsValid bool   `json:"isValid"`
	Error   string `json:"error,omitempty"`
}

// IFSC codes are 4 bank letters, a literal zero, then a 6-character branch code.
var ifscPattern = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)

var accountNumberPattern = regexp.MustCompile(`^[0-9]{9,18}$`)

// IFSC validates an Indian Financial System Code.
func IFSC(code string) BankFieldResult {
	cleaned := strings.ToUpper(strings.TrimSpace(code))
	if !ifscPattern.MatchString(cleaned) {
		return BankFieldResult{Error: "ifsc must be 4 letters, a zero, and 6 alphanumeric characters"}
	}
	return BankFieldResult{IsValid: true}
}

// AccountNumber validates a bank account number (9-18 digits).
func AccountNumber(number string) BankFieldResult {
	cleaned := stripSeparators(number)
	if !accountNumberPattern.MatchString(cleaned) {
		return BankFieldResult{Error: "account number must be 9 to 18 digits"}
	}
	return BankFieldResult{IsValid: true}
}
