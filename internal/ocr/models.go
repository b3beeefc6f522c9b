// Package ocr normalizes a vision engine's raw output into per-document-type
// structured fields using labeled key/value lookup, regex matching over the
// raw text, and positional heuristics, in that order.
package ocr

// Line is a single detected text line with the engine's confidence for it.
type Line struct {
	Text       string
	Confidence float64
}

// Analysis is the engine-neutral shape of one OCR pass: detected lines in
// reading order plus key/value pairs recovered from form fields. Keys are
// lower-cased by the engine adapter.
type Analysis struct {
	Lines     []Line
	KeyValues map[string]string
}

// Extraction is the structured result handed to match scoring. Absent fields
// are empty strings; RawText and Confidence are always present, even when the
// engine call failed entirely.
type Extraction struct {
	RawText    string `json:"rawText"`
	Confidence int    `json:"confidence"`

	Name           string `json:"name,omitempty"`
	DateOfBirth    string `json:"dateOfBirth,omitempty"`
	DocumentNumber string `json:"documentNumber,omitempty"`
	Gender         string `json:"gender,omitempty"`
	FatherName     string `json:"fatherName,omitempty"`

	AccountNumber string `json:"accountNumber,omitempty"`
	IFSCCode      string `json:"ifscCode,omitempty"`
	BankName      string `json:"bankName,omitempty"`
	Branch        string `json:"branch,omitempty"`

	IncomeAmount      string `json:"incomeAmount,omitempty"`
	IssuingAuthority  string `json:"issuingAuthority,omitempty"`
	DateIssued        string `json:"dateIssued,omitempty"`
	CertificateNumber string `json:"certificateNumber,omitempty"`
}
