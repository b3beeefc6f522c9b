// Package models defines the verification request and result types.
package models

import (
	"encoding/base64"
	"strings"
	"time"

	"nagrik/internal/fraud"
	id "nagrik/pkg/domain"
	dErrors "nagrik/pkg/domain-errors"
)

// Status is the final disposition of a verification.
type Status string

const (
	StatusVerified     Status = "VERIFIED"
	StatusRejected     Status = "REJECTED"
	StatusManualReview Status = "MANUAL_REVIEW"
)

// ExtractedData is the OCR output embedded in a result, with sensitive
// fields already masked.
type ExtractedData struct {
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

	OCRConfidence int `json:"ocrConfidence"`
}

// VerificationResult is the unit of record for one verification. Created
// once per request and immutable thereafter.
type VerificationResult struct {
	VerificationID string          `json:"verificationId"`
	UserID         id.UserID       `json:"-"`
	DocumentType   id.DocumentType `json:"documentType"`
	Status         Status          `json:"status"`

	StructuralValid bool `json:"structuralValid"`
	OCRMatchScore   int  `json:"ocrMatchScore"`
	FaceSimilarity  *int `json:"faceSimilarity,omitempty"`

	FraudAnalysis *fraud.Analysis `json:"fraudAnalysis"`

	// MaskedDocumentNumber is the display-safe form of the claimed document
	// number. The raw number is never persisted or returned.
	MaskedDocumentNumber string `json:"maskedDocumentNumber"`

	ExtractedData *ExtractedData `json:"extractedData,omitempty"`

	CreatedAt        time.Time `json:"createdAt"`
	ProcessingTimeMs int64     `json:"processingTimeMs"`
}

// AadhaarRequest is the request body for Aadhaar verification.
type AadhaarRequest struct {
	Name          string `json:"name"`
	AadhaarNumber string `json:"aadhaarNumber"`
	DateOfBirth   string `json:"dateOfBirth"`
	DocumentImage string `json:"documentImage"`
	SelfieImage   string `json:"selfieImage,omitempty"`
}

func (r *AadhaarRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.AadhaarNumber = strings.TrimSpace(r.AadhaarNumber)
	r.DateOfBirth = strings.TrimSpace(r.DateOfBirth)
}

func (r *AadhaarRequest) Validate() error {
	return requireFields(map[string]string{
		"name":          r.Name,
		"aadhaarNumber": r.AadhaarNumber,
		"documentImage": r.DocumentImage,
	})
}

// PANRequest is the request body for PAN verification.
type PANRequest struct {
	Name          string `json:"name"`
	PANNumber     string `json:"panNumber"`
	DateOfBirth   string `json:"dateOfBirth"`
	Category      string `json:"category,omitempty"`
	DocumentImage string `json:"documentImage"`
}

func (r *PANRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.PANNumber = strings.ToUpper(strings.TrimSpace(r.PANNumber))
	r.DateOfBirth = strings.TrimSpace(r.DateOfBirth)
	r.Category = strings.TrimSpace(r.Category)
}

func (r *PANRequest) Validate() error {
	return requireFields(map[string]string{
		"name":          r.Name,
		"panNumber":     r.PANNumber,
		"documentImage": r.DocumentImage,
	})
}

// PassbookRequest is the request body for bank passbook verification.
type PassbookRequest struct {
	Name          string `json:"name"`
	AccountNumber string `json:"accountNumber"`
	IFSCCode      string `json:"ifscCode"`
	DocumentImage string `json:"documentImage"`
}

func (r *PassbookRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.AccountNumber = strings.TrimSpace(r.AccountNumber)
	r.IFSCCode = strings.ToUpper(strings.TrimSpace(r.IFSCCode))
}

func (r *PassbookRequest) Validate() error {
	return requireFields(map[string]string{
		"name":          r.Name,
		"accountNumber": r.AccountNumber,
		"ifscCode":      r.IFSCCode,
		"documentImage": r.DocumentImage,
	})
}

// IncomeCertificateRequest is the request body for income certificate
// verification.
type IncomeCertificateRequest struct {
	Name          string `json:"name"`
	AnnualIncome  string `json:"annualIncome"`
	DocumentImage string `json:"documentImage"`
}

func (r *IncomeCertificateRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.AnnualIncome = strings.TrimSpace(strings.ReplaceAll(r.AnnualIncome, ",", ""))
}

func (r *IncomeCertificateRequest) Validate() error {
	return requireFields(map[string]string{
		"name":          r.Name,
		"annualIncome":  r.AnnualIncome,
		"documentImage": r.DocumentImage,
	})
}

// DecodeImage decodes a base64 document or selfie payload. Data URL prefixes
// from browser uploads are tolerated.
func DecodeImage(encoded string) ([]byte, error) {
	if idx := strings.Index(encoded, ","); idx >= 0 && strings.HasPrefix(encoded, "data:") {
		encoded = encoded[idx+1:]
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "document image is not valid base64")
	}
	if len(data) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "document image is empty")
	}
	return data, nil
}

// requireFields returns a validation error naming the first missing field in
// a stable order.
func requireFields(fields map[string]string) error {
	order := []string{"name", "aadhaarNumber", "panNumber", "accountNumber", "ifscCode", "annualIncome", "documentImage"}
	for _, name := range order {
		if value, present := fields[name]; present && value == "" {
			return dErrors.New(dErrors.CodeValidation, "missing required field: "+name)
		}
	}
	return nil
}
