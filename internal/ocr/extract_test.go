package ocr

import (
	"context"
	"errors"
	"testing"

	id "nagrik/pkg/domain"

	"github.com/stretchr/testify/suite"
)

type failingEngine struct{}

func (failingEngine) AnalyzeDocument(context.Context, []byte) (*Analysis, error) {
	return nil, errors.New("engine unavailable")
}

type staticEngine struct {
	analysis *Analysis
}

func (e staticEngine) AnalyzeDocument(context.Context, []byte) (*Analysis, error) {
	return e.analysis, nil
}

// ExtractionSuite tests field extraction from engine output.
//
// Justification: downstream match scoring treats absent fields as neutral,
// so extraction must distinguish "not found" from "found empty" reliably and
// must never abort the pipeline.
type ExtractionSuite struct {
	suite.Suite
}

func TestExtractionSuite(t *testing.T) {
	suite.Run(t, new(ExtractionSuite))
}

func (s *ExtractionSuite) TestEngineFailureDegrades() {
	adapter := NewAdapter(failingEngine{})
	ex := adapter.Extract(context.Background(), id.DocumentAadhaar, []byte("img"))
	s.Require().NotNil(ex)
	s.Empty(ex.RawText)
	s.Zero(ex.Confidence)
}

func (s *ExtractionSuite) TestRawTextAndConfidence() {
	analysis := &Analysis{
		Lines: []Line{
			{Text: "Government of India", Confidence: 90},
			{Text: "Ramesh Kumar", Confidence: 80},
		},
		KeyValues: map[string]string{},
	}
	ex := BuildExtraction(id.DocumentAadhaar, analysis)
	s.Equal("Government of India\nRamesh Kumar", ex.RawText)
	s.Equal(85, ex.Confidence)

	s.Run("no lines means zero confidence", func() {
		empty := BuildExtraction(id.DocumentAadhaar, &Analysis{KeyValues: map[string]string{}})
		s.Zero(empty.Confidence)
		s.Empty(empty.RawText)
	})
}

func (s *ExtractionSuite) TestAadhaar() {
	s.Run("labeled fields win", func() {
		analysis := &Analysis{
			Lines: []Line{
				{Text: "4986 1736 2506", Confidence: 95},
			},
			KeyValues: map[string]string{
				"name":       "Ramesh Kumar",
				"जन्म तिथि":  "15/08/1990",
				"gender":     "MALE",
			},
		}
		ex := BuildExtraction(id.DocumentAadhaar, analysis)
		s.Equal("Ramesh Kumar", ex.Name)
		s.Equal("15/08/1990", ex.DateOfBirth)
		s.Equal("498617362506", ex.DocumentNumber)
		s.Equal("MALE", ex.Gender)
	})

	s.Run("regex over raw text fills unlabeled fields", func() {
		analysis := &Analysis{
			Lines: []Line{
				{Text: "DOB: 15/08/1990", Confidence: 90},
				{Text: "Male", Confidence: 90},
				{Text: "4986-1736-2506", Confidence: 90},
			},
			KeyValues: map[string]string{},
		}
		ex := BuildExtraction(id.DocumentAadhaar, analysis)
		s.Equal("15/08/1990", ex.DateOfBirth)
		s.Equal("Male", ex.Gender)
	})

	s.Run("name falls back to the line after the issuer header", func() {
		analysis := &Analysis{
			Lines: []Line{
				{Text: "Government of India", Confidence: 95},
				{Text: "Ramesh Kumar", Confidence: 92},
				{Text: "4986 1736 2506", Confidence: 95},
			},
			KeyValues: map[string]string{},
		}
		ex := BuildExtraction(id.DocumentAadhaar, analysis)
		s.Equal("Ramesh Kumar", ex.Name)
	})

	s.Run("missing fields stay empty without error", func() {
		ex := BuildExtraction(id.DocumentAadhaar, &Analysis{
			Lines:     []Line{{Text: "unreadable smudge", Confidence: 12}},
			KeyValues: map[string]string{},
		})
		s.Empty(ex.Name)
		s.Empty(ex.DocumentNumber)
		s.Equal(12, ex.Confidence)
	})
}

func (s *ExtractionSuite) TestPAN() {
	analysis := &Analysis{
		Lines: []Line{
			{Text: "INCOME TAX DEPARTMENT", Confidence: 96},
			{Text: "Permanent Account Number", Confidence: 94},
			{Text: "ABCPE1234F", Confidence: 97},
		},
		KeyValues: map[string]string{
			"name":          "Ramesh Kumar",
			"father's name": "Suresh Kumar",
			"date of birth": "15/08/1990",
		},
	}
	ex := BuildExtraction(id.DocumentPAN, analysis)
	s.Equal("ABCPE1234F", ex.DocumentNumber)
	s.Equal("Ramesh Kumar", ex.Name)
	s.Equal("Suresh Kumar", ex.FatherName)
	s.Equal("15/08/1990", ex.DateOfBirth)
}

func (s *ExtractionSuite) TestPassbook() {
	analysis := &Analysis{
		Lines: []Line{
			{Text: "State Bank of India", Confidence: 93},
			{Text: "Savings Bank Passbook", Confidence: 90},
		},
		KeyValues: map[string]string{
			"account holder name": "Ramesh Kumar",
			"account no":          "1234 5678 9012",
			"ifsc code":           "sbin0001234",
			"branch":              "Connaught Place",
		},
	}
	ex := BuildExtraction(id.DocumentBankPassbook, analysis)
	s.Equal("Ramesh Kumar", ex.Name)
	s.Equal("123456789012", ex.AccountNumber)
	s.Equal("SBIN0001234", ex.IFSCCode)
	s.Equal("state bank of india", ex.BankName)
	s.Equal("Connaught Place", ex.Branch)
}

func (s *ExtractionSuite) TestIncomeCertificate() {
	analysis := &Analysis{
		Lines: []Line{
			{Text: "INCOME CERTIFICATE", Confidence: 94},
			{Text: "Certificate No: RC/2026/00123", Confidence: 91},
			{Text: "Annual income Rs. 2,40,000 only", Confidence: 92},
			{Text: "Issued by the Tehsildar, Jaipur on 12/01/2026", Confidence: 90},
		},
		KeyValues: map[string]string{
			"name": "Ramesh Kumar",
		},
	}
	ex := BuildExtraction(id.DocumentIncomeCertificate, analysis)
	s.Equal("Ramesh Kumar", ex.Name)
	s.Equal("240000", ex.IncomeAmount)
	s.Equal("tehsildar", ex.IssuingAuthority)
	s.Equal("12/01/2026", ex.DateIssued)
	s.Equal("RC/2026/00123", ex.CertificateNumber)
}

func (s *ExtractionSuite) TestAdapterPassesThroughAnalysis() {
	adapter := NewAdapter(staticEngine{analysis: &Analysis{
		Lines:     []Line{{Text: "ABCPE1234F", Confidence: 88}},
		KeyValues: map[string]string{},
	}})
	ex := adapter.Extract(context.Background(), id.DocumentPAN, []byte("img"))
	s.Equal("ABCPE1234F", ex.DocumentNumber)
	s.Equal(88, ex.Confidence)
}
