package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"nagrik/internal/match"
	"nagrik/internal/ocr"
	"nagrik/internal/verification/models"
)

// neutralScore is used for any sub-score whose underlying data is absent
// from OCR, so a weak read is not punished as a mismatch.
const neutralScore = 50

// aadhaarMatchScore blends name, DOB, and exact number sub-scores.
func aadhaarMatchScore(req *models.AadhaarRequest, ex *ocr.Extraction) int {
	name := fuzzyOrNeutral(req.Name, ex.Name)
	dob := dateMatchOrNeutral(req.DateOfBirth, ex.DateOfBirth)
	number := exactDigitsOrNeutral(req.AadhaarNumber, ex.DocumentNumber)
	return blend(0.5*float64(name) + 0.2*float64(dob) + 0.3*float64(number))
}

// panMatchScore blends name, exact number, and DOB sub-scores.
func panMatchScore(req *models.PANRequest, ex *ocr.Extraction) int {
	name := fuzzyOrNeutral(req.Name, ex.Name)
	number := neutralScore
	if ex.DocumentNumber != "" {
		number = 0
		if strings.EqualFold(req.PANNumber, ex.DocumentNumber) {
			number = 100
		}
	}
	dob := dateMatchOrNeutral(req.DateOfBirth, ex.DateOfBirth)
	return blend(0.4*float64(name) + 0.4*float64(number) + 0.2*float64(dob))
}

// passbookMatchScore blends name, account, and IFSC sub-scores.
func passbookMatchScore(req *models.PassbookRequest, ex *ocr.Extraction) int {
	name := fuzzyOrNeutral(req.Name, ex.Name)
	account := exactDigitsOrNeutral(req.AccountNumber, ex.AccountNumber)
	ifsc := neutralScore
	if ex.IFSCCode != "" {
		ifsc = 0
		if strings.EqualFold(req.IFSCCode, ex.IFSCCode) {
			ifsc = 100
		}
	}
	return blend(0.4*float64(name) + 0.3*float64(account) + 0.3*float64(ifsc))
}

// incomeMatchScore blends name, income, and an OCR-confidence bonus.
func incomeMatchScore(req *models.IncomeCertificateRequest, ex *ocr.Extraction) int {
	name := fuzzyOrNeutral(req.Name, ex.Name)
	income := incomeAmountScore(req.AnnualIncome, ex.IncomeAmount)
	confidenceBonus := 0
	if ex.Confidence > 60 {
		confidenceBonus = 100
	}
	return blend(0.5*float64(name) + 0.3*float64(income) + 0.2*float64(confidenceBonus))
}

func blend(weighted float64) int {
	return int(math.Round(weighted))
}

func fuzzyOrNeutral(claimed, extracted string) int {
	if extracted == "" {
		return neutralScore
	}
	return match.FuzzyScore(claimed, extracted)
}

// dateMatchOrNeutral compares dates digit-by-digit so 15/08/1990 and
// 15-08-1990 are equal.
func dateMatchOrNeutral(claimed, extracted string) int {
	if extracted == "" || claimed == "" {
		return neutralScore
	}
	if digitsOnly(claimed) == digitsOnly(extracted) {
		return 100
	}
	return 0
}

func exactDigitsOrNeutral(claimed, extracted string) int {
	if extracted == "" {
		return neutralScore
	}
	if digitsOnly(claimed) == digitsOnly(extracted) {
		return 100
	}
	return 0
}

// incomeAmountScore grades how close the extracted amount is to the claim.
func incomeAmountScore(claimed, extracted string) int {
	if extracted == "" {
		return neutralScore
	}
	claimedValue, err1 := strconv.ParseFloat(digitsOnly(claimed), 64)
	extractedValue, err2 := strconv.ParseFloat(digitsOnly(extracted), 64)
	if err1 != nil || err2 != nil || claimedValue == 0 {
		return neutralScore
	}

	diff := math.Abs(claimedValue-extractedValue) / claimedValue
	switch {
	case diff <= 0.10:
		return 100
	case diff <= 0.25:
		return 70
	case diff <= 0.50:
		return 40
	default:
		return 0
	}
}

// parsePositiveAmount validates a claimed income figure.
func parsePositiveAmount(s string) (float64, error) {
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if value <= 0 {
		return 0, fmt.Errorf("amount must be positive, got %v", value)
	}
	return value, nil
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
