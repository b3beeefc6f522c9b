package validate

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

// AadhaarSuite tests Aadhaar structural validation.
//
// Justification: checksum-bearing IDs are provably fake when structurally
// invalid, so the REJECTED path depends entirely on these pure checks.
type AadhaarSuite struct {
	suite.Suite
}

func TestAadhaarSuite(t *testing.T) {
	suite.Run(t, new(AadhaarSuite))
}

// 498617362506 and 739204851679 carry valid Verhoeff check digits.
const (
	validAadhaar       = "498617362506"
	validAadhaarSecond = "739204851679"
)

func (s *AadhaarSuite) TestValidNumbers() {
	s.Run("accepts a checksum-valid number", func() {
		res := Aadhaar(validAadhaar)
		s.True(res.IsValid)
		s.Empty(res.Errors)
	})

	s.Run("accepts spaced and dashed formats", func() {
		s.True(Aadhaar("4986 1736 2506").IsValid)
		s.True(Aadhaar("4986-1736-2506").IsValid)
	})
}

func (s *AadhaarSuite) TestChecksum() {
	s.Run("accepts known-valid vectors", func() {
		s.True(VerhoeffChecksum(validAadhaar))
		s.True(VerhoeffChecksum(validAadhaarSecond))
	})

	s.Run("rejects the same number with last digit altered", func() {
		altered := validAadhaar[:11] + "7"
		s.False(VerhoeffChecksum(altered))
		res := Aadhaar(altered)
		s.False(res.IsValid)
		s.False(res.ChecksumValid)
		s.Contains(res.Errors, "aadhaar number failed checksum validation")
	})

	s.Run("rejects non-digit input", func() {
		s.False(VerhoeffChecksum("49861736250a"))
		s.False(VerhoeffChecksum(""))
	})
}

func (s *AadhaarSuite) TestRejectsDegeneratePatterns() {
	s.Run("all repeated digits", func() {
		for _, n := range []string{"222222222222", "555555555555", "999999999999"} {
			res := Aadhaar(n)
			s.False(res.IsValid, n)
			s.False(res.NotRepeated, n)
		}
	})

	s.Run("ascending and descending runs", func() {
		for _, n := range []string{"234567890123", "987654321098"} {
			res := Aadhaar(n)
			s.False(res.IsValid, n)
			s.False(res.NotSequential, n)
		}
	})

	s.Run("first digit 0 or 1", func() {
		res := Aadhaar("012345678901")
		s.False(res.IsValid)
		s.False(res.ValidFirstDigit)
	})
}

func (s *AadhaarSuite) TestShapeFailures() {
	s.Run("wrong length", func() {
		res := Aadhaar("12345")
		s.False(res.IsValid)
		s.False(res.CorrectLength)
		s.Contains(res.Errors, "aadhaar number must be exactly 12 digits")
	})

	s.Run("non-numeric", func() {
		res := Aadhaar("49861736250X")
		s.False(res.IsValid)
		s.False(res.NumericOnly)
	})

	s.Run("empty input", func() {
		res := Aadhaar("")
		s.False(res.IsValid)
		s.NotEmpty(res.Errors)
	})
}
