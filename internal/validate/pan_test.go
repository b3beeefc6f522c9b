package validate

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type PANSuite struct {
	suite.Suite
}

func TestPANSuite(t *testing.T) {
	suite.Run(t, new(PANSuite))
}

func (s *PANSuite) TestFormat() {
	s.Run("accepts a well-formed individual PAN", func() {
		res := PAN("ABCPE1234F", "")
		s.True(res.IsValid)
		s.Equal("INDIVIDUAL", res.EntityType)
	})

	s.Run("normalizes case and whitespace", func() {
		res := PAN("  abcpe1234f ", "")
		s.True(res.IsValid)
	})

	s.Run("rejects malformed numbers", func() {
		for _, n := range []string{"ABC1234567", "ABCPE12345", "1BCPE1234F", "ABCPE1234FF", ""} {
			res := PAN(n, "")
			s.False(res.IsValid, n)
			s.False(res.FormatValid, n)
		}
	})
}

func (s *PANSuite) TestEntityType() {
	s.Run("maps fourth character to entity category", func() {
		cases := map[string]string{
			"ABCCE1234F": "COMPANY",
			"ABCHE1234F": "HUF",
			"ABCTE1234F": "TRUST",
			"ABCGE1234F": "GOVERNMENT",
		}
		for pan, want := range cases {
			res := PAN(pan, "")
			s.True(res.IsValid, pan)
			s.Equal(want, res.EntityType, pan)
		}
	})

	s.Run("rejects an unmapped fourth character", func() {
		res := PAN("ABCZE1234F", "")
		s.False(res.IsValid)
		s.Empty(res.EntityType)
	})
}

func (s *PANSuite) TestDeclaredCategory() {
	s.Run("matching declared category passes", func() {
		res := PAN("ABCPE1234F", "INDIVIDUAL")
		s.True(res.IsValid)
		s.False(res.DeclaredTypeMismatch)
	})

	s.Run("declared category comparison is case-insensitive", func() {
		res := PAN("ABCPE1234F", "individual")
		s.True(res.IsValid)
	})

	s.Run("mismatched declared category invalidates", func() {
		res := PAN("ABCCE1234F", "INDIVIDUAL")
		s.False(res.IsValid)
		s.True(res.DeclaredTypeMismatch)
		s.Contains(res.Errors, "pan entity type does not match the declared category")
	})
}
