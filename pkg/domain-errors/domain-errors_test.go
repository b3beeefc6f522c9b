package domainerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

// DomainErrorsSuite tests the domain error primitives.
//
// Justification: these are core error primitives used at every trust boundary.
// Unit tests ensure invariants like "wrapped domain errors preserve original code"
// and "errors.Is matches by code" are maintained.
type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorInterface() {
	s.Run("returns message when present", func() {
		err := &Error{Code: CodeNotFound, Message: "verification not found"}
		s.Equal("verification not found", err.Error())
	})

	s.Run("returns code when message is empty", func() {
		err := &Error{Code: CodeNotFound}
		s.Equal("not_found", err.Error())
	})
}

func (s *DomainErrorsSuite) TestUnwrap() {
	s.Run("returns wrapped error", func() {
		inner := errors.New("redis connection failed")
		err := &Error{Code: CodeInternal, Message: "tracker error", Err: inner}
		s.Equal(inner, err.Unwrap())
	})

	s.Run("returns nil when no wrapped error", func() {
		err := &Error{Code: CodeNotFound, Message: "not found"}
		s.Nil(err.Unwrap())
	})
}

func (s *DomainErrorsSuite) TestIsMatching() {
	s.Run("matches by code only", func() {
		err1 := &Error{Code: CodeValidation, Message: "aadhaar number invalid"}
		err2 := &Error{Code: CodeValidation, Message: "pan number invalid"}
		s.True(errors.Is(err1, err2))
	})

	s.Run("does not match different codes", func() {
		err1 := &Error{Code: CodeNotFound}
		err2 := &Error{Code: CodeInternal}
		s.False(errors.Is(err1, err2))
	})
}

func (s *DomainErrorsSuite) TestWrap() {
	s.Run("preserves original domain code", func() {
		inner := New(CodeValidation, "bad document number")
		wrapped := Wrap(inner, CodeInternal, "verification failed")
		s.True(HasCode(wrapped, CodeValidation))
	})

	s.Run("applies code to plain errors", func() {
		wrapped := Wrap(errors.New("boom"), CodeInternal, "verification failed")
		s.True(HasCode(wrapped, CodeInternal))
	})
}
