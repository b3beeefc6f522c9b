package attempts

import (
	"context"
	"testing"
	"time"

	id "nagrik/pkg/domain"
	"nagrik/pkg/requestcontext"

	"github.com/stretchr/testify/suite"
)

// CheckerSuite tests rate and duplicate detection over the in-memory store.
//
// Justification: two simultaneous submissions from one user must not both
// read "not duplicate", and the retry flag must trip on an exact boundary.
type CheckerSuite struct {
	suite.Suite

	store   *InMemoryStore
	checker *Checker
	userID  id.UserID
	base    time.Time
}

func TestCheckerSuite(t *testing.T) {
	suite.Run(t, new(CheckerSuite))
}

func (s *CheckerSuite) SetupTest() {
	s.store = NewInMemoryStore(48 * time.Hour)
	s.checker = NewChecker(s.store)
	s.userID = id.NewUserID()
	s.base = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
}

func (s *CheckerSuite) ctxAt(t time.Time) context.Context {
	return requestcontext.WithTime(context.Background(), t)
}

func (s *CheckerSuite) record(docType, hash string, at time.Time) {
	s.Require().NoError(s.store.Record(context.Background(), Attempt{
		UserID:         s.userID,
		DocumentType:   docType,
		ContentHash:    hash,
		VerificationID: "VER-test",
		Decision:       "MANUAL_REVIEW",
		At:             at,
	}))
}

func (s *CheckerSuite) TestMultipleAttempts() {
	s.Run("four attempts in the hour do not trip the flag", func() {
		for i := range 4 {
			s.record("aadhaar", "", s.base.Add(time.Duration(i)*time.Minute))
		}
		res, err := s.checker.Check(s.ctxAt(s.base.Add(10*time.Minute)), s.userID, "aadhaar", "")
		s.Require().NoError(err)
		s.Equal(4, res.AttemptCount)
		s.False(res.MultipleAttempts)
	})

	s.Run("the fifth attempt trips the flag", func() {
		s.record("aadhaar", "", s.base.Add(5*time.Minute))
		res, err := s.checker.Check(s.ctxAt(s.base.Add(10*time.Minute)), s.userID, "aadhaar", "")
		s.Require().NoError(err)
		s.Equal(5, res.AttemptCount)
		s.True(res.MultipleAttempts)
	})

	s.Run("the flag clears once attempts age out of the window", func() {
		res, err := s.checker.Check(s.ctxAt(s.base.Add(60*time.Minute+30*time.Second)), s.userID, "aadhaar", "")
		s.Require().NoError(err)
		s.Equal(4, res.AttemptCount)
		s.False(res.MultipleAttempts)
	})

	s.Run("a different document type has its own window", func() {
		res, err := s.checker.Check(s.ctxAt(s.base.Add(10*time.Minute)), s.userID, "pan", "")
		s.Require().NoError(err)
		s.Zero(res.AttemptCount)
		s.False(res.MultipleAttempts)
	})
}

func (s *CheckerSuite) TestDuplicateDocument() {
	const hash = "f00dfeed"

	s.Run("same user resubmitting identical bytes within a day is flagged", func() {
		s.record("aadhaar", hash, s.base)
		res, err := s.checker.Check(s.ctxAt(s.base.Add(2*time.Hour)), s.userID, "aadhaar", hash)
		s.Require().NoError(err)
		s.True(res.DuplicateDocument)
	})

	s.Run("duplicates are detected across document types", func() {
		res, err := s.checker.Check(s.ctxAt(s.base.Add(2*time.Hour)), s.userID, "pan", hash)
		s.Require().NoError(err)
		s.True(res.DuplicateDocument)
	})

	s.Run("a different user submitting identical bytes is not flagged", func() {
		other := NewChecker(s.store)
		res, err := other.Check(s.ctxAt(s.base.Add(2*time.Hour)), id.NewUserID(), "aadhaar", hash)
		s.Require().NoError(err)
		s.False(res.DuplicateDocument)
	})

	s.Run("the flag clears after the dedup window", func() {
		res, err := s.checker.Check(s.ctxAt(s.base.Add(25*time.Hour)), s.userID, "aadhaar", hash)
		s.Require().NoError(err)
		s.False(res.DuplicateDocument)
	})
}

func (s *CheckerSuite) TestRecordDecision() {
	s.Run("fills the timestamp from request context when unset", func() {
		at := s.base.Add(30 * time.Minute)
		err := s.checker.RecordDecision(s.ctxAt(at), Attempt{
			UserID:       s.userID,
			DocumentType: "passbook",
		})
		s.Require().NoError(err)

		count, err := s.store.CountSince(context.Background(), s.userID, "passbook", at.Add(-time.Minute))
		s.Require().NoError(err)
		s.Equal(1, count)
	})
}

func TestIPRiskScore(t *testing.T) {
	cases := []struct {
		name string
		ip   string
		want int
	}{
		{"absent", "", 10},
		{"unparseable", "not-an-ip", 10},
		{"private range", "10.1.2.3", 5},
		{"loopback", "127.0.0.1", 5},
		{"known risky range", "185.220.101.7", 20},
		{"ordinary public", "203.0.113.9", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IPRiskScore(tc.ip); got != tc.want {
				t.Fatalf("IPRiskScore(%q) = %d, want %d", tc.ip, got, tc.want)
			}
		})
	}
}
