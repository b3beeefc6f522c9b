package fraud

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	id "nagrik/pkg/domain"

	"github.com/stretchr/testify/suite"
)

// cleanSignals returns a vector with every signal in its benign state.
func cleanSignals(docType id.DocumentType) Signals {
	return Signals{
		DocumentType:      docType,
		ChecksumValid:     true,
		OCRMatchScore:     90,
		TextConsistency:   80,
		LayoutConsistency: 80,
		FontConsistency:   80,
		MetadataFlags:     []string{},
	}
}

// FallbackSuite tests the deterministic point model.
//
// Justification: the fallback is the correctness backstop when the scoring
// service is down, so its arithmetic must hold exactly.
type FallbackSuite struct {
	suite.Suite
}

func TestFallbackSuite(t *testing.T) {
	suite.Run(t, new(FallbackSuite))
}

func (s *FallbackSuite) TestCleanSignalsApprove() {
	res := ScoreFallback(cleanSignals(id.DocumentAadhaar))
	s.Zero(res.FraudProbability)
	s.Equal(RiskLow, res.RiskLevel)
	s.Equal(100, res.ConfidenceScore)
	s.Equal(ActionApprove, res.RecommendedAction)
	s.Empty(res.Flags)
}

func (s *FallbackSuite) TestChecksumOnlyStaysLow() {
	signals := cleanSignals(id.DocumentAadhaar)
	signals.ChecksumValid = false

	res := ScoreFallback(signals)
	s.Equal(30, res.FraudProbability)
	s.Equal(RiskLow, res.RiskLevel)
	s.Equal(70, res.ConfidenceScore)
	s.Equal(ActionApprove, res.RecommendedAction)
	s.Equal([]string{"CHECKSUM_INVALID"}, res.Flags)
}

func (s *FallbackSuite) TestChecksumPlusWeakOCRIsMedium() {
	signals := cleanSignals(id.DocumentAadhaar)
	signals.ChecksumValid = false
	signals.OCRMatchScore = 40

	res := ScoreFallback(signals)
	s.Equal(55, res.FraudProbability)
	s.Equal(RiskMedium, res.RiskLevel)
	s.Equal(ActionManualReview, res.RecommendedAction)
	s.Contains(res.Flags, "CHECKSUM_INVALID")
	s.Contains(res.Flags, "OCR_MATCH_LOW")
}

func (s *FallbackSuite) TestFaceSimilarityBands() {
	s.Run("absent face similarity contributes nothing", func() {
		res := ScoreFallback(cleanSignals(id.DocumentPAN))
		s.Zero(res.FraudProbability)
	})

	s.Run("low similarity adds 25", func() {
		signals := cleanSignals(id.DocumentAadhaar)
		similarity := 30
		signals.FaceSimilarity = &similarity
		res := ScoreFallback(signals)
		s.Equal(25, res.FraudProbability)
		s.Contains(res.Flags, "FACE_SIMILARITY_LOW")
	})

	s.Run("moderate similarity adds 10", func() {
		signals := cleanSignals(id.DocumentAadhaar)
		similarity := 65
		signals.FaceSimilarity = &similarity
		res := ScoreFallback(signals)
		s.Equal(10, res.FraudProbability)
		s.Contains(res.Flags, "FACE_SIMILARITY_MODERATE")
	})

	s.Run("similarity at the threshold adds nothing", func() {
		signals := cleanSignals(id.DocumentAadhaar)
		similarity := 70
		signals.FaceSimilarity = &similarity
		res := ScoreFallback(signals)
		s.Zero(res.FraudProbability)
	})
}

func (s *FallbackSuite) TestAccumulationClampsAtHundred() {
	similarity := 20
	qrMatch := false
	signals := Signals{
		DocumentType:        id.DocumentAadhaar,
		ChecksumValid:       false,
		OCRMatchScore:       10,
		FaceSimilarity:      &similarity,
		QRMatch:             &qrMatch,
		SuspiciousPatterns:  true,
		MultipleAttempts:    true,
		DuplicateSubmission: true,
		TextConsistency:     20,
		LayoutConsistency:   20,
	}

	res := ScoreFallback(signals)
	s.Equal(100, res.FraudProbability)
	s.Equal(RiskHigh, res.RiskLevel)
	s.Zero(res.ConfidenceScore)
	s.Equal(ActionReject, res.RecommendedAction)
	s.Len(res.Flags, 9)
}

func (s *FallbackSuite) TestRiskBoundaries() {
	cases := []struct {
		probability int
		want        RiskLevel
	}{
		{0, RiskLow}, {30, RiskLow}, {31, RiskMedium}, {60, RiskMedium}, {61, RiskHigh}, {100, RiskHigh},
	}
	for _, tc := range cases {
		s.Equal(tc.want, riskFromProbability(tc.probability), "probability %d", tc.probability)
	}
}

// ParseSuite tests defensive parsing of scorer output.
type ParseSuite struct {
	suite.Suite
}

func TestParseSuite(t *testing.T) {
	suite.Run(t, new(ParseSuite))
}

func (s *ParseSuite) TestExtractsFirstJSONBlock() {
	output := "Here is my assessment:\n" +
		`{"fraudProbability": 72, "riskLevel": "HIGH", "confidenceScore": 80, "explanation": "forged layout", "recommendedAction": "REJECT", "flags": ["LAYOUT"]}` +
		"\nLet me know if you need more."

	res, err := ParseScorerOutput(output)
	s.Require().NoError(err)
	s.Equal(72, res.FraudProbability)
	s.Equal(RiskHigh, res.RiskLevel)
	s.Equal(ActionReject, res.RecommendedAction)
	s.Equal([]string{"LAYOUT"}, res.Flags)
}

func (s *ParseSuite) TestClampsAndCoerces() {
	res, err := ParseScorerOutput(`{"fraudProbability": 250, "riskLevel": "catastrophic", "confidenceScore": -5}`)
	s.Require().NoError(err)
	s.Equal(100, res.FraudProbability)
	s.Equal(RiskMedium, res.RiskLevel)
	s.Zero(res.ConfidenceScore)
	s.Equal(ActionManualReview, res.RecommendedAction)
	s.NotNil(res.Flags)
	s.Empty(res.Flags)
}

func (s *ParseSuite) TestDerivesConfidenceWhenAbsent() {
	res, err := ParseScorerOutput(`{"fraudProbability": 20, "riskLevel": "LOW", "recommendedAction": "APPROVE"}`)
	s.Require().NoError(err)
	s.Equal(80, res.ConfidenceScore)
}

func (s *ParseSuite) TestRejectsOutputWithoutJSON() {
	_, err := ParseScorerOutput("I cannot assess this document.")
	s.Error(err)

	_, err = ParseScorerOutput(`{"riskLevel": "LOW"}`)
	s.Error(err)

	_, err = ParseScorerOutput(`{"fraudProbability": 20`)
	s.Error(err)
}

func (s *ParseSuite) TestBracesInsideStringsDoNotConfuseExtraction() {
	res, err := ParseScorerOutput(`{"fraudProbability": 10, "riskLevel": "LOW", "explanation": "odd chars } { here", "recommendedAction": "APPROVE"}`)
	s.Require().NoError(err)
	s.Equal(10, res.FraudProbability)
	s.Equal("odd chars } { here", res.Explanation)
}

// scriptedScorer returns a fixed output or error.
type scriptedScorer struct {
	output string
	err    error
}

func (s scriptedScorer) Score(context.Context, string) (string, error) {
	return s.output, s.err
}

// EngineSuite tests primary/fallback selection.
type EngineSuite struct {
	suite.Suite
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) TestPrimaryPathWins() {
	engine := NewEngine(scriptedScorer{
		output: `{"fraudProbability": 42, "riskLevel": "MEDIUM", "confidenceScore": 77, "recommendedAction": "MANUAL_REVIEW", "flags": []}`,
	})
	res := engine.Analyze(context.Background(), cleanSignals(id.DocumentPAN))
	s.Equal(42, res.FraudProbability)
	s.Equal(77, res.ConfidenceScore)
	s.False(res.UsedFallback)
}

func (s *EngineSuite) TestScorerErrorFallsBack() {
	engine := NewEngine(scriptedScorer{err: errors.New("timeout")})
	signals := cleanSignals(id.DocumentAadhaar)
	signals.ChecksumValid = false

	res := engine.Analyze(context.Background(), signals)
	s.Equal(30, res.FraudProbability)
	s.Equal([]string{"CHECKSUM_INVALID"}, res.Flags)
	s.True(res.UsedFallback)
}

func (s *EngineSuite) TestUnparseableOutputFallsBack() {
	engine := NewEngine(scriptedScorer{output: "the document looks fine to me"})
	res := engine.Analyze(context.Background(), cleanSignals(id.DocumentAadhaar))
	s.Zero(res.FraudProbability)
	s.Equal(ActionApprove, res.RecommendedAction)
	s.True(res.UsedFallback)
}

func (s *EngineSuite) TestNilScorerUsesFallback() {
	engine := NewEngine(nil)
	res := engine.Analyze(context.Background(), cleanSignals(id.DocumentAadhaar))
	s.Equal(RiskLow, res.RiskLevel)
	s.True(res.UsedFallback)
}

func TestLLMScorerRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"output": "{\"fraudProbability\": 5, \"riskLevel\": \"LOW\", \"recommendedAction\": \"APPROVE\"}"}`))
	}))
	defer server.Close()

	scorer := NewLLMScorer(server.URL, 2*time.Second)
	engine := NewEngine(scorer)
	res := engine.Analyze(context.Background(), cleanSignals(id.DocumentPAN))

	if res.FraudProbability != 5 {
		t.Fatalf("expected probability 5 from primary path, got %d", res.FraudProbability)
	}
}

func TestLLMScorerNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	scorer := NewLLMScorer(server.URL, 2*time.Second)
	if _, err := scorer.Score(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error on non-200 response")
	}
}
