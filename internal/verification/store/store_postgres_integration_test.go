//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"nagrik/internal/fraud"
	"nagrik/internal/verification/models"
	"nagrik/internal/verification/store"
	id "nagrik/pkg/domain"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

type PostgresStoreSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	pool      *pgxpool.Pool
	store     *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("nagrik_test"),
		postgres.WithUsername("nagrik"),
		postgres.WithPassword("nagrik"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	s.Require().NoError(err)

	pool, err := pgxpool.New(ctx, connStr)
	s.Require().NoError(err)
	s.pool = pool

	_, err = pool.Exec(ctx, store.Schema)
	s.Require().NoError(err)

	s.store = store.NewPostgres(pool)
}

func (s *PostgresStoreSuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(context.Background())
	}
}

func (s *PostgresStoreSuite) SetupTest() {
	_, err := s.pool.Exec(context.Background(), "TRUNCATE verification_results")
	s.Require().NoError(err)
}

func sampleResult(userID id.UserID) *models.VerificationResult {
	similarity := 88
	return &models.VerificationResult{
		VerificationID:  "VER-1757576000000-ab12cd34",
		UserID:          userID,
		DocumentType:    id.DocumentAadhaar,
		Status:          models.StatusVerified,
		StructuralValid: true,
		OCRMatchScore:   91,
		FaceSimilarity:  &similarity,
		FraudAnalysis: &fraud.Analysis{
			FraudProbability:  5,
			RiskLevel:         fraud.RiskLow,
			ConfidenceScore:   95,
			Explanation:       "all signals clean",
			RecommendedAction: fraud.ActionApprove,
			Flags:             []string{},
		},
		MaskedDocumentNumber: "XXXX-XXXX-2506",
		ExtractedData: &models.ExtractedData{
			Name:          "Ramesh Kumar",
			OCRConfidence: 93,
		},
		CreatedAt:        time.Now().UTC().Truncate(time.Millisecond),
		ProcessingTimeMs: 2140,
	}
}

func (s *PostgresStoreSuite) TestSaveAndFindByID() {
	ctx := context.Background()
	userID := id.NewUserID()
	want := sampleResult(userID)

	s.Require().NoError(s.store.Save(ctx, want))

	got, err := s.store.FindByID(ctx, want.VerificationID)
	s.Require().NoError(err)
	s.Equal(want.VerificationID, got.VerificationID)
	s.Equal(want.UserID, got.UserID)
	s.Equal(want.Status, got.Status)
	s.Equal(want.MaskedDocumentNumber, got.MaskedDocumentNumber)
	s.Require().NotNil(got.FaceSimilarity)
	s.Equal(88, *got.FaceSimilarity)
	s.Require().NotNil(got.FraudAnalysis)
	s.Equal(fraud.RiskLow, got.FraudAnalysis.RiskLevel)
	s.Require().NotNil(got.ExtractedData)
	s.Equal("Ramesh Kumar", got.ExtractedData.Name)
}

func (s *PostgresStoreSuite) TestFindByIDNotFound() {
	_, err := s.store.FindByID(context.Background(), "VER-missing")
	s.ErrorIs(err, store.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListByUserOrdersNewestFirst() {
	ctx := context.Background()
	userID := id.NewUserID()

	first := sampleResult(userID)
	first.VerificationID = "VER-1-aaaa"
	first.CreatedAt = time.Now().UTC().Add(-time.Hour)
	second := sampleResult(userID)
	second.VerificationID = "VER-2-bbbb"
	second.CreatedAt = time.Now().UTC()

	s.Require().NoError(s.store.Save(ctx, first))
	s.Require().NoError(s.store.Save(ctx, second))
	s.Require().NoError(s.store.Save(ctx, sampleResult(id.NewUserID())))

	results, err := s.store.ListByUser(ctx, userID, 10)
	s.Require().NoError(err)
	s.Require().Len(results, 2)
	s.Equal("VER-2-bbbb", results[0].VerificationID)
	s.Equal("VER-1-aaaa", results[1].VerificationID)
}
