package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"nagrik/internal/fraud"
	"nagrik/internal/verification/models"
	id "nagrik/pkg/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists verification results in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres constructs a PostgreSQL-backed result store.
func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Schema is the DDL for the results table, applied by migrations.
const Schema = `
CREATE TABLE IF NOT EXISTS verification_results (
	verification_id        TEXT PRIMARY KEY,
	user_id                UUID NOT NULL,
	document_type          TEXT NOT NULL,
	status                 TEXT NOT NULL,
	structural_valid       BOOLEAN NOT NULL,
	ocr_match_score        INTEGER NOT NULL,
	face_similarity        INTEGER,
	fraud_analysis         JSONB NOT NULL,
	masked_document_number TEXT NOT NULL,
	extracted_data         JSONB,
	created_at             TIMESTAMPTZ NOT NULL,
	processing_time_ms     BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_verification_results_user
	ON verification_results (user_id, created_at DESC);
`

func (s *PostgresStore) Save(ctx context.Context, result *models.VerificationResult) error {
	fraudJSON, err := json.Marshal(result.FraudAnalysis)
	if err != nil {
		return fmt.Errorf("marshal fraud analysis: %w", err)
	}
	var extractedJSON []byte
	if result.ExtractedData != nil {
		extractedJSON, err = json.Marshal(result.ExtractedData)
		if err != nil {
			return fmt.Errorf("marshal extracted data: %w", err)
		}
	}

	query := `
		INSERT INTO verification_results (
			verification_id, user_id, document_type, status, structural_valid,
			ocr_match_score, face_similarity, fraud_analysis,
			masked_document_number, extracted_data, created_at, processing_time_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = s.pool.Exec(ctx, query,
		result.VerificationID,
		result.UserID.String(),
		result.DocumentType.String(),
		string(result.Status),
		result.StructuralValid,
		result.OCRMatchScore,
		result.FaceSimilarity,
		fraudJSON,
		result.MaskedDocumentNumber,
		extractedJSON,
		result.CreatedAt,
		result.ProcessingTimeMs,
	)
	if err != nil {
		return fmt.Errorf("save verification result: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, verificationID string) (*models.VerificationResult, error) {
	query := selectColumns + ` WHERE verification_id = $1`
	result, err := scanResult(s.pool.QueryRow(ctx, query, verificationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find verification result: %w", err)
	}
	return result, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID id.UserID, limit int) ([]*models.VerificationResult, error) {
	if limit <= 0 {
		limit = 50
	}
	query := selectColumns + ` WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := s.pool.Query(ctx, query, userID.String(), limit)
	if err != nil {
		return nil, fmt.Errorf("list verification results: %w", err)
	}
	defer rows.Close()

	var results []*models.VerificationResult
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan verification result: %w", err)
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate verification results: %w", err)
	}
	return results, nil
}

const selectColumns = `
	SELECT verification_id, user_id, document_type, status, structural_valid,
		ocr_match_score, face_similarity, fraud_analysis,
		masked_document_number, extracted_data, created_at, processing_time_ms
	FROM verification_results
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (*models.VerificationResult, error) {
	var (
		result        models.VerificationResult
		rawUserID     string
		documentType  string
		status        string
		fraudJSON     []byte
		extractedJSON []byte
	)
	err := row.Scan(
		&result.VerificationID,
		&rawUserID,
		&documentType,
		&status,
		&result.StructuralValid,
		&result.OCRMatchScore,
		&result.FaceSimilarity,
		&fraudJSON,
		&result.MaskedDocumentNumber,
		&extractedJSON,
		&result.CreatedAt,
		&result.ProcessingTimeMs,
	)
	if err != nil {
		return nil, err
	}

	userID, err := id.ParseUserID(rawUserID)
	if err != nil {
		return nil, fmt.Errorf("parse stored user id: %w", err)
	}
	result.UserID = userID
	result.DocumentType = id.DocumentType(documentType)
	result.Status = models.Status(status)

	result.FraudAnalysis = &fraud.Analysis{}
	if err := json.Unmarshal(fraudJSON, result.FraudAnalysis); err != nil {
		return nil, fmt.Errorf("decode fraud analysis: %w", err)
	}
	if len(extractedJSON) > 0 {
		result.ExtractedData = &models.ExtractedData{}
		if err := json.Unmarshal(extractedJSON, result.ExtractedData); err != nil {
			return nil, fmt.Errorf("decode extracted data: %w", err)
		}
	}
	return &result, nil
}
