package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	MaxBodyBytes  int64

	Redis RedisConfig
	Kafka KafkaConfig
	AWS   AWSConfig

	PostgresURL string

	// DocumentBucket is the S3 bucket receiving encrypted document uploads.
	DocumentBucket string

	// FraudScorerURL is the endpoint of the generative risk scorer.
	// Empty means the rule-based fallback handles every request.
	FraudScorerURL string
}

// RedisConfig holds Redis connection settings for the attempt tracker.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig holds audit sink settings.
type KafkaConfig struct {
	Brokers    string
	AuditTopic string
}

// AWSConfig holds settings for the Textract/Rekognition/S3 clients.
type AWSConfig struct {
	Region   string
	Endpoint string
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("NAGRIK_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	maxBody := int64(12 << 20) // base64-encoded documents plus selfie
	if v := os.Getenv("MAX_BODY_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			maxBody = n
		}
	}

	bucket := os.Getenv("DOCUMENT_BUCKET")
	if bucket == "" {
		bucket = "nagrik-kyc-documents"
	}

	return Server{
		Addr:          addr,
		JWTSigningKey: jwtSigningKey,
		MaxBodyBytes:  maxBody,
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     10,
			MinIdleConns: 2,
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:    os.Getenv("KAFKA_BROKERS"),
			AuditTopic: envOr("KAFKA_AUDIT_TOPIC", "nagrik.audit.events"),
		},
		AWS: AWSConfig{
			Region:   envOr("AWS_REGION", "ap-south-1"),
			Endpoint: os.Getenv("AWS_ENDPOINT"),
		},
		PostgresURL:    os.Getenv("DATABASE_URL"),
		DocumentBucket: bucket,
		FraudScorerURL: os.Getenv("FRAUD_SCORER_URL"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
