package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"nagrik/internal/attempts"
	"nagrik/internal/face"
	"nagrik/internal/fraud"
	"nagrik/internal/ocr"
	"nagrik/internal/platform/config"
	"nagrik/internal/platform/kafka/producer"
	"nagrik/internal/platform/logger"
	redisclient "nagrik/internal/platform/redis"
	"nagrik/internal/storage"
	"nagrik/internal/verification/handler"
	"nagrik/internal/verification/metrics"
	"nagrik/internal/verification/service"
	"nagrik/internal/verification/store"
	"nagrik/internal/verification/tracer"
	"nagrik/pkg/platform/audit"
	"nagrik/pkg/platform/audit/publisher"
	"nagrik/pkg/platform/middleware/auth"
	"nagrik/pkg/platform/middleware/device"
	"nagrik/pkg/platform/middleware/metadata"
	"nagrik/pkg/platform/middleware/request"
)

// kafkaAuditProducer bridges the platform Kafka producer to the audit sink's
// message shape.
type kafkaAuditProducer struct {
	producer *producer.Producer
}

func (p *kafkaAuditProducer) Produce(ctx context.Context, msg *audit.ProducerMessage) error {
	return p.producer.Produce(ctx, &producer.Message{
		Topic:   msg.Topic,
		Key:     msg.Key,
		Value:   msg.Value,
		Headers: msg.Headers,
	})
}

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx := context.Background()

	log.Info("initializing nagrik",
		"addr", cfg.Addr,
		"redis_configured", cfg.Redis.URL != "",
		"kafka_configured", cfg.Kafka.Brokers != "",
		"postgres_configured", cfg.PostgresURL != "",
		"fraud_scorer_configured", cfg.FraudScorerURL != "",
	)

	// Attempt history: Redis when configured, in-memory otherwise.
	var attemptStore attempts.Store
	redisConn, err := redisclient.New(cfg.Redis)
	if err != nil {
		log.Error("redis init failed", "error", err)
		os.Exit(1)
	}
	if redisConn != nil {
		defer redisConn.Close() //nolint:errcheck // best-effort on shutdown
		attemptStore = attempts.NewRedisStore(redisConn.Client, attempts.DedupWindow)
	} else {
		log.Warn("redis not configured, attempt history is process-local")
		attemptStore = attempts.NewInMemoryStore(attempts.DedupWindow)
	}
	tracker := attempts.NewChecker(attemptStore, attempts.WithLogger(log))

	// Audit trail: Kafka when configured, in-memory otherwise.
	var auditStore audit.Store
	var kafkaProducer *producer.Producer
	if cfg.Kafka.Brokers != "" {
		kafkaProducer, err = producer.New(producer.Config{
			Brokers:         cfg.Kafka.Brokers,
			Retries:         3,
			DeliveryTimeout: 10 * time.Second,
		}, log)
		if err != nil {
			log.Error("kafka producer init failed", "error", err)
			os.Exit(1)
		}
		defer kafkaProducer.Close() //nolint:errcheck // best-effort on shutdown
		auditStore = audit.NewKafkaStore(&kafkaAuditProducer{producer: kafkaProducer}, cfg.Kafka.AuditTopic)
	} else {
		log.Warn("kafka not configured, audit trail is process-local")
		auditStore = audit.NewInMemoryStore()
	}
	auditPublisher := publisher.NewPublisher(auditStore,
		publisher.WithAsyncBuffer(256),
		publisher.WithPublisherLogger(log))
	defer auditPublisher.Close()

	// AWS collaborators: Textract for OCR, Rekognition for face comparison,
	// S3 for document archiving.
	awsOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWS.Region),
	}
	if cfg.AWS.Endpoint != "" {
		awsOpts = append(awsOpts, awsconfig.WithBaseEndpoint(cfg.AWS.Endpoint))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsOpts...)
	if err != nil {
		log.Error("aws config load failed", "error", err)
		os.Exit(1)
	}

	ocrAdapter := ocr.NewAdapter(ocr.NewTextractEngine(textract.NewFromConfig(awsCfg)), ocr.WithLogger(log))
	faceComparer := face.NewComparer(face.NewRekognitionEngine(rekognition.NewFromConfig(awsCfg)), face.WithLogger(log))
	objects := storage.NewS3Store(s3.NewFromConfig(awsCfg), cfg.DocumentBucket)

	// Fraud scoring: generative scorer when configured, rule-based fallback
	// otherwise. The engine also falls back per-request on scorer failure.
	var scorer fraud.Scorer
	if cfg.FraudScorerURL != "" {
		scorer = fraud.NewLLMScorer(cfg.FraudScorerURL, 30*time.Second)
	}
	fraudEngine := fraud.NewEngine(scorer, fraud.WithLogger(log))

	// Result persistence: Postgres when configured, in-memory otherwise.
	var resultStore store.ResultStore
	var pool *pgxpool.Pool
	if cfg.PostgresURL != "" {
		pool, err = pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Error("postgres pool init failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		resultStore = store.NewPostgres(pool)
	} else {
		log.Warn("postgres not configured, results are process-local")
		resultStore = store.NewInMemoryStore()
	}

	m := metrics.New()
	svc := service.New(ocrAdapter, fraudEngine, tracker, resultStore,
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithAuditPublisher(auditPublisher),
		service.WithObjectStore(objects),
		service.WithFaceComparer(faceComparer),
		service.WithTracer(tracer.NewOTel()),
	)
	h := handler.New(svc, log, handler.WithAuditLog(auditPublisher))

	validator := auth.NewHMACValidator(cfg.JWTSigningKey)
	metadataMw := metadata.NewMiddleware(metadata.DefaultConfig())

	router := chi.NewRouter()
	router.Use(request.Recovery(log))
	router.Use(request.RequestID)
	router.Use(metadataMw.Handler)
	router.Use(device.Fingerprint)
	router.Use(request.Logger(log))
	router.Use(request.BodyLimit(cfg.MaxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		healthCtx, healthCancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer healthCancel()

		if redisConn != nil {
			if err := redisConn.Health(healthCtx); err != nil {
				http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		if kafkaProducer != nil && !kafkaProducer.Healthy(healthCtx) {
			http.Error(w, "kafka unavailable", http.StatusServiceUnavailable)
			return
		}
		if pool != nil {
			if err := pool.Ping(healthCtx); err != nil {
				http.Error(w, "postgres unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())

	router.Route("/v1", func(r chi.Router) {
		r.Use(auth.RequireAuth(validator, log))
		h.Register(r)
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
