// Package metrics provides Prometheus metrics for the verification pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all verification pipeline metrics.
type Metrics struct {
	VerificationsTotal *prometheus.CounterVec // Completed verifications by document type and status

	PipelineDurationSeconds *prometheus.HistogramVec // End-to-end pipeline latency by document type

	FraudRiskTotal *prometheus.CounterVec // Fraud assessments by risk level

	ScorerFallbacksTotal prometheus.Counter // Times the rule-based fraud fallback was used

	CollaboratorFailuresTotal *prometheus.CounterVec // Degraded collaborator calls by collaborator name
}

// New creates a new Metrics instance with all metrics registered.
func New() *Metrics {
	return &Metrics{
		VerificationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nagrik_verifications_total",
			Help: "Total completed verifications by document type and final status",
		}, []string{"document_type", "status"}),

		PipelineDurationSeconds: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nagrik_verification_pipeline_duration_seconds",
			Help:    "End-to-end verification pipeline duration by document type",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"document_type"}),

		FraudRiskTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nagrik_fraud_risk_total",
			Help: "Total fraud assessments by risk level",
		}, []string{"risk_level"}),

		ScorerFallbacksTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "nagrik_fraud_scorer_fallbacks_total",
			Help: "Total times the deterministic fraud fallback replaced the generative scorer",
		}),

		CollaboratorFailuresTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "nagrik_collaborator_failures_total",
			Help: "Total degraded collaborator calls by collaborator",
		}, []string{"collaborator"}),
	}
}

// RecordVerification records one completed verification.
func (m *Metrics) RecordVerification(documentType, status string, durationSeconds float64) {
	m.VerificationsTotal.WithLabelValues(documentType, status).Inc()
	m.PipelineDurationSeconds.WithLabelValues(documentType).Observe(durationSeconds)
}

// RecordRisk records the risk level of one fraud assessment.
func (m *Metrics) RecordRisk(riskLevel string) {
	m.FraudRiskTotal.WithLabelValues(riskLevel).Inc()
}

// RecordScorerFallback records one use of the rule-based fallback.
func (m *Metrics) RecordScorerFallback() {
	m.ScorerFallbacksTotal.Inc()
}

// RecordCollaboratorFailure records one degraded collaborator call.
func (m *Metrics) RecordCollaboratorFailure(collaborator string) {
	m.CollaboratorFailuresTotal.WithLabelValues(collaborator).Inc()
}
