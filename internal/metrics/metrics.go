// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PerformancesCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "performances_created_total",
			Help: "Performances created from approved entries",
		},
		[]string{"event"},
	)

	PerformancesRepaired = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "performances_repaired_total",
			Help: "Existing performances corrected to match their entry",
		},
		[]string{"field"},
	)

	ReconcileFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reconcile_failures_total",
			Help: "Entries skipped during batch reconciliation",
		},
		[]string{"event"},
	)

	StatusTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "performance_status_transitions_total",
			Help: "Performance status changes",
		},
		[]string{"from", "to"},
	)

	CertificatesIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "certificates_issued_total",
			Help: "Certificate issuance attempts by result",
		},
		[]string{"result"},
	)

	ScoreSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "score_submissions_total",
			Help: "Judge score submissions by result",
		},
		[]string{"result"},
	)

	ScoreEdits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "score_edits_total",
			Help: "Audited edits of submitted scores",
		},
	)

	ScoresPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "scores_published_total",
			Help: "Performances whose scores were made public",
		},
	)

	PerformancePercentage = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "performance_percentage",
			Help:    "Distribution of certificate percentages",
			Buckets: prometheus.LinearBuckets(50, 5, 10),
		},
		[]string{"medallion"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)
