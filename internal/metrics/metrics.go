// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RosterValidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roster_validations_total",
			Help: "Roster assignment validations by outcome code",
		},
		[]string{"code"},
	)

	BudgetDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "budget_decisions_total",
			Help: "Budget checks by outcome code",
		},
		[]string{"code"},
	)

	ReleaseFilterReadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "release_filter_reads_total",
			Help: "Attempt reads passed through the score release filter",
		},
		[]string{"mode", "released"},
	)

	GradeEarnedHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "attempt_grade_earned",
			Help:    "Distribution of graded attempt scores",
			Buckets: prometheus.LinearBuckets(0, 10, 10),
		},
		[]string{"kind"},
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

// OK is the code label for accepted checks.
const OK = "OK"
