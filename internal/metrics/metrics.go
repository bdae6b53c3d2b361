// Package metrics defines the custom Prometheus metrics for the career
// assessment API. It is the single source of truth for metric names, labels,
// and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "career_compass"

// AssessmentsProcessedTotal counts assessments that finished processing.
// Labels:
//   - status: terminal status ("completed", "failed", "service_error")
//   - tier: pricing tier of the assessment
var AssessmentsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "assessments_processed_total",
		Help:      "Total number of assessments that finished processing.",
	},
	[]string{"status", "tier"},
)

// ScorerResultsTotal counts which scorer in the chain produced the result.
// Label:
//   - provider: "gemini", "openrouter" or "heuristic"
var ScorerResultsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scorer_results_total",
		Help:      "Total number of scoring results, labelled by producing provider.",
	},
	[]string{"provider"},
)

// PaymentsTotal counts payment state changes.
// Label:
//   - status: "paid" or "expired"
var PaymentsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_total",
		Help:      "Total number of payment transitions, labelled by resulting status.",
	},
	[]string{"status"},
)
