package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// queriesTotal counts handled queries by outcome.
	// Labels: outcome (done, or a failure code)
	queriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "smed",
			Subsystem: "engine",
			Name:      "queries_total",
			Help:      "Total number of handled queries by outcome",
		},
		[]string{"outcome"},
	)

	// queryDuration tracks end-to-end pipeline latency.
	queryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "smed",
			Subsystem: "engine",
			Name:      "query_duration_seconds",
			Help:      "End-to-end query pipeline duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	// domainsConsulted tracks how many domains contributed per query.
	domainsConsulted = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "smed",
			Subsystem: "engine",
			Name:      "domains_consulted",
			Help:      "Number of domains contributing to each answer",
			Buckets:   []float64{1, 2, 3, 4, 5, 6},
		},
	)

	// domainRetrievalFailures counts per-domain retrieval degradations.
	domainRetrievalFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "smed",
			Subsystem: "engine",
			Name:      "domain_retrieval_failures_total",
			Help:      "Total number of per-domain retrieval failures absorbed",
		},
	)

	// auditFailures counts audit sink errors (never surfaced to callers).
	auditFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "smed",
			Subsystem: "engine",
			Name:      "audit_failures_total",
			Help:      "Total number of audit sink failures",
		},
	)
)
