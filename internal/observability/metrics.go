package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SummaryJobsProcessed counts daily-summary recomputations by outcome.
	SummaryJobsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "balance_summary_jobs_total",
		Help: "Daily summary recompute jobs, labeled by outcome.",
	}, []string{"outcome"})

	// SummaryJobsDropped counts jobs rejected because the queue was full.
	SummaryJobsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "balance_summary_jobs_dropped_total",
		Help: "Summary jobs dropped due to a full queue.",
	})

	// AggregationDuration observes how long one day's aggregation takes.
	AggregationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "balance_aggregation_seconds",
		Help:    "Time spent aggregating one day of logs.",
		Buckets: prometheus.DefBuckets,
	})
)
