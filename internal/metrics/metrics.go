package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ComparisonRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "comparison_requests_total",
			Help: "Total number of price comparison requests",
		},
		[]string{"status"},
	)

	ComparisonDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "comparison_duration_seconds",
			Help: "Duration of the full provider fan-out in seconds",
		},
	)

	ProviderQuotes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_quotes_total",
			Help: "Provider quote outcomes per platform",
		},
		[]string{"platform", "outcome"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "result_cache_lookups_total",
			Help: "Comparison result cache hits and misses",
		},
		[]string{"outcome"},
	)
)
