// Package metrics defines Prometheus metrics for recipe API traffic.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "foodrecipes"

// Remote API metrics.
var (
	RemoteRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "remote_requests_total",
		Help:      "Total recipe API calls by operation and outcome status.",
	}, []string{"operation", "status"})

	RemoteRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "remote_request_duration_seconds",
		Help:      "Duration of recipe API calls in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})
)

// Search lifecycle metrics.
var (
	SearchesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "searches_total",
		Help:      "Total search requests started.",
	})

	SearchesExhaustedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "searches_exhausted_total",
		Help:      "Total search completions that signalled exhaustion.",
	})

	SearchesDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "searches_dropped_total",
		Help:      "Total search completions discarded without notifying listeners.",
	}, []string{"reason"}) // "superseded", "cancelled"

	RecipeLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "recipe_lookups_total",
		Help:      "Total single recipe lookups by result.",
	}, []string{"result"}) // "loaded", "error"
)
