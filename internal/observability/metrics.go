// Package observability provides metrics and tracing for the application.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CounterAdjustments counts denormalized video counter mutations,
	// labeled by counter name (likes, comments) and direction
	// (increment, decrement).
	CounterAdjustments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kidtube_counter_adjustments_total",
		Help: "Total adjustments applied to denormalized video counters",
	}, []string{"counter", "direction"})

	// CacheHits counts cache-aside hits by key class.
	CacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kidtube_cache_hits_total",
		Help: "Total cache hits",
	}, []string{"key"})

	// CacheMisses counts cache-aside misses by key class.
	CacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kidtube_cache_misses_total",
		Help: "Total cache misses",
	}, []string{"key"})
)
