package query

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tripchat",
		Subsystem: "query",
		Name:      "cache_hits_total",
		Help:      "Reads served from the query cache.",
	})

	cacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tripchat",
		Subsystem: "query",
		Name:      "cache_misses_total",
		Help:      "Reads that went to the network.",
	})

	cacheInvalidations = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tripchat",
		Subsystem: "query",
		Name:      "invalidations_total",
		Help:      "Cache invalidation calls.",
	})
)
