package mastra

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tripchat",
		Subsystem: "mastra",
		Name:      "requests_total",
		Help:      "Requests to the agent server, by operation and status class.",
	}, []string{"operation", "status"})

	streamChunksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tripchat",
		Subsystem: "mastra",
		Name:      "stream_chunks_total",
		Help:      "UI message stream chunks received, by chunk type.",
	}, []string{"type"})

	streamsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tripchat",
		Subsystem: "mastra",
		Name:      "streams_active",
		Help:      "Chat streams currently open.",
	})
)
