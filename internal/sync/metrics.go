package sync

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// operationsTotal counts sync operations by operation and outcome. Exposition
// is the embedding process's concern; this module only records.
var operationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "calsync",
		Subsystem: "sync",
		Name:      "operations_total",
		Help:      "Calendar sync operations by operation and status.",
	},
	[]string{"operation", "status"},
)

// providerCallDuration observes the latency of provider calls.
var providerCallDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: "calsync",
		Subsystem: "sync",
		Name:      "provider_call_duration_seconds",
		Help:      "Latency of calendar provider calls.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation"},
)
