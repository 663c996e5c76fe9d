package fueltools

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// operationsTotal counts client operations by operation and result type.
	operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fuel_client_operations_total",
		Help: "Total Fuel client operations by operation and result",
	}, []string{"operation", "result"})

	// cacheLookups counts cache-first lookups by outcome (hit or miss).
	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fuel_client_cache_lookups_total",
		Help: "Total cache-first model lookups by outcome",
	}, []string{"result"})

	// offlineFallbacks counts listings answered from the cache because the
	// server listing could not be started.
	offlineFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fuel_client_offline_fallbacks_total",
		Help: "Total model listings served from the cache after a server failure",
	})
)

// record counts r under op and returns it unchanged.
func record(op string, r Result) Result {
	operationsTotal.WithLabelValues(op, r.Type.String()).Inc()
	return r
}
