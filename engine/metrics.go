package engine

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Load outcomes reported by launchpad_engine_inventory_loads_total.
const (
	loadOK       = "ok"
	loadError    = "error"
	loadStale    = "stale"
	loadRejected = "rejected"
)

type metrics struct {
	recomputations    prometheus.Counter
	resultSize        prometheus.Gauge
	recomputeDuration prometheus.Histogram
	actions           *prometheus.CounterVec
	dispatchFailures  *prometheus.CounterVec
	inventoryLoads    *prometheus.CounterVec
}

// newMetrics creates the engine metrics and registers them on reg. A nil
// reg leaves them unregistered.
func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		recomputations: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "launchpad_engine_recomputations_total",
				Help: "Total number of ranked list recomputations",
			},
		),
		resultSize: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "launchpad_engine_result_items",
				Help: "Number of items in the latest published list",
			},
		),
		recomputeDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "launchpad_engine_recompute_duration_seconds",
				Help:    "Time spent ranking the launch list",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
			},
		),
		actions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "launchpad_engine_actions_total",
				Help: "Total number of user actions by kind",
			},
			[]string{"kind"},
		),
		dispatchFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "launchpad_engine_dispatch_failures_total",
				Help: "Total number of requests the action sink failed to execute",
			},
			[]string{"request"},
		),
		inventoryLoads: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "launchpad_engine_inventory_loads_total",
				Help: "Total number of inventory loads by outcome",
			},
			[]string{"outcome"},
		),
	}
}
