// Package metrics exposes Prometheus instrumentation for the calendar
// engine and its synchronization protocol.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MutationsTotal counts state mutations by operation (advance, set_date,
	// set_time, set_sync, install_shape, inbound_sync) and outcome.
	MutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "almanac_mutations_total",
			Help: "Total number of calendar state mutations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// SyncExchangesTotal counts synchronization exchanges with the external
	// clock by direction (inbound/outbound) and result (applied, suppressed,
	// noop).
	SyncExchangesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "almanac_sync_exchanges_total",
			Help: "Total number of external-clock sync exchanges by direction and result",
		},
		[]string{"direction", "result"},
	)

	// LinearTime reports the engine's current position on the linear
	// timeline in seconds.
	LinearTime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "almanac_linear_time_seconds",
			Help: "Current engine position on the linear timeline in seconds",
		},
	)
)

// RecordMutation records a completed or failed mutation.
func RecordMutation(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	MutationsTotal.WithLabelValues(operation, outcome).Inc()
}

// RecordSync records a sync exchange result.
func RecordSync(direction, result string) {
	SyncExchangesTotal.WithLabelValues(direction, result).Inc()
}

// SetLinearTime updates the linear-time gauge.
func SetLinearTime(seconds float64) {
	LinearTime.Set(seconds)
}
