// Package metrics provides Prometheus metrics recording for internal packages.
// This package exists to avoid import cycles between service and middleware packages.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Upstream call outcomes
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	// upstreamRequests tracks upstream calls by outcome and failure reason
	upstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webservice_upstream_requests_total",
			Help: "Total number of upstream requests by outcome",
		},
		[]string{"outcome", "reason"},
	)

	// upstreamDuration tracks the latency of attempted upstream calls
	upstreamDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "webservice_upstream_request_duration_seconds",
			Help:    "Upstream request latency in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	// syntheticFaults tracks injected upstream failures
	syntheticFaults = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "webservice_synthetic_faults_total",
			Help: "Total number of synthetic upstream faults injected",
		},
	)

	// simulatedDelay tracks the delays served in delay mode
	simulatedDelay = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "webservice_simulated_delay_seconds",
			Help:    "Simulated processing delay in seconds",
			Buckets: []float64{.1, .25, .5, .75, 1, 1.25, 1.5, 1.75, 2},
		},
	)
)

// RecordUpstreamSuccess records a successful upstream call
func RecordUpstreamSuccess(duration time.Duration) {
	upstreamRequests.WithLabelValues(OutcomeSuccess, "").Inc()
	upstreamDuration.Observe(duration.Seconds())
}

// RecordUpstreamFailure records a failed upstream call. duration is zero for
// failures injected before the call was attempted.
func RecordUpstreamFailure(reason string, duration time.Duration) {
	upstreamRequests.WithLabelValues(OutcomeFailure, reason).Inc()
	if duration > 0 {
		upstreamDuration.Observe(duration.Seconds())
	}
}

// RecordSyntheticFault records an injected upstream fault
func RecordSyntheticFault() {
	syntheticFaults.Inc()
}

// RecordSimulatedDelay records a served processing delay
func RecordSimulatedDelay(d time.Duration) {
	simulatedDelay.Observe(d.Seconds())
}
