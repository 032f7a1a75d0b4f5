package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeSuccess     = "success"
	OutcomeRejected    = "rejected"
	OutcomeHTTPError   = "http_error"
	OutcomeUnreachable = "unreachable"
	OutcomeInvalid     = "invalid"
	OutcomeStale       = "stale"
)

var (
	backendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostel_backend_requests_total",
			Help: "Requests sent to the hostel backend by endpoint and outcome",
		},
		[]string{"endpoint", "method", "outcome"},
	)

	backendLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hostel_backend_request_duration_seconds",
			Help:    "Latency of hostel backend requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	flowOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostel_desk_flow_total",
			Help: "Desk flow completions by flow and outcome",
		},
		[]string{"flow", "outcome"},
	)

	activeWorkspaces = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hostel_desk_workspaces",
			Help: "Operator workspaces currently held in memory",
		},
	)
)

func ObserveBackend(endpoint, method, outcome string, started time.Time) {
	backendRequests.WithLabelValues(endpoint, method, outcome).Inc()
	backendLatency.WithLabelValues(endpoint).Observe(time.Since(started).Seconds())
}

func ObserveFlow(flow, outcome string) {
	flowOutcomes.WithLabelValues(flow, outcome).Inc()
}

func SetWorkspaces(count int) {
	activeWorkspaces.Set(float64(count))
}

func Handler() http.Handler {
	return promhttp.Handler()
}
