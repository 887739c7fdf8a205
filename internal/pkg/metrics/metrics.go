package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for QuotesTotal.
const (
	OutcomeSuccess    = "success"
	OutcomeValidation = "validation_error"
	OutcomeNoRoutes   = "no_routes"
	OutcomeUpstream   = "upstream_error"
)

var (
	QuotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_router_quotes_total",
			Help: "Quote requests by routing policy and outcome",
		},
		[]string{"policy", "outcome"},
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bridge_router_upstream_request_duration_seconds",
			Help:    "Latency of the single route provider call per quote",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"outcome"},
	)

	RouteCandidates = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bridge_router_route_candidates",
		Help:    "Number of usable route candidates returned by the provider",
		Buckets: []float64{1, 2, 3, 5, 8, 13},
	})

	SelectedProvider = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_router_selected_route_total",
			Help: "Selected routes by provider label",
		},
		[]string{"provider"},
	)

	RateLimited = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bridge_router_rate_limited_total",
			Help: "Requests rejected by the per-client rate limiter",
		},
		[]string{"path"},
	)
)
