package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartmilk_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "smartmilk_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	PanicsRecovered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartmilk_panics_recovered_total",
			Help: "Total number of panics recovered",
		},
		[]string{"component"},
	)

	// Herd
	AlertsRaised = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartmilk_alerts_raised_total",
			Help: "Alerts produced by the evaluator",
		},
		[]string{"message", "severity"},
	)

	RecommendationsBuilt = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartmilk_recommendations_total",
			Help: "Recommendations produced by the synthesizer",
		},
		[]string{"priority"},
	)

	AlertsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "smartmilk_alerts_published_total",
			Help: "Alerts handed to the notification publisher",
		},
		[]string{"status"}, // status: success, failed
	)
)
