// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funnel_submissions_total",
			Help: "Total number of questionnaire submissions by qualification outcome",
		},
		[]string{"outcome"},
	)

	CheckoutSessionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funnel_checkout_sessions_total",
			Help: "Total number of checkout sessions created by plan and mode",
		},
		[]string{"plan", "mode"},
	)

	WebhookEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funnel_webhook_events_total",
			Help: "Total number of inbound webhook events by source and type",
		},
		[]string{"source", "event_type"},
	)

	SideEffectsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funnel_side_effects_total",
			Help: "Total number of downstream side effects by effect and status",
		},
		[]string{"effect", "status"},
	)

	SweepProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "funnel_sweep_processed_total",
			Help: "Total number of subscribers processed by the polling sweep",
		},
		[]string{"kind"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "funnel_http_request_duration_seconds",
			Help: "Duration of HTTP request handling in seconds",
		},
		[]string{"route", "method", "status"},
	)
)
