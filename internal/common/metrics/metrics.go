// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DispatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_dispatches_total",
			Help: "Total number of notification dispatches by event code and status",
		},
		[]string{"event_code", "status"},
	)

	DispatchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "notification_dispatch_duration_seconds",
			Help: "Duration of a full dispatch call in seconds",
		},
		[]string{"event_code"},
	)

	ChannelFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_channel_failures_total",
			Help: "Per-channel delivery failures by error category",
		},
		[]string{"channel", "category"},
	)

	RecipientsNotified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_recipients_total",
			Help: "Recipients delivered to, by channel",
		},
		[]string{"channel"},
	)
)
