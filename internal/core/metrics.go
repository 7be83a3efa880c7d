package core

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	commandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "console_core_commands_total",
			Help: "Total core service command round-trips",
		},
		[]string{"command", "status"},
	)
	commandDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "console_core_command_duration_seconds",
			Help:    "Core service command round-trip duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)
)

func observeCommand(command, status string, elapsed time.Duration) {
	commandsTotal.WithLabelValues(command, status).Inc()
	commandDuration.WithLabelValues(command).Observe(elapsed.Seconds())
}
