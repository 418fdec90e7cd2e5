// Package metrics defines netwatch's Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Samples counts the ping samples appended to the sample log.
	Samples = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "netwatch_ping_samples_total",
			Help: "Ping samples parsed and appended to the sample log",
		},
	)

	// ParseErrors counts the ping output lines that could not be parsed.
	ParseErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "netwatch_ping_parse_errors_total",
			Help: "Ping output lines that did not match the expected pattern",
		},
	)

	// Sessions counts completed ping sessions by outcome (eof|stall).
	Sessions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netwatch_ping_sessions_total",
			Help: "Completed ping probe sessions",
		},
		[]string{"outcome"},
	)

	// SpeedtestTicks counts speedtest runs by outcome (ok|exec_error).
	SpeedtestTicks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netwatch_speedtest_ticks_total",
			Help: "Speedtest runs",
		},
		[]string{"outcome"},
	)
)
