// Package metrics exposes prometheus counters for the tracking loop.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Ticks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skytrack_ticks_total",
		Help: "Tracking loop iterations.",
	})
	RotorMoves = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skytrack_rotor_moves_total",
		Help: "Positioning commands sent to the rotor.",
	})
	RotorSuppressed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skytrack_rotor_suppressed_total",
		Help: "Moves suppressed by configured travel limits.",
	})
	RotorErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skytrack_rotor_errors_total",
		Help: "Rotor commands that failed.",
	})
	RadioCommands = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skytrack_radio_commands_total",
		Help: "Frequency commands sent to the radio.",
	})
	RadioErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skytrack_radio_errors_total",
		Help: "Radio commands that failed.",
	})
	AosEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skytrack_aos_events_total",
		Help: "Acquisition-of-signal threshold crossings.",
	})
	LosEvents = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skytrack_los_events_total",
		Help: "Loss-of-signal threshold crossings.",
	})
)
