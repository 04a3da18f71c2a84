// Package metrics defines Prometheus metrics for the simulator.
//
// Metrics are registered on Registry, which Handler serves. Names use the
// netsim_ prefix, _total for counters and _seconds for durations.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every netsim metric plus the Go runtime collectors.
var Registry = prometheus.NewRegistry()

var (
	// CommandsTotal counts dispatched commands by handler and outcome.
	// Unclaimed commands use handler "none".
	CommandsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netsim_commands_total",
			Help: "Total CLI commands dispatched by handler and success.",
		},
		[]string{"handler", "success"},
	)

	// CommandDurationSeconds is a histogram of dispatch latency by handler.
	CommandDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "netsim_command_duration_seconds",
			Help:    "Time spent dispatching a CLI command.",
			Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		},
		[]string{"handler"},
	)

	// PingProbesTotal counts individual echo probes by result.
	PingProbesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "netsim_ping_probes_total",
			Help: "Total ping probes sent, by whether a reply arrived.",
		},
		[]string{"result"},
	)

	// Devices is the number of devices in the loaded topology.
	Devices = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "netsim_devices",
			Help: "Number of devices in the loaded topology.",
		},
	)

	// ConsoleSessions is the number of open console sessions.
	ConsoleSessions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "netsim_console_sessions",
			Help: "Number of open console sessions.",
		},
	)
)

func init() {
	Registry.MustRegister(
		CommandsTotal,
		CommandDurationSeconds,
		PingProbesTotal,
		Devices,
		ConsoleSessions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// RecordCommand records one dispatched command.
func RecordCommand(handler string, success bool, duration time.Duration) {
	if handler == "" {
		handler = "none"
	}
	CommandsTotal.WithLabelValues(handler, strconv.FormatBool(success)).Inc()
	CommandDurationSeconds.WithLabelValues(handler).Observe(duration.Seconds())
}

// RecordPingProbe records one echo probe.
func RecordPingProbe(replied bool) {
	result := "timeout"
	if replied {
		result = "reply"
	}
	PingProbesTotal.WithLabelValues(result).Inc()
}

// SetDevices records the topology size.
func SetDevices(n int) {
	Devices.Set(float64(n))
}

// SessionOpened and SessionClosed track console sessions.
func SessionOpened() { ConsoleSessions.Inc() }

func SessionClosed() { ConsoleSessions.Dec() }

// Handler serves Registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
