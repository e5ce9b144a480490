package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every alarmbridge metric plus the Go and process collectors.
var Registry = prometheus.NewRegistry()

var (
	// FramesTotal counts stream segments by outcome.
	// result: decoded/parse_error
	FramesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alarmbridge_frames_total",
			Help: "Stream segments received, by decode result.",
		},
		[]string{"result"},
	)

	// AlarmsFiltered counts events whose alarm type is not on the allow-list.
	AlarmsFiltered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "alarmbridge_alarms_filtered_total",
			Help: "Events discarded because their alarm type is not allowed.",
		},
	)

	// AlarmsDispatched counts sink calls.
	// result: success/failed
	AlarmsDispatched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alarmbridge_alarms_dispatched_total",
			Help: "Records handed to the sink, by result.",
		},
		[]string{"result"},
	)

	// DispatchDropped counts records rejected because the dispatch queue was full.
	DispatchDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "alarmbridge_dispatch_dropped_total",
			Help: "Records dropped because the dispatch queue was full.",
		},
	)

	// DispatchLatency records sink call durations.
	DispatchLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "alarmbridge_dispatch_latency_seconds",
			Help:    "Latency of a single sink call.",
			Buckets: prometheus.DefBuckets,
		},
	)

	// ListenerState is 1 for the state each listener is currently in, 0 otherwise.
	ListenerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "alarmbridge_listener_state",
			Help: "Current state of each stream listener (1 = in state).",
		},
		[]string{"endpoint", "state"},
	)

	// ListenerReconnects counts connection drops per endpoint.
	ListenerReconnects = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alarmbridge_listener_reconnects_total",
			Help: "Stream connections dropped, per endpoint.",
		},
		[]string{"endpoint"},
	)

	// ReferenceRefresh counts full reference refreshes.
	// result: success/failed
	ReferenceRefresh = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "alarmbridge_reference_refresh_total",
			Help: "Wholesale reference dataset refreshes, by dataset and result.",
		},
		[]string{"kind", "result"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		FramesTotal,
		AlarmsFiltered,
		AlarmsDispatched,
		DispatchDropped,
		DispatchLatency,
		ListenerState,
		ListenerReconnects,
		ReferenceRefresh,
	)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}

// Result maps an error to the result label.
func Result(err error) string {
	if err != nil {
		return "failed"
	}
	return "success"
}
