package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus counters and gauges for the alarm monitor.
type Metrics struct {
	AlarmsIngested      prometheus.Counter
	PollErrors          prometheus.Counter
	WebsocketReconnects prometheus.Counter
	NotificationsSent   *prometheus.CounterVec // labels: outcome={success,error}
	AlarmActive         prometheus.Gauge
	LastAlarmTimestamp  prometheus.Gauge
	IncidentsDisplayed  prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.AlarmsIngested,
		m.PollErrors,
		m.WebsocketReconnects,
		m.NotificationsSent,
		m.AlarmActive,
		m.LastAlarmTimestamp,
		m.IncidentsDisplayed,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		AlarmsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "einsatz_monitor",
			Name:      "alarms_ingested_total",
			Help:      "Total new alarms stored from poll and websocket delivery.",
		}),
		PollErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "einsatz_monitor",
			Name:      "poll_errors_total",
			Help:      "Total failed polls of the upstream alarm API.",
		}),
		WebsocketReconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "einsatz_monitor",
			Name:      "websocket_reconnects_total",
			Help:      "Total websocket connection attempts.",
		}),
		NotificationsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "einsatz_monitor",
			Name:      "notifications_sent_total",
			Help:      "New-alarm notifications by outcome.",
		}, []string{"outcome"}),
		AlarmActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "einsatz_monitor",
			Name:      "alarm_active",
			Help:      "1 when the latest alarm is within the active window, 0 otherwise.",
		}),
		LastAlarmTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "einsatz_monitor",
			Name:      "last_alarm_timestamp_seconds",
			Help:      "Unix timestamp of the most recent alarm.",
		}),
		IncidentsDisplayed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "einsatz_monitor",
			Name:      "incidents_displayed",
			Help:      "Number of incidents in the current feed snapshot.",
		}),
	}
}

// Serve exposes /metrics on the given address. Blocks; run in a goroutine.
func Serve(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
