package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and gauges for the incident
// pipeline.
type Metrics struct {
	IncidentsFetched   prometheus.Counter
	IncidentsNotified  prometheus.Counter
	IncidentsDuplicate prometheus.Counter
	DispatchFailures   prometheus.Counter
	EnrichmentDegraded *prometheus.CounterVec // labels: stage={coordinates,weather,waterpoints}
	CycleDuration      prometheus.Histogram
	LastCycleTimestamp prometheus.Gauge
	FeedFailures       prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.IncidentsFetched,
		m.IncidentsNotified,
		m.IncidentsDuplicate,
		m.DispatchFailures,
		m.EnrichmentDegraded,
		m.CycleDuration,
		m.LastCycleTimestamp,
		m.FeedFailures,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests
// can construct pipelines repeatedly without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		IncidentsFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "incident_bot",
			Name:      "incidents_fetched_total",
			Help:      "Total incidents received from the feed.",
		}),
		IncidentsNotified: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "incident_bot",
			Name:      "incidents_notified_total",
			Help:      "Total notifications dispatched.",
		}),
		IncidentsDuplicate: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "incident_bot",
			Name:      "incidents_duplicate_total",
			Help:      "Incidents skipped because they were already notified.",
		}),
		DispatchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "incident_bot",
			Name:      "dispatch_failures_total",
			Help:      "Notification deliveries rejected by the messaging endpoint.",
		}),
		EnrichmentDegraded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "incident_bot",
			Name:      "enrichment_degraded_total",
			Help:      "Enrichment stages that fell back to a placeholder.",
		}, []string{"stage"}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "incident_bot",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of a complete poll-and-notify cycle.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		LastCycleTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "incident_bot",
			Name:      "last_cycle_timestamp_seconds",
			Help:      "Unix time of the last completed poll cycle.",
		}),
		FeedFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "incident_bot",
			Name:      "feed_failures_total",
			Help:      "Poll cycles where the incident feed was unavailable.",
		}),
	}
}
