package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// schedule converter.
type Metrics struct {
	EntriesRead    prometheus.Counter
	RecordsEmitted prometheus.Counter
	EntriesSkipped *prometheus.CounterVec // label: reason
	MalformedLines prometheus.Counter

	FetchAttempts *prometheus.CounterVec // label: outcome={success,error,not_found}
	FetchDuration prometheus.Histogram
	RunDuration   prometheus.Histogram

	LastRunSuccess  prometheus.Gauge
	ScheduleEntries prometheus.Gauge
}

// NewMetrics creates and registers all converter metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.EntriesRead,
		m.RecordsEmitted,
		m.EntriesSkipped,
		m.MalformedLines,
		m.FetchAttempts,
		m.FetchDuration,
		m.RunDuration,
		m.LastRunSuccess,
		m.ScheduleEntries,
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
		EntriesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eibi_etl",
			Name:      "entries_read_total",
			Help:      "Total schedule entries read from the source file.",
		}),
		RecordsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eibi_etl",
			Name:      "records_emitted_total",
			Help:      "Total normalized records handed to the emitters.",
		}),
		EntriesSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eibi_etl",
			Name:      "entries_skipped_total",
			Help:      "Schedule entries excluded from the output, by reason.",
		}, []string{"reason"}),
		MalformedLines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "eibi_etl",
			Name:      "malformed_lines_total",
			Help:      "Source lines dropped before interpretation.",
		}),
		FetchAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eibi_etl",
			Name:      "fetch_attempts_total",
			Help:      "Schedule download attempts by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "eibi_etl",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of a successful schedule download and parse.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "eibi_etl",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete fetch-interpret-emit pass.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		LastRunSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "eibi_etl",
			Name:      "last_run_success",
			Help:      "1 when the most recent conversion pass succeeded, 0 otherwise.",
		}),
		ScheduleEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "eibi_etl",
			Name:      "schedule_entries",
			Help:      "Accepted records in the most recent conversion pass.",
		}),
	}
}
