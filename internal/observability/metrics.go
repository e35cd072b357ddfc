package observability

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus counters, histograms, and gauges for the
// detection pipeline.
type Metrics struct {
	UpstreamRequests *prometheus.CounterVec // labels: mode={batch,single}, outcome={success,error}
	CacheLookups     *prometheus.CounterVec // labels: result={hit,miss}
	CacheDeletes     prometheus.Counter

	NotificationsSent    prometheus.Counter
	NotificationFailures prometheus.Counter
	JobRuns              *prometheus.CounterVec // labels: job, outcome={completed,skipped_quiet_hours,error}
	QuietHours           prometheus.Gauge
	BatchFetchDuration   prometheus.Histogram
	CoordinatesDeduped   prometheus.Histogram
	NeutralSubstitutions prometheus.Counter
}

// NewMetrics creates all pipeline metrics and registers them with reg.
// Tests pass a throwaway prometheus.NewRegistry().
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "thundercloud",
			Name:      "upstream_requests_total",
			Help:      "Weather provider requests by mode and outcome.",
		}, []string{"mode", "outcome"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "thundercloud",
			Name:      "cache_lookups_total",
			Help:      "Weather cache lookups by result.",
		}, []string{"result"}),
		CacheDeletes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "thundercloud",
			Name:      "cache_deletes_total",
			Help:      "Entries removed by the retention sweep.",
		}),
		NotificationsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "thundercloud",
			Name:      "notifications_sent_total",
			Help:      "Push notifications delivered.",
		}),
		NotificationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "thundercloud",
			Name:      "notification_failures_total",
			Help:      "Push notifications that failed to deliver.",
		}),
		JobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "thundercloud",
			Name:      "job_runs_total",
			Help:      "Scheduled job executions by job name and outcome.",
		}, []string{"job", "outcome"}),
		QuietHours: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "thundercloud",
			Name:      "quiet_hours",
			Help:      "1 while the quiet-hours window is active, 0 otherwise.",
		}),
		BatchFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "thundercloud",
			Name:      "batch_fetch_duration_seconds",
			Help:      "Duration of a complete chunked batch fetch.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		CoordinatesDeduped: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "thundercloud",
			Name:      "coordinates_deduped",
			Help:      "Unique coordinates per cycle after deduplication.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		NeutralSubstitutions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "thundercloud",
			Name:      "neutral_substitutions_total",
			Help:      "Coordinates that received neutral default indicators after all fetch paths failed.",
		}),
	}

	reg.MustRegister(
		m.UpstreamRequests,
		m.CacheLookups,
		m.CacheDeletes,
		m.NotificationsSent,
		m.NotificationFailures,
		m.JobRuns,
		m.QuietHours,
		m.BatchFetchDuration,
		m.CoordinatesDeduped,
		m.NeutralSubstitutions,
	)

	return m
}
