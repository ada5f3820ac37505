package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// JobsCreatedTotal counts CreateJob calls by outcome (saved, validation, duplicate_id, persistence).
	JobsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fieldtools_jobs_created_total",
			Help: "Total number of create-job requests by outcome",
		},
		[]string{"outcome"},
	)

	// StatsComputeDuration tracks how long a stats report takes, including the store read.
	StatsComputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fieldtools_stats_compute_duration_seconds",
			Help:    "Duration of stats report computation in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12), // 0.5ms to ~1s
		},
	)

	// StoredJobs is the record count seen by the most recent full read.
	StoredJobs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fieldtools_stored_jobs",
			Help: "Number of job records in the store at the last read",
		},
	)

	// PublishFailures counts job.created events that could not be published.
	PublishFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fieldtools_publish_failures_total",
			Help: "Total number of job events that failed to publish",
		},
	)

	// ExportsTotal counts sheet exports by status (exported, duplicate, error).
	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fieldtools_sheet_exports_total",
			Help: "Total number of sheet export attempts",
		},
		[]string{"status"},
	)

	// ExportDuration tracks the duration of a single sheet export in seconds.
	ExportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fieldtools_sheet_export_duration_seconds",
			Help:    "Duration of sheet exports in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)

	// WorkersActive tracks the number of exporter workers currently handling a job.
	WorkersActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fieldtools_exporter_workers_active",
			Help: "Number of exporter workers currently processing a job",
		},
	)
)
