package metrics

import (
	"piilog-hq/piilog/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// RecordMetrics tracks per-record formatting.
//
// Metrics:
//   - piilog_redaction_records_total: records by outcome
//   - piilog_redaction_fields_redacted_total: redacted values by field
//   - piilog_redaction_format_duration_seconds: time to format one record
type RecordMetrics struct {
	recordsTotal   *prometheus.CounterVec
	fieldsRedacted *prometheus.CounterVec
	formatDuration prometheus.Histogram
}

// NewRecordMetrics creates and registers record metrics with the provided registry.
func NewRecordMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *RecordMetrics {
	rm := &RecordMetrics{
		recordsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "records_total",
				Help:      "Total number of records processed, by outcome",
			},
			[]string{"status"},
		),

		fieldsRedacted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "fields_redacted_total",
				Help:      "Total number of field values replaced by the redaction token",
			},
			[]string{"field"},
		),

		formatDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "format_duration_seconds",
				Help:      "Time to redact and format a single record",
				Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10), // 1µs to ~260ms
			},
		),
	}

	registry.MustRegister(
		rm.recordsTotal,
		rm.fieldsRedacted,
		rm.formatDuration,
	)

	return rm
}
