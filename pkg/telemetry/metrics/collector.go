package metrics

import (
	"sync"
	"time"

	"piilog-hq/piilog/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Record statuses.
const (
	StatusEmitted  = "emitted"
	StatusSkipped  = "skipped"
	StatusFiltered = "filtered"
)

// Run statuses.
const (
	RunSuccess = "success"
	RunFailed  = "failed"
)

// otherLabel replaces field labels once the cardinality limit is reached.
const otherLabel = "other"

// Collector owns every Prometheus metric piilog exports. All recording
// methods are no-ops on a nil collector or when metrics are disabled, so
// callers never need to check.
type Collector struct {
	config   config.MetricsConfig
	registry *prometheus.Registry

	records *RecordMetrics
	runs    *RunMetrics

	// Field names come from configuration; cap them.
	fieldLimiter *CardinalityLimiter
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry is used.
//
// Example:
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordRecord(metrics.StatusEmitted)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := config.MetricsConfig{}
	if cfg != nil {
		c = *cfg
	}
	if c.Namespace == "" {
		c.Namespace = config.DefaultMetricsNamespace
	}
	if c.Subsystem == "" {
		c.Subsystem = config.DefaultMetricsSubsystem
	}
	if len(c.DurationBuckets) == 0 {
		c.DurationBuckets = config.DefaultMetricsDurationBuckets
	}

	return &Collector{
		config:       c,
		registry:     registry,
		records:      NewRecordMetrics(&c, registry),
		runs:         NewRunMetrics(&c, registry),
		fieldLimiter: NewCardinalityLimiter(100),
	}
}

// Enabled reports whether recording is active. Callers use it to skip work
// that only feeds metrics.
func (c *Collector) Enabled() bool {
	return c.enabled()
}

func (c *Collector) enabled() bool {
	return c != nil && c.config.Enabled
}

// RecordRecord counts one record by outcome (StatusEmitted, StatusSkipped or
// StatusFiltered).
func (c *Collector) RecordRecord(status string) {
	if !c.enabled() {
		return
	}
	c.records.recordsTotal.WithLabelValues(status).Inc()
}

// RecordRedactions counts redacted values per field name.
func (c *Collector) RecordRedactions(field string, n int) {
	if !c.enabled() || n <= 0 {
		return
	}
	if !c.fieldLimiter.Allow(field) {
		field = otherLabel
	}
	c.records.fieldsRedacted.WithLabelValues(field).Add(float64(n))
}

// RecordFormatDuration observes the time taken to format one record.
func (c *Collector) RecordFormatDuration(d time.Duration) {
	if !c.enabled() {
		return
	}
	c.records.formatDuration.Observe(d.Seconds())
}

// RecordRun records a finished pipeline run.
func (c *Collector) RecordRun(status string, duration time.Duration, fetched int) {
	if !c.enabled() {
		return
	}
	c.runs.runsTotal.WithLabelValues(status).Inc()
	c.runs.runDuration.WithLabelValues(status).Observe(duration.Seconds())
	c.runs.rowsFetched.Add(float64(fetched))
	if status == RunSuccess {
		c.runs.lastSuccess.SetToCurrentTime()
	}
}

// RecordReload counts a configuration reload attempt.
func (c *Collector) RecordReload(ok bool) {
	if !c.enabled() {
		return
	}
	result := RunSuccess
	if !ok {
		result = RunFailed
	}
	c.runs.reloadsTotal.WithLabelValues(result).Inc()
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label values.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow checks if a label value is allowed. Returns true if it was already
// seen or the limit has not been reached.
func (cl *CardinalityLimiter) Allow(label string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[label]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[label]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[label] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
