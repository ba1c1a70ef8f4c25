package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"veridata-hq/tabular/pkg/engine"
)

// Config contains metrics configuration.
type Config struct {
	// Namespace and Subsystem prefix every metric name.
	// Defaults: "veridata", "tabular".
	Namespace string
	Subsystem string

	// RunDurationBuckets are the histogram buckets for run duration in
	// seconds. Empty uses a default range from 10ms to 60s.
	RunDurationBuckets []float64
}

// Collector records validation run metrics into a Prometheus registry.
type Collector struct {
	registry *prometheus.Registry

	runsTotal     *prometheus.CounterVec
	runDuration   prometheus.Histogram
	rowsProcessed prometheus.Counter
	errorsTotal   *prometheus.CounterVec
	skippedRules  prometheus.Counter
}

// NewCollector creates a metrics collector. A nil registry creates a
// private one.
func NewCollector(cfg *Config, registry *prometheus.Registry) *Collector {
	if cfg == nil {
		cfg = &Config{}
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "veridata"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "tabular"
	}
	if len(cfg.RunDurationBuckets) == 0 {
		cfg.RunDurationBuckets = []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60}
	}

	c := &Collector{
		registry: registry,
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "runs_total",
				Help:      "Total number of validation runs",
			},
			[]string{"valid"},
		),
		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "run_duration_seconds",
				Help:      "Duration of validation runs in seconds",
				Buckets:   cfg.RunDurationBuckets,
			},
		),
		rowsProcessed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "rows_processed_total",
				Help:      "Total number of data rows processed",
			},
		),
		errorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "validation_errors_total",
				Help:      "Total number of validation errors by rule",
			},
			[]string{"rule_id"},
		),
		skippedRules: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "skipped_rules_total",
				Help:      "Total number of rules skipped for configuration errors",
			},
		),
	}

	registry.MustRegister(c.runsTotal, c.runDuration, c.rowsProcessed, c.errorsTotal, c.skippedRules)
	return c
}

// ObserveRun records one completed validation run. It implements
// engine.Metrics.
func (c *Collector) ObserveRun(result *engine.Result) {
	c.runsTotal.WithLabelValues(strconv.FormatBool(result.Valid())).Inc()
	c.runDuration.Observe(result.Duration.Seconds())
	c.rowsProcessed.Add(float64(result.RowCount))
	c.skippedRules.Add(float64(len(result.ConfigErrors)))

	for _, ve := range result.Errors {
		c.errorsTotal.WithLabelValues(ve.RuleID).Inc()
	}
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
