package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

// Collector gathers component index metrics.
type Collector struct {
	// Scan metrics
	scansTotal        prometheus.Counter
	scanDuration      prometheus.Histogram
	modulesScanned    prometheus.Counter
	modulesSkipped    *prometheus.CounterVec
	componentsIndexed prometheus.Counter

	// Load metrics
	loadsTotal *prometheus.CounterVec

	logger *zap.Logger
}

// NewCollector creates a metrics collector registered on the default
// Prometheus registerer.
func NewCollector(namespace string, logger *zap.Logger) *Collector {
	return NewCollectorWithRegisterer(namespace, prometheus.DefaultRegisterer, logger)
}

// NewCollectorWithRegisterer creates a metrics collector registered on
// the given registerer. Used by tests to avoid default-registry
// collisions.
func NewCollectorWithRegisterer(namespace string, reg prometheus.Registerer, logger *zap.Logger) *Collector {
	factory := promauto.With(reg)

	c := &Collector{
		logger: logger.With(zap.String("component", "metrics")),
	}

	c.scansTotal = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "index_scans_total",
		Help:      "Total number of component index scans",
	})

	c.scanDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "index_scan_duration_seconds",
		Help:      "Component index scan duration in seconds",
		Buckets:   prometheus.DefBuckets,
	})

	c.modulesScanned = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "index_modules_scanned_total",
		Help:      "Total number of component modules scanned",
	})

	c.modulesSkipped = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_modules_skipped_total",
			Help:      "Total number of component modules skipped during scans",
		},
		[]string{"reason"},
	)

	c.componentsIndexed = factory.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "index_components_indexed_total",
		Help:      "Total number of components added to catalogs",
	})

	c.loadsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_loads_total",
			Help:      "Total number of catalog load attempts per tier",
		},
		[]string{"tier", "outcome"},
	)

	return c
}

// ObserveScan records one completed scan.
func (c *Collector) ObserveScan(duration time.Duration, modules, components int) {
	if c == nil {
		return
	}
	c.scansTotal.Inc()
	c.scanDuration.Observe(duration.Seconds())
	c.modulesScanned.Add(float64(modules))
	c.componentsIndexed.Add(float64(components))
}

// ModuleSkipped records one skipped module with the skip reason.
func (c *Collector) ModuleSkipped(reason string) {
	if c == nil {
		return
	}
	c.modulesSkipped.WithLabelValues(reason).Inc()
}

// LoadAttempt records one catalog load attempt for a tier.
func (c *Collector) LoadAttempt(tier string, ok bool) {
	if c == nil {
		return
	}
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	c.loadsTotal.WithLabelValues(tier, outcome).Inc()
}
