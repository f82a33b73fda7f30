package metrics

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Prometheus metrics
	scansMetric = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arb_scans_total",
		Help: "The total number of completed scan cycles",
	})

	opportunitiesMetric = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arb_opportunities_total",
		Help: "Total number of synthesized opportunities",
	})

	swapsExecutedMetric = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arb_swaps_executed_total",
		Help: "Total number of swap executions attempted",
	})

	quoteFallbacksMetric = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arb_quote_fallbacks_total",
		Help: "Total number of quotes served by the fallback estimator",
	})

	errorCountMetric = promauto.NewCounter(prometheus.CounterOpts{
		Name: "arb_errors_total",
		Help: "Total number of errors encountered",
	})

	scanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "arb_scan_duration_seconds",
		Help:    "Time spent on each scan cycle",
		Buckets: prometheus.LinearBuckets(0.01, 0.05, 10),
	})

	// Internal counters
	scans         uint64
	opportunities uint64
	errorCount    uint64
	lastScan      atomic.Int64
	startTime     = time.Now()
)

func IncrementScans() {
	atomic.AddUint64(&scans, 1)
	scansMetric.Inc()
	lastScan.Store(time.Now().UnixNano())
}

func IncrementOpportunities() {
	atomic.AddUint64(&opportunities, 1)
	opportunitiesMetric.Inc()
}

func IncrementSwapsExecuted() {
	swapsExecutedMetric.Inc()
}

func IncrementQuoteFallbacks() {
	quoteFallbacksMetric.Inc()
}

func IncrementErrors() {
	atomic.AddUint64(&errorCount, 1)
	errorCountMetric.Inc()
}

func RecordScanDuration(duration time.Duration) {
	scanDuration.Observe(duration.Seconds())
}

func GetStats() (uint64, uint64, uint64, time.Time, time.Duration) {
	return atomic.LoadUint64(&scans),
		atomic.LoadUint64(&opportunities),
		atomic.LoadUint64(&errorCount),
		time.Unix(0, lastScan.Load()),
		time.Since(startTime)
}
