package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	analysesTotal *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	candlesLoaded *prometheus.GaugeVec
	latency       *prometheus.HistogramVec
	cacheEvents   *prometheus.CounterVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		analysesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "volanalysis_analyses_total",
				Help: "Total number of analyses run, by kind and symbol",
			},
			[]string{"kind", "symbol"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "volanalysis_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		candlesLoaded: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "volanalysis_candles_loaded",
				Help: "Number of candles held in memory per symbol",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "volanalysis_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		cacheEvents: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "volanalysis_report_cache_total",
				Help: "Report cache lookups, by result",
			},
			[]string{"result"},
		),
	}
}

// RecordAnalysis records one completed analysis.
func (r *Recorder) RecordAnalysis(kind, symbol string) {
	r.analysesTotal.WithLabelValues(kind, symbol).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordCandlesLoaded records the in-memory candle count for a symbol.
func (r *Recorder) RecordCandlesLoaded(symbol string, count int) {
	r.candlesLoaded.WithLabelValues(symbol).Set(float64(count))
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordCacheEvent records one report cache lookup.
func (r *Recorder) RecordCacheEvent(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheEvents.WithLabelValues(result).Inc()
}
