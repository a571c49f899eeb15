package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder collects screener metrics in Prometheus
type Recorder struct {
	providerRequests *prometheus.CounterVec
	providerLatency  *prometheus.HistogramVec
	cacheLookups     *prometheus.CounterVec
	symbolsScanned   *prometheus.CounterVec
	scanDuration     prometheus.Histogram
	lastScore        *prometheus.GaugeVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// New registers the screener metrics with reg. A nil reg uses the default
// registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Recorder{
		providerRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "screener_provider_requests_total",
				Help: "Daily candle requests by provider and outcome",
			},
			[]string{"provider", "outcome"},
		),
		providerLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "screener_provider_request_duration_seconds",
				Help:    "Duration of daily candle requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),
		cacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "screener_cache_lookups_total",
				Help: "Candle cache lookups by backend and result",
			},
			[]string{"backend", "result"},
		),
		symbolsScanned: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "screener_symbols_scanned_total",
				Help: "Symbols processed by status",
			},
			[]string{"status"},
		),
		scanDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "screener_scan_duration_seconds",
				Help:    "Duration of complete scans in seconds",
				Buckets: []float64{1, 5, 10, 30, 60, 120, 300},
			},
		),
		lastScore: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "screener_last_score",
				Help: "Last weighted score for a symbol",
			},
			[]string{"symbol"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "screener_http_requests_total",
				Help: "HTTP API requests by route, method and status",
			},
			[]string{"route", "method", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "screener_http_request_duration_seconds",
				Help:    "HTTP API request duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
			},
			[]string{"route", "method"},
		),
	}
}

// RecordProviderRequest records one provider call
func (r *Recorder) RecordProviderRequest(provider string, err error, d time.Duration) {
	if r == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.providerRequests.WithLabelValues(provider, outcome).Inc()
	r.providerLatency.WithLabelValues(provider).Observe(d.Seconds())
}

// RecordCacheLookup records a cache hit or miss
func (r *Recorder) RecordCacheLookup(backend string, hit bool) {
	if r == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheLookups.WithLabelValues(backend, result).Inc()
}

// RecordSymbol records a finished symbol
func (r *Recorder) RecordSymbol(symbol, status string, score float64) {
	if r == nil {
		return
	}
	r.symbolsScanned.WithLabelValues(status).Inc()
	r.lastScore.WithLabelValues(symbol).Set(score)
}

// RecordScan records a finished scan
func (r *Recorder) RecordScan(d time.Duration) {
	if r == nil {
		return
	}
	r.scanDuration.Observe(d.Seconds())
}

// RecordHTTPRequest records one API request. route should be the templated
// path to keep label cardinality low.
func (r *Recorder) RecordHTTPRequest(route, method string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(route, method).Observe(d.Seconds())
}
