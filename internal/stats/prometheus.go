package stats

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultPrefix is prepended to every metric name
const DefaultPrefix = "ytweb_"

// Lookup and download outcomes used as label values
const (
	ResultOK         = "ok"
	ResultInvalid    = "invalid"
	ResultNoFormats  = "no_formats"
	ResultEngine     = "engine_error"
	ResultCancelled  = "cancelled"
	ResultWriteError = "write_error"
)

// Metrics is the set of collectors exposed on /metrics
type Metrics struct {
	registry *prometheus.Registry

	formatLookups    *prometheus.CounterVec
	curatedFormats   prometheus.Histogram
	downloads        *prometheus.CounterVec
	downloadDuration prometheus.Histogram
	downloadedBytes  prometheus.Counter
	httpRequests     *prometheus.CounterVec
	httpRespTime     *prometheus.HistogramVec
}

// New creates and registers all metrics with the given name prefix
func New(prefix string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		formatLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: prefix + "format_lookups_total", Help: "Total number of format lookups by result"},
			[]string{"result"},
		),
		curatedFormats: prometheus.NewHistogram(
			prometheus.HistogramOpts{Name: prefix + "curated_formats", Help: "Number of curated formats returned per successful lookup", Buckets: prometheus.LinearBuckets(0, 5, 10)},
		),
		downloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: prefix + "downloads_total", Help: "Total number of dispatched downloads by result"},
			[]string{"result"},
		),
		downloadDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{Name: prefix + "download_duration_seconds", Help: "Time spent in the extraction engine per download", Buckets: prometheus.ExponentialBucketsRange(0.5, 3600, 20)},
		),
		downloadedBytes: prometheus.NewCounter(
			prometheus.CounterOpts{Name: prefix + "downloaded_bytes_total", Help: "Total number of bytes written by completed downloads"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: prefix + "http_requests_total", Help: "Total number of HTTP requests by route and status code"},
			[]string{"route", "code"},
		),
		httpRespTime: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Name: prefix + "http_response_seconds", Help: "HTTP response time by route", Buckets: prometheus.ExponentialBucketsRange(0.001, 600, 30)},
			[]string{"route"},
		),
	}

	m.registry.MustRegister(
		m.formatLookups,
		m.curatedFormats,
		m.downloads,
		m.downloadDuration,
		m.downloadedBytes,
		m.httpRequests,
		m.httpRespTime,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveLookup records one format lookup
func (m *Metrics) ObserveLookup(result string, curated int) {
	if m == nil {
		return
	}
	m.formatLookups.WithLabelValues(result).Inc()
	if result == ResultOK {
		m.curatedFormats.Observe(float64(curated))
	}
}

// ObserveDownload records one dispatch
func (m *Metrics) ObserveDownload(result string, elapsed time.Duration, bytes int64) {
	if m == nil {
		return
	}
	m.downloads.WithLabelValues(result).Inc()
	if result == ResultOK {
		m.downloadDuration.Observe(elapsed.Seconds())
		if bytes > 0 {
			m.downloadedBytes.Add(float64(bytes))
		}
	}
}

// ObserveRequest records one HTTP response
func (m *Metrics) ObserveRequest(route string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
	m.httpRespTime.WithLabelValues(route).Observe(elapsed.Seconds())
}
