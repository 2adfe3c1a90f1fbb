package providers

import (
	"time"
	"treats/internal/models"
	"treats/internal/structures"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	ObservePersistenceDuration(operation string, duration time.Duration)
	IncStandupsFlushed()
}

// CountsSource reports the current size of the workspace.
type CountsSource interface {
	Counts() (models.Counts, error)
}

type MetricsProvider struct {
	requestsTotal       *prometheus.CounterVec
	requestDuration     *prometheus.HistogramVec
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	persistenceDuration *prometheus.HistogramVec
	standupsFlushed     prometheus.Counter
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(operation string, duration time.Duration) {
	m.persistenceDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncStandupsFlushed() {
	m.standupsFlushed.Inc()
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}
	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "treats_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "treats_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "treats_cache_hits_total",
			Help: "Total number of cache hits",
		}),
		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "treats_cache_misses_total",
			Help: "Total number of cache misses",
		}),
		persistenceDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "treats_persistence_duration_seconds",
			Help:    "Duration of snapshot load and save operations in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		standupsFlushed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "treats_standups_flushed_total",
			Help: "Total number of standups flushed into a channel",
		}),
	}
}

// RegisterWorkspaceGauges exposes workspace sizes. Each scrape reads one snapshot.
func RegisterWorkspaceGauges(conf *structures.Config, source CountsSource) {
	if !conf.Metrics.Enabled {
		return
	}
	gauge := func(name, help string, pick func(models.Counts) int) {
		promauto.NewGaugeFunc(prometheus.GaugeOpts{
			Name: name,
			Help: help,
		}, func() float64 {
			counts, err := source.Counts()
			if err != nil {
				return 0
			}
			return float64(pick(counts))
		})
	}
	gauge("treats_users_total", "Total number of registered users", func(c models.Counts) int { return c.Users })
	gauge("treats_channels_total", "Total number of channels", func(c models.Counts) int { return c.Channels })
	gauge("treats_dms_total", "Total number of direct messages", func(c models.Counts) int { return c.Dms })
	gauge("treats_messages_total", "Total number of messages in channels and DMs", func(c models.Counts) int { return c.Messages })
	gauge("treats_sessions_total", "Total number of active sessions", func(c models.Counts) int { return c.Sessions })
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                     {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration)     {}
func (n *noopMetrics) IncCacheHits()                                        {}
func (n *noopMetrics) IncCacheMisses()                                      {}
func (n *noopMetrics) ObservePersistenceDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncStandupsFlushed()                                  {}
