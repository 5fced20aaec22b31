package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"
)

// MetricsRegistry holds all Prometheus metrics for paddock
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Command Metrics
	CommandsTotal   *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Business Metrics
	SettlementsTotal  prometheus.Counter
	BonusPoolUSDTotal prometheus.Counter
	PayoutsSentTotal  *prometheus.CounterVec
	PayoutQueueDepth  prometheus.Gauge
}

// NewMetricsRegistry registers every metric on reg. Pass
// prometheus.DefaultRegisterer in the server and a fresh
// prometheus.NewRegistry() in tests.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	f := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paddock_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "paddock_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "paddock_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Command Metrics
		CommandsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paddock_commands_total",
				Help: "Core commands by operation and outcome (ok or error kind)",
			},
			[]string{"operation", "outcome"},
		),
		CommandDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "paddock_command_duration_seconds",
				Help:    "Core command execution time in seconds, transaction included",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
			[]string{"operation"},
		),

		// Cache Metrics
		CacheHitsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paddock_cache_hits_total",
				Help: "Total cache hits by cache name",
			},
			[]string{"cache"},
		),
		CacheMissesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paddock_cache_misses_total",
				Help: "Total cache misses by cache name",
			},
			[]string{"cache"},
		),

		// Business Metrics
		SettlementsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "paddock_challenge_settlements_total",
				Help: "Challenges completed and settled",
			},
		),
		BonusPoolUSDTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "paddock_bonus_pool_usd_total",
				Help: "Sum of settled bonus pools in USD",
			},
		),
		PayoutsSentTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paddock_payouts_sent_total",
				Help: "Payout instructions handed to the payment collaborator, by result",
			},
			[]string{"result"},
		),
		PayoutQueueDepth: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "paddock_payout_queue_depth",
				Help: "Payout instructions waiting to be sent",
			},
		),
	}
}

// ObserveCommand records one core command outcome.
func (m *MetricsRegistry) ObserveCommand(operation, outcome string, d time.Duration) {
	m.CommandsTotal.WithLabelValues(operation, outcome).Inc()
	m.CommandDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// RecordSettlement counts a completed challenge and its pool. The float
// conversion only feeds the metric; recorded amounts stay decimal.
func (m *MetricsRegistry) RecordSettlement(pool decimal.Decimal) {
	m.SettlementsTotal.Inc()
	f, _ := pool.Float64()
	m.BonusPoolUSDTotal.Add(f)
}

func (m *MetricsRegistry) RecordCacheLookup(cache string, hit bool) {
	if hit {
		m.CacheHitsTotal.WithLabelValues(cache).Inc()
		return
	}
	m.CacheMissesTotal.WithLabelValues(cache).Inc()
}

func (m *MetricsRegistry) RecordPayout(result string) {
	m.PayoutsSentTotal.WithLabelValues(result).Inc()
}

func (m *MetricsRegistry) SetPayoutQueueDepth(n int) {
	m.PayoutQueueDepth.Set(float64(n))
}
