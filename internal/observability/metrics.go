package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yourname/sleepscope/internal"
	"github.com/yourname/sleepscope/internal/analysis"
)

type Metrics struct {
	registry          *prometheus.Registry
	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
	analysesTotal     *prometheus.CounterVec
	analysisDuration  prometheus.Histogram
	activeSessions    prometheus.GaugeFunc
}

// NewMetrics registers collectors on a private registry. sessions, when
// non-nil, backs the active session gauge.
func NewMetrics(sessions func() int) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total count of HTTP requests processed by route and status.",
		}, []string{"route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		analysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sleep_analyses_total",
			Help: "Total analysis calls by outcome.",
		}, []string{"outcome"}),
		analysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sleep_analysis_duration_seconds",
			Help:    "Histogram of generative backend call durations.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}),
	}
	m.registry.MustRegister(
		m.httpRequestsTotal,
		m.httpDuration,
		m.analysesTotal,
		m.analysisDuration,
	)
	if sessions != nil {
		m.activeSessions = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "sleep_sessions_active",
			Help: "Visitor sessions currently held in memory.",
		}, func() float64 { return float64(sessions()) })
		m.registry.MustRegister(m.activeSessions)
	}
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records count and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

type instrumentedAnalyzer struct {
	next    analysis.Analyzer
	metrics *Metrics
}

// InstrumentAnalyzer counts outcomes and times every call to next.
func (m *Metrics) InstrumentAnalyzer(next analysis.Analyzer) analysis.Analyzer {
	return &instrumentedAnalyzer{next: next, metrics: m}
}

func (a *instrumentedAnalyzer) Analyze(ctx context.Context, rec internal.SleepRecord) (string, error) {
	start := time.Now()
	text, err := a.next.Analyze(ctx, rec)
	a.metrics.analysisDuration.Observe(time.Since(start).Seconds())
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	a.metrics.analysesTotal.WithLabelValues(outcome).Inc()
	return text, err
}
