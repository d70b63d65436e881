package metrics

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeDelivered = "delivered"
	OutcomeFailed    = "failed"
	OutcomeRejected  = "rejected"
)

// Config labels every series with the facade's identity. The downstream
// histogram carries its own "service" label, so the identity goes under "app".
type Config struct {
	ServiceName string
	Environment string
}

// Metrics exposes the facade's prometheus instruments.
type Metrics struct {
	notifications      *prometheus.CounterVec
	downstreamDuration *prometheus.HistogramVec
	httpDuration       *prometheus.HistogramVec
}

// New registers the instruments on registerer (DefaultRegisterer when nil).
func New(cfg Config, registerer prometheus.Registerer) (*Metrics, error) {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "account-facade"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"app": serviceName,
		"env": environment,
	}

	m := &Metrics{
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "facade_notifications_total",
			Help:        "Notification sends by scenario and outcome.",
			ConstLabels: constLabels,
		}, []string{"scenario", "outcome"}),
		downstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "facade_downstream_request_duration_seconds",
			Help:        "Latency of calls to downstream account services.",
			Buckets:     []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			ConstLabels: constLabels,
		}, []string{"service", "operation", "outcome"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "facade_http_request_duration_seconds",
			Help:        "Inbound HTTP request latency.",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: constLabels,
		}, []string{"method", "route", "status"}),
	}

	for _, c := range []prometheus.Collector{m.notifications, m.downstreamDuration, m.httpDuration} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// RecordNotification counts one send attempt or rejected request.
func (m *Metrics) RecordNotification(scenario, outcome string) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(strings.TrimSpace(scenario), outcome).Inc()
}

// ObserveDownstream records the latency of one downstream call.
func (m *Metrics) ObserveDownstream(service, operation string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.downstreamDuration.WithLabelValues(service, operation, outcome).Observe(elapsed.Seconds())
}

// GinMiddleware observes inbound request latency per route.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if m == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		m.httpDuration.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
