package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config carries the constant labels attached to every metric.
type Config struct {
	ServiceName string
	Environment string
}

// RenderMetrics tracks quote document generation and delivery.
type RenderMetrics struct {
	rendersTotal   *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	logoFallbacks  prometheus.Counter
	emailsTotal    *prometheus.CounterVec
}

// NewRenderMetrics registers render instruments on the given registerer.
func NewRenderMetrics(registerer prometheus.Registerer, cfg Config) *RenderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "quotedrop"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}

	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	m := &RenderMetrics{
		rendersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "quote_renders_total",
			Help:        "Quote PDF renders by template and outcome.",
			ConstLabels: constLabels,
		}, []string{"template", "outcome"}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "quote_render_duration_seconds",
			Help:        "Quote PDF render latency.",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"template"}),
		logoFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "quote_logo_fallbacks_total",
			Help:        "Renders that fell back to the text-only header.",
			ConstLabels: constLabels,
		}),
		emailsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "quote_emails_total",
			Help:        "Quote emails by outcome.",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
	}

	registerer.MustRegister(m.rendersTotal, m.renderDuration, m.logoFallbacks, m.emailsTotal)
	return m
}

// ObserveRender records one render attempt.
func (m *RenderMetrics) ObserveRender(template string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.rendersTotal.WithLabelValues(template, outcome).Inc()
	m.renderDuration.WithLabelValues(template).Observe(duration.Seconds())
}

// IncLogoFallback records a render that proceeded without its logo.
func (m *RenderMetrics) IncLogoFallback() {
	if m == nil {
		return
	}
	m.logoFallbacks.Inc()
}

// IncEmail records one quote email attempt.
func (m *RenderMetrics) IncEmail(err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.emailsTotal.WithLabelValues(outcome).Inc()
}
