// 包 metrics 暴露 Prometheus 指标：目录查找结果、列表回退、HTTP 请求与翻译覆盖率。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"go-folio/internal/catalog"
	"go-folio/internal/locale"
	"go-folio/internal/model"
)

// Metrics 持有独立的 Registry，测试中可多次创建。
type Metrics struct {
	reg *prometheus.Registry

	Lookups       *prometheus.CounterVec
	ListFallbacks *prometheus.CounterVec
	SkippedFiles  *prometheus.CounterVec
	Requests      *prometheus.CounterVec
	Duration      *prometheus.HistogramVec
	Coverage      *prometheus.GaugeVec
}

var _ catalog.Observer = (*Metrics)(nil)

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		Lookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_catalog_lookups_total",
			Help: "Catalog lookups by slug, by outcome",
		}, []string{"type", "outcome"}),
		ListFallbacks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_catalog_list_fallbacks_total",
			Help: "Listings served from the reference locale because the requested partition is absent",
		}, []string{"type", "locale"}),
		SkippedFiles: f.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_catalog_skipped_files_total",
			Help: "Content files skipped while listing because they could not be read",
		}, []string{"type", "locale"}),
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_http_requests_total",
			Help: "HTTP requests by route pattern and status code",
		}, []string{"route", "status"}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "folio_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		Coverage: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "folio_translation_coverage_percent",
			Help: "Translation coverage relative to the reference locale",
		}, []string{"locale", "type"}),
	}
}

func (m *Metrics) Lookup(ct model.ContentType, outcome catalog.Outcome) {
	m.Lookups.WithLabelValues(string(ct), string(outcome)).Inc()
}

func (m *Metrics) ListFallback(ct model.ContentType, requested locale.Locale) {
	m.ListFallbacks.WithLabelValues(string(ct), string(requested)).Inc()
}

func (m *Metrics) Skipped(ct model.ContentType, loc locale.Locale) {
	m.SkippedFiles.WithLabelValues(string(ct), string(loc)).Inc()
}

// ObserveRequest 记录一次 HTTP 请求。
func (m *Metrics) ObserveRequest(route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.Requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.Duration.WithLabelValues(route).Observe(d.Seconds())
}

// SetCoverage 用审计结果刷新覆盖率指标。
func (m *Metrics) SetCoverage(rows []model.LocaleCoverage) {
	for _, r := range rows {
		m.Coverage.WithLabelValues(string(r.Locale), string(model.Posts)).Set(float64(r.PostsPercentage))
		m.Coverage.WithLabelValues(string(r.Locale), string(model.Projects)).Set(float64(r.ProjectsPercentage))
	}
}

// Handler 返回 /metrics 处理器。
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
