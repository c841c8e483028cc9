package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scentory/scentory/internal/common/config"
)

type Metrics struct {
	registry      *prometheus.Registry
	httpReqCnt    *prometheus.CounterVec
	httpDur       *prometheus.HistogramVec
	httpInfl      *prometheus.GaugeVec
	authCnt       *prometheus.CounterVec
	perfumeCnt    *prometheus.CounterVec
	purchaseCnt   *prometheus.CounterVec
	purchaseSpend prometheus.Counter
}

func New(cfg config.MetricsConfig) *Metrics {
	ns := cfg.Namespace
	buckets := cfg.Buckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	r := prometheus.NewRegistry()
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	httpReqCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "http_requests_total"}, []string{"method", "route", "status"})
	httpDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "http_request_duration_seconds", Buckets: buckets}, []string{"method", "route", "status"})
	httpInfl := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: ns, Name: "http_requests_inflight"}, []string{"route"})
	r.MustRegister(httpReqCnt, httpDur, httpInfl)

	authCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "auth_events_total"}, []string{"event", "result"})
	perfumeCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "perfume_mutations_total"}, []string{"op"})
	purchaseCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "purchase_mutations_total"}, []string{"op"})
	purchaseSpend := prometheus.NewCounter(prometheus.CounterOpts{Namespace: ns, Name: "purchase_amount_total"})
	r.MustRegister(authCnt, perfumeCnt, purchaseCnt, purchaseSpend)

	return &Metrics{
		registry:      r,
		httpReqCnt:    httpReqCnt,
		httpDur:       httpDur,
		httpInfl:      httpInfl,
		authCnt:       authCnt,
		perfumeCnt:    perfumeCnt,
		purchaseCnt:   purchaseCnt,
		purchaseSpend: purchaseSpend,
	}
}

// AuthEvent counts register/login/logout outcomes. Safe on a nil receiver.
func (m *Metrics) AuthEvent(event string, ok bool) {
	if m == nil {
		return
	}
	result := "success"
	if !ok {
		result = "failure"
	}
	m.authCnt.WithLabelValues(event, result).Inc()
}

// PerfumeMutation counts create/update/delete on the catalog. Safe on a nil receiver.
func (m *Metrics) PerfumeMutation(op string) {
	if m == nil {
		return
	}
	m.perfumeCnt.WithLabelValues(op).Inc()
}

// PurchaseRecorded counts a new ledger entry and its amount. Safe on a nil receiver.
func (m *Metrics) PurchaseRecorded(price float64) {
	if m == nil {
		return
	}
	m.purchaseCnt.WithLabelValues("create").Inc()
	m.purchaseSpend.Add(price)
}

// PurchaseDeleted counts a removed ledger entry. Safe on a nil receiver.
func (m *Metrics) PurchaseDeleted() {
	if m == nil {
		return
	}
	m.purchaseCnt.WithLabelValues("delete").Inc()
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpInfl.WithLabelValues(route).Inc()
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		m.httpReqCnt.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpDur.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		m.httpInfl.WithLabelValues(route).Dec()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
