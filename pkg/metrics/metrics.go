package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	handoffTotal *prometheus.CounterVec
	failureTotal *prometheus.CounterVec
	txLatency    *prometheus.HistogramVec

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

var latencyBuckets = []float64{
	0.001, 0.002, 0.005,
	0.01, 0.02, 0.05,
	0.1, 0.2, 0.5,
	1, 2, 5,
}

var metricsSingleton = sync.OnceValue(func() *metrics {
	return &metrics{
		handoffTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "atlas",
			Subsystem: "workflow",
			Name:      "handoffs_total",
			Help:      "Committed workflow mutations by action type.",
		}, []string{"action"}),
		failureTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "atlas",
			Subsystem: "workflow",
			Name:      "failures_total",
			Help:      "Rejected or failed workflow operations by error kind.",
		}, []string{"operation", "kind"}),
		txLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "atlas",
			Subsystem: "workflow",
			Name:      "tx_seconds",
			Help:      "Latency of workflow operations including the database transaction.",
			Buckets:   latencyBuckets,
		}, []string{"operation", "result"}),
		httpRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "atlas",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "status"}),
		httpLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "atlas",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   latencyBuckets,
		}, []string{"method", "route"}),
	}
})

func getMetrics() *metrics {
	return metricsSingleton()
}

// RecordHandoff 事务提交后计数
func RecordHandoff(action string) {
	getMetrics().handoffTotal.WithLabelValues(action).Inc()
}

// RecordFailure 按错误分类计数
func RecordFailure(operation, kind string) {
	getMetrics().failureTotal.WithLabelValues(operation, kind).Inc()
}

// ObserveOperation 记录一次工作流操作耗时
func ObserveOperation(operation string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	getMetrics().txLatency.WithLabelValues(operation, result).Observe(time.Since(start).Seconds())
}

// ObserveHTTP 记录一次 HTTP 请求
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m := getMetrics()
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler Prometheus 抓取端点
func Handler() http.Handler {
	return promhttp.Handler()
}
