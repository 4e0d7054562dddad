// Package metrics 基于Prometheus的指标收集
//
// 指标分三组：
//   - HTTP：请求总数、耗时、并发数
//   - 图书目录：筛选结果数量分布
//   - 未读消息提醒任务：执行次数、发送提醒数、标记消息数、耗时、因锁跳过次数
//
// 使用前调用InitMetrics注册指标（可重复调用），通过/metrics端点暴露。
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	initOnce sync.Once

	// HTTP指标
	HTTPRequestsTotal      *prometheus.CounterVec
	HTTPRequestDuration    *prometheus.HistogramVec
	HTTPRequestsInProgress prometheus.Gauge

	// 图书目录指标
	CatalogQueriesTotal *prometheus.CounterVec
	CatalogResultSize   prometheus.Histogram

	// 提醒任务指标
	AlertRunsTotal      *prometheus.CounterVec
	AlertRunDuration    prometheus.Histogram
	AlertsDispatched    prometheus.Counter
	AlertMessagesMarked prometheus.Counter
	AlertRunsSkipped    prometheus.Counter

	// 消息队列指标
	MessagesPublishedTotal *prometheus.CounterVec
)

// InitMetrics 注册所有指标
func InitMetrics() {
	initOnce.Do(func() {
		HTTPRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "HTTP请求总数",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP请求耗时（秒）",
				Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"method", "path"},
		)

		HTTPRequestsInProgress = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_requests_in_progress",
				Help: "正在处理的HTTP请求数",
			},
		)

		CatalogQueriesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_queries_total",
				Help: "图书目录查询总数",
			},
			[]string{"kind"}, // all | search | filter | by_user
		)

		CatalogResultSize = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "catalog_result_size",
				Help:    "图书目录单页返回数量",
				Buckets: []float64{0, 1, 5, 10, 20, 50, 100},
			},
		)

		AlertRunsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "message_alert_runs_total",
				Help: "未读消息提醒任务执行总数",
			},
			[]string{"result"}, // success | failure | skipped
		)

		AlertRunDuration = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "message_alert_run_duration_seconds",
				Help:    "未读消息提醒任务耗时（秒）",
				Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 30, 120},
			},
		)

		AlertsDispatched = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "message_alerts_dispatched_total",
				Help: "已发送的未读提醒数（每个收件人一次）",
			},
		)

		AlertMessagesMarked = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "message_alerts_marked_total",
				Help: "标记为已提醒的消息数",
			},
		)

		AlertRunsSkipped = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "message_alert_runs_skipped_total",
				Help: "因其他实例持有锁而跳过的任务次数",
			},
		)

		MessagesPublishedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "messages_published_total",
				Help: "消息发布总数",
			},
			[]string{"exchange", "routing_key"},
		)
	})
}

// =========================================
// 辅助函数
// =========================================

// IncCounter 递增Counter
func IncCounter(counter prometheus.Counter) {
	counter.Inc()
}

// AddCounter Counter增加指定值
func AddCounter(counter prometheus.Counter, v float64) {
	counter.Add(v)
}

// IncCounterVec 递增带标签的Counter
func IncCounterVec(counter *prometheus.CounterVec, labels map[string]string) {
	counter.With(labels).Inc()
}

// IncGauge 递增Gauge
func IncGauge(gauge prometheus.Gauge) {
	gauge.Inc()
}

// DecGauge 递减Gauge
func DecGauge(gauge prometheus.Gauge) {
	gauge.Dec()
}

// ObserveHistogram 记录Histogram观测值
func ObserveHistogram(histogram prometheus.Histogram, value float64) {
	histogram.Observe(value)
}

// ObserveHistogramVec 记录带标签的Histogram观测值
func ObserveHistogramVec(histogram *prometheus.HistogramVec, labels map[string]string, value float64) {
	histogram.With(labels).Observe(value)
}
