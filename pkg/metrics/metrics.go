// Package metrics 提供 Prometheus helper，包含常用 counter/gauge/histogram 模板
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wyfcoding/tradingterminal/pkg/logger"
)

// Metrics 指标集合
type Metrics struct {
	// HTTP 请求计数
	HTTPRequestsTotal prometheus.Counter
	// HTTP 请求耗时
	HTTPRequestDuration prometheus.Histogram

	// 提交的订单计数
	OrdersSubmitted prometheus.Counter
	// 校验失败的订单计数
	OrdersRejected prometheus.Counter
	// 网关拒绝的订单计数
	OrdersFailed prometheus.Counter
	// 在途提交数
	SubmissionsInFlight prometheus.Gauge

	// 行情快照更新计数
	BookUpdatesTotal prometheus.Counter
	// 提现申请计数
	WithdrawalsTotal prometheus.Counter
}

// New 创建指标实例
func New(serviceName string) *Metrics {
	return &Metrics{
		HTTPRequestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "terminal",
			Subsystem: serviceName,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}),
		HTTPRequestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "terminal",
			Subsystem: serviceName,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}),
		OrdersSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "terminal",
			Subsystem: serviceName,
			Name:      "orders_submitted_total",
			Help:      "Orders accepted by the execution gateway",
		}),
		OrdersRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "terminal",
			Subsystem: serviceName,
			Name:      "orders_rejected_total",
			Help:      "Orders rejected by draft validation",
		}),
		OrdersFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "terminal",
			Subsystem: serviceName,
			Name:      "orders_failed_total",
			Help:      "Orders rejected by the execution gateway",
		}),
		SubmissionsInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "terminal",
			Subsystem: serviceName,
			Name:      "submissions_in_flight",
			Help:      "Submissions currently awaiting the execution gateway",
		}),
		BookUpdatesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "terminal",
			Subsystem: serviceName,
			Name:      "book_updates_total",
			Help:      "Order book snapshots applied",
		}),
		WithdrawalsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "terminal",
			Subsystem: serviceName,
			Name:      "withdrawals_total",
			Help:      "Withdrawal requests accepted",
		}),
	}
}

// Register 注册所有指标
func (m *Metrics) Register() error {
	collectors := []prometheus.Collector{
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.OrdersSubmitted,
		m.OrdersRejected,
		m.OrdersFailed,
		m.SubmissionsInFlight,
		m.BookUpdatesTotal,
		m.WithdrawalsTotal,
	}
	for _, c := range collectors {
		if err := prometheus.DefaultRegisterer.Register(c); err != nil {
			logger.Error(context.Background(), "Failed to register metric", "error", err)
			return err
		}
	}
	logger.Info(context.Background(), "Metrics registered successfully")
	return nil
}

// StartHTTPServer 启动 Prometheus HTTP 服务器
func StartHTTPServer(port int, path string) error {
	if path == "" {
		path = "/metrics"
	}
	http.Handle(path, promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	logger.Info(context.Background(), "Starting Prometheus HTTP server", "addr", addr, "path", path)

	go func() {
		if err := http.ListenAndServe(addr, nil); err != nil {
			logger.Error(context.Background(), "Failed to start Prometheus HTTP server", "error", err)
		}
	}()
	return nil
}
