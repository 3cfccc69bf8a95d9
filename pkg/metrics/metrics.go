// Package metrics 暴露 Prometheus 业务指标
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SchedulingConflicts 按维度统计被拒绝的课次写入
	SchedulingConflicts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "universite",
		Name:      "scheduling_conflicts_total",
		Help:      "被冲突检测拒绝的课次写入次数",
	}, []string{"dimension"})

	// Enrollments 按结果统计选课操作
	Enrollments = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "universite",
		Name:      "enrollments_total",
		Help:      "选课操作次数",
	}, []string{"result"})

	httpRequests = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "universite",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP 请求耗时",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// 选课结果标签
const (
	ResultEnrolled        = "enrolled"
	ResultAlreadyEnrolled = "already_enrolled"
	ResultFailed          = "failed"
)

// Middleware 记录每个路由的请求耗时
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler /metrics 抓取端点
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
