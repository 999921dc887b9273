package http

import (
	"strconv"
	"time"

	"github.com/autotaller/recepcion-agenda/internal/core/ports/out"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "requestId"
)

// RequestID берет X-Request-ID клиента или выдает новый
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		requestID := ctx.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		ctx.Set(requestIDKey, requestID)
		ctx.Header(RequestIDHeader, requestID)
		ctx.Next()
	}
}

// AccessLog одна строка лога на запрос
func AccessLog(logger out.LoggerPort) gin.HandlerFunc {
	logger = logger.WithModule("http")
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		logger.Info("http.request", out.LogFields{
			"requestId": ctx.GetString(requestIDKey),
			"method":    ctx.Request.Method,
			"path":      ctx.FullPath(),
			"status":    ctx.Writer.Status(),
			"timing":    time.Since(start).Milliseconds(),
		})
	}
}

// Metrics счетчики и гистограмма длительности запросов песочницы
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "recepcion",
			Subsystem: "sandbox",
			Name:      "http_requests_total",
			Help:      "HTTP requests handled by the sandbox backend.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "recepcion",
			Subsystem: "sandbox",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency of the sandbox backend.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	registry.MustRegister(m.requests, m.duration)
	return m
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()
		ctx.Next()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(ctx.Request.Method, route, strconv.Itoa(ctx.Writer.Status())).Inc()
		m.duration.WithLabelValues(ctx.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func (m *Metrics) RegisterRoutes(router *gin.Engine) {
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})))
}
