package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// unmatchedPath метка пути для запросов вне маршрутов
const unmatchedPath = "unmatched"

// PrometheusMiddleware метрики HTTP инспектора сессии.
//
// Метрики (с префиксом service):
//   - http_requests_total{method,path,status}
//   - http_request_duration_seconds{method,path}
//   - http_response_size_bytes{path}
//   - http_requests_inflight
//   - session_unavailable_total{status}: ответы 503/504, горутина симуляции занята или остановлена
type PrometheusMiddleware struct {
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	size        *prometheus.HistogramVec
	inflight    prometheus.Gauge
	unavailable *prometheus.CounterVec
}

// NewPrometheusMiddleware создаёт middleware и регистрирует метрики в reg
func NewPrometheusMiddleware(service string, reg prometheus.Registerer) (*PrometheusMiddleware, error) {
	pm := &PrometheusMiddleware{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: service,
			Name:      "http_requests_total",
			Help:      "Общее число HTTP-запросов.",
		}, []string{"method", "path", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: service,
			Name:      "http_request_duration_seconds",
			Help:      "Длительность HTTP-запросов, включая ожидание горутины симуляции.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "path"}),
		size: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: service,
			Name:      "http_response_size_bytes",
			Help:      "Размер тела ответа до сжатия.",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
		}, []string{"path"}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: service,
			Name:      "http_requests_inflight",
			Help:      "Текущее количество обрабатываемых HTTP-запросов.",
		}),
		unavailable: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: service,
			Name:      "session_unavailable_total",
			Help:      "Ответы 503/504: сессия остановлена или не ответила вовремя.",
		}, []string{"status"}),
	}

	for _, c := range []prometheus.Collector{pm.requests, pm.duration, pm.size, pm.inflight, pm.unavailable} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return pm, nil
}

// Handler возвращает gin.HandlerFunc для router.Use()
func (pm *PrometheusMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		pm.inflight.Inc()
		defer pm.inflight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = unmatchedPath
		}
		code := c.Writer.Status()
		status := strconv.Itoa(code)

		pm.requests.WithLabelValues(c.Request.Method, path, status).Inc()
		pm.duration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
		if n := c.Writer.Size(); n >= 0 {
			pm.size.WithLabelValues(path).Observe(float64(n))
		}
		if code == http.StatusServiceUnavailable || code == http.StatusGatewayTimeout {
			pm.unavailable.WithLabelValues(status).Inc()
		}
	}
}

// RegisterMetricsEndpoint добавляет GET /metrics, отдающий метрики gatherer
func RegisterMetricsEndpoint(r gin.IRoutes, gatherer prometheus.Gatherer) {
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
}
