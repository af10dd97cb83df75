package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/annel0/blockworld/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T, buf *bytes.Buffer) (*gin.Engine, *PrometheusMiddleware, *prometheus.Registry) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	reg := prometheus.NewRegistry()
	pm, err := NewPrometheusMiddleware("test", reg)
	require.NoError(t, err)

	r := gin.New()
	r.Use(NewRequestLogger(logging.NewWriterLogger("api", buf, logging.TRACE)).Handler())
	r.Use(pm.Handler())
	r.GET("/ok", func(c *gin.Context) { c.String(http.StatusOK, TraceID(c)) })
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/busy", func(c *gin.Context) { c.Status(http.StatusGatewayTimeout) })
	RegisterMetricsEndpoint(r, reg)
	return r, pm, reg
}

func TestRequestLoggerSetsTraceID(t *testing.T) {
	var buf bytes.Buffer
	r, _, _ := newRouter(t, &buf)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))

	require.Equal(t, http.StatusOK, w.Code)
	traceID := w.Header().Get(TraceIDHeader)
	assert.NotEmpty(t, traceID)
	assert.Equal(t, traceID, w.Body.String(), "обработчик видит тот же trace-ID")
	assert.Contains(t, buf.String(), "[DEBUG] [api] [HTTP] GET /ok 200")
}

func TestRequestLoggerWarnsOnClientError(t *testing.T) {
	var buf bytes.Buffer
	r, _, _ := newRouter(t, &buf)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, buf.String(), "[WARN] [api] [HTTP] GET /fail 400")
}

func TestPrometheusMiddlewareCountsRequests(t *testing.T) {
	var buf bytes.Buffer
	r, pm, _ := newRouter(t, &buf)

	for _, path := range []string{"/ok", "/fail", "/fail", "/missing", "/busy"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 1.0, testutil.ToFloat64(pm.requests.WithLabelValues("GET", "/ok", "200")))
	assert.Equal(t, 2.0, testutil.ToFloat64(pm.requests.WithLabelValues("GET", "/fail", "400")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.requests.WithLabelValues("GET", unmatchedPath, "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(pm.unavailable.WithLabelValues("504")), "таймаут сессии")
	assert.Equal(t, 0.0, testutil.ToFloat64(pm.unavailable.WithLabelValues("503")))
	assert.Equal(t, 0.0, testutil.ToFloat64(pm.inflight))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "test_http_request_duration_seconds"))
	assert.Contains(t, w.Body.String(), `test_http_response_size_bytes_count{path="/ok"} 1`)
}

func TestPrometheusMiddlewareDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusMiddleware("dup", reg)
	require.NoError(t, err)
	_, err = NewPrometheusMiddleware("dup", reg)
	assert.Error(t, err)
}
