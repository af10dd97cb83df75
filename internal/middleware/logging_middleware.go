package middleware

import (
	"time"

	"github.com/annel0/blockworld/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

// TraceIDKey ключ trace-ID в gin.Context
const TraceIDKey = "trace_id"

// TraceIDHeader заголовок ответа с trace-ID запроса
const TraceIDHeader = "X-Trace-ID"

// RequestLogger снабжает каждый HTTP-запрос trace-ID и пишет краткие логи.
// Уровень сообщения о завершении зависит от статуса ответа.
type RequestLogger struct {
	log *logging.Logger
}

// NewRequestLogger создаёт middleware. При log == nil используется логгер по умолчанию.
func NewRequestLogger(log *logging.Logger) *RequestLogger {
	return &RequestLogger{log: log}
}

func (rl *RequestLogger) logf(status int, format string, args ...interface{}) {
	switch {
	case rl.log == nil && status >= 500:
		logging.Error(format, args...)
	case rl.log == nil && status >= 400:
		logging.Warn(format, args...)
	case rl.log == nil:
		logging.Debug(format, args...)
	case status >= 500:
		rl.log.Error(format, args...)
	case status >= 400:
		rl.log.Warn(format, args...)
	default:
		rl.log.Debug(format, args...)
	}
}

// Handler возвращает gin.HandlerFunc для router.Use()
func (rl *RequestLogger) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Trace-ID из OpenTelemetry, если span уже создан выше по цепочке
		span := trace.SpanFromContext(c.Request.Context())
		var traceID string
		if span.SpanContext().IsValid() {
			traceID = span.SpanContext().TraceID().String()
		} else {
			traceID = uuid.NewString()
		}
		c.Set(TraceIDKey, traceID)
		c.Header(TraceIDHeader, traceID)

		start := time.Now()
		method := c.Request.Method
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		status := c.Writer.Status()
		rl.logf(status, "[HTTP] %s %s %d %s ip=%s trace=%s",
			method, path, status, time.Since(start), c.ClientIP(), traceID)
	}
}

// TraceID возвращает trace-ID текущего запроса
func TraceID(c *gin.Context) string {
	return c.GetString(TraceIDKey)
}
