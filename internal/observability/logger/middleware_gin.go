package logger

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	obscontext "github.com/smallbiznis/faktur/internal/observability/context"
	"go.uber.org/zap"
)

// MiddlewareConfig controls request logging behavior.
type MiddlewareConfig struct {
	Debug           bool
	ErrorClassifier func(err error) (string, string)
}

// GinMiddleware emits one structured line per request, tagged with a request
// ID that is minted here when the caller did not send one. Scrape traffic on
// /metrics is demoted to debug so it does not drown the log.
func GinMiddleware(cfg MiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := ensureRequestID(c)

		c.Request = c.Request.WithContext(
			obscontext.WithRequestID(c.Request.Context(), requestID),
		)

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if strings.TrimSpace(route) == "" {
			route = "unknown"
		}
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			zap.Int64("bytes_in", clampToZero(c.Request.ContentLength)),
			zap.Int("bytes_out", clampToZero(c.Writer.Size())),
		}

		if last := c.Errors.Last(); last != nil {
			var errorType, errorCode string
			if cfg.ErrorClassifier != nil {
				errorType, errorCode = cfg.ErrorClassifier(last.Err)
			}
			fields = append(fields,
				zap.String("error_type", errorType),
				zap.String("error_code", errorCode),
			)
			if cfg.Debug {
				fields = append(fields, zap.Stack("stack"))
			}
		}

		logRequest(FromContext(c.Request.Context()), route, status, fields)
	}
}

// ensureRequestID returns the inbound request ID, or mints a uuid when the
// request carries none, and echoes it back on the response.
func ensureRequestID(c *gin.Context) string {
	candidates := []string{
		c.GetHeader("X-Request-Id"),
		c.GetHeader("X-Request-ID"),
		c.GetString("request_id"),
	}

	requestID := ""
	for _, candidate := range candidates {
		if candidate = strings.TrimSpace(candidate); candidate != "" {
			requestID = candidate
			break
		}
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}

	c.Set("request_id", requestID)
	c.Header("X-Request-Id", requestID)
	return requestID
}

func logRequest(log *zap.Logger, route string, status int, fields []zap.Field) {
	if log == nil {
		return
	}

	level := zap.InfoLevel
	switch {
	case status >= http.StatusInternalServerError:
		level = zap.ErrorLevel
	case strings.EqualFold(strings.TrimSpace(route), "/metrics"):
		level = zap.DebugLevel
	}

	if entry := log.Check(level, "http_request"); entry != nil {
		entry.Write(fields...)
	}
}

func clampToZero[T int | int64](v T) T {
	if v < 0 {
		return 0
	}
	return v
}
