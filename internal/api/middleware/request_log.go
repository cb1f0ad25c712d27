package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	requestIDKey     = "request_id"
	requestLoggerKey = "request_logger"
	requestIDHeader  = "X-Request-ID"
	requestIDMaxLen  = 64
)

// RequestContext tags the request with an id, reusing a short client
// supplied X-Request-ID, and stores a child logger carrying it.
func RequestContext(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" || len(rid) > requestIDMaxLen {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Set(requestLoggerKey, base.With(zap.String("request_id", rid)))
		c.Header(requestIDHeader, rid)
		c.Next()
	}
}

// LoggerFrom returns the request logger, or fallback outside RequestContext.
func LoggerFrom(c *gin.Context, fallback *zap.Logger) *zap.Logger {
	if v, ok := c.Get(requestLoggerKey); ok {
		if l, ok := v.(*zap.Logger); ok {
			return l
		}
	}
	return fallback
}

// AccessLog writes one line per request once the handler chain returns,
// so identity set by JWTAuth is included. Health probes drop to debug and
// requests slower than slow are raised to warn.
func AccessLog(fallback *zap.Logger, slow time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Int("bytes", c.Writer.Size()),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		}
		for _, key := range []string{"user_id", "role", "college_id"} {
			if v := c.GetString(key); v != "" {
				fields = append(fields, zap.String(key, v))
			}
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
			fields = append(fields, zap.String("errors", errs.String()))
		}

		LoggerFrom(c, fallback).Check(accessLevel(c.Request.URL.Path, status, latency, slow), "http request").Write(fields...)
	}
}

func accessLevel(path string, status int, latency, slow time.Duration) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest, slow > 0 && latency > slow:
		return zapcore.WarnLevel
	case path == "/health":
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}
