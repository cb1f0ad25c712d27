package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rollbar/rollbar-go"
	"go.uber.org/zap"

	"college-erp/config"
	"college-erp/pkg/response"
)

// ErrorReporter receives panics and server errors. *rollbar.Client implements it.
type ErrorReporter interface {
	Critical(interfaces ...interface{})
	Error(interfaces ...interface{})
}

// NewRollbar builds an async Rollbar client, or nil when no token is set.
func NewRollbar(cfg *config.RollbarConfig, codeVersion string) *rollbar.Client {
	if cfg.Token == "" {
		return nil
	}
	return rollbar.NewAsync(cfg.Token, cfg.Environment, codeVersion, "", "")
}

// Recovery turns panics into a 500 envelope and reports them along with
// any 5xx response. A nil reporter only logs.
func Recovery(reporter ErrorReporter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("panic: %v", rec)
				}
				LoggerFrom(c, logger).Error("panic recovered",
					zap.String("path", c.Request.URL.Path),
					zap.Error(err),
					zap.Stack("stack"))
				if reporter != nil {
					reporter.Critical(err, c.Request, requestExtras(c))
				}
				if !c.Writer.Written() {
					response.InternalError(c)
				}
				c.Abort()
			}
		}()

		c.Next()

		if reporter != nil && c.Writer.Status() >= http.StatusInternalServerError {
			msg := fmt.Sprintf("%s %s returned %d", c.Request.Method, c.FullPath(), c.Writer.Status())
			if last := c.Errors.Last(); last != nil {
				reporter.Error(last.Err, c.Request, requestExtras(c))
				return
			}
			reporter.Error(msg, c.Request, requestExtras(c))
		}
	}
}

func requestExtras(c *gin.Context) map[string]interface{} {
	return map[string]interface{}{
		"request_id": c.GetString(requestIDKey),
		"user_id":    c.GetString("user_id"),
		"college_id": c.GetString("college_id"),
	}
}
