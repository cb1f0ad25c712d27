package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"college-erp/pkg/response"
)

// BodyLimit rejects bodies over maxBytes. Declared lengths are refused up
// front; chunked bodies are cut off by MaxBytesReader and reported once
// the handler surfaces the read error.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			tooLarge(c)
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()

		if !c.Writer.Written() && hitBodyLimit(c.Errors) {
			tooLarge(c)
		}
	}
}

func hitBodyLimit(errs []*gin.Error) bool {
	var maxErr *http.MaxBytesError
	for _, e := range errs {
		if errors.As(e.Err, &maxErr) {
			return true
		}
	}
	return false
}

func tooLarge(c *gin.Context) {
	response.Error(c, http.StatusRequestEntityTooLarge, 10009, "request body too large")
	c.Abort()
}
