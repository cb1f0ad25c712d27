package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"college-erp/config"
)

// HeaderPolicy holds the response headers derived from config once at
// startup.
type HeaderPolicy struct {
	origins   map[string]bool
	anyOrigin bool
	csp       string
	hsts      bool
}

// NewHeaderPolicy allows the configured origins and lets pages load
// images from the upload provider.
func NewHeaderPolicy(server *config.ServerConfig, storage *config.StorageConfig) *HeaderPolicy {
	p := &HeaderPolicy{origins: make(map[string]bool, len(server.CORS.AllowOrigins))}
	for _, o := range server.CORS.AllowOrigins {
		o = strings.TrimRight(o, "/")
		if o == "*" {
			p.anyOrigin = true
			continue
		}
		p.origins[o] = true
	}

	img := "img-src 'self' data:"
	if storage.Provider == "cloudinary" {
		img += " https://res.cloudinary.com"
	}
	p.csp = "default-src 'none'; frame-ancestors 'none'; " + img
	p.hsts = strings.HasPrefix(server.BaseURL, "https://")
	return p
}

func (p *HeaderPolicy) allowed(origin string) bool {
	return origin != "" && (p.anyOrigin || p.origins[origin])
}

// CORS answers preflights and echoes allowed origins.
func CORS(p *HeaderPolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		c.Header("Vary", "Origin")
		if p.allowed(origin) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Expose-Headers", "Content-Disposition, "+requestIDHeader)
			if c.Request.Method == http.MethodOptions {
				h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE")
				h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, "+requestIDHeader)
				h.Set("Access-Control-Max-Age", "600")
			}
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// SecurityHeaders sets hardening headers. API responses carry personal
// records and are never cached.
func SecurityHeaders(p *HeaderPolicy) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", p.csp)
		if p.hsts {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			h.Set("Cache-Control", "no-store")
		}
		c.Next()
	}
}
