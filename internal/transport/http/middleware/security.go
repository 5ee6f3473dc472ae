package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Security sets common HTTP security headers on every response. Responses
// may carry tokens, so they are marked non-cacheable.
func Security() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "SAMEORIGIN")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		c.Header("Cache-Control", "no-store")
		c.Header("Pragma", "no-cache")
		c.Next()
	}
}

// CORS answers cross-origin requests from the allowed origins. "*" allows
// any origin; the request origin is echoed because credentials are allowed.
func CORS(allowed []string) gin.HandlerFunc {
	trim := func(s string) string { return strings.TrimRight(strings.TrimSpace(s), "/") }

	origins := make([]string, 0, len(allowed))
	for _, a := range allowed {
		if a = trim(a); a != "" {
			origins = append(origins, a)
		}
	}

	return func(c *gin.Context) {
		origin := trim(c.GetHeader("Origin"))
		c.Writer.Header().Add("Vary", "Origin")

		allowedOrigin := ""
		if origin != "" {
			for _, a := range origins {
				if a == "*" || strings.EqualFold(a, origin) {
					allowedOrigin = origin
					break
				}
			}
		}

		if allowedOrigin != "" {
			c.Header("Access-Control-Allow-Origin", allowedOrigin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, HEAD, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
			c.Header("Access-Control-Expose-Headers", "Authorization, X-Request-ID")
			c.Header("Access-Control-Max-Age", "3600")
		}

		if c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != "" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
