package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireCSRF compares X-CSRFToken (or X-XSRF-TOKEN) with the token bound
// to the session at login.
func RequireCSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		sent := c.GetHeader("X-CSRFToken")
		if sent == "" {
			sent = c.GetHeader("X-XSRF-TOKEN")
		}
		if sent == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing CSRF token"})
			return
		}

		p, ok := PrincipalFrom(c.Request.Context())
		if !ok || p.CSRFToken == "" || subtle.ConstantTimeCompare([]byte(sent), []byte(p.CSRFToken)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid CSRF token"})
			return
		}
		c.Next()
	}
}
