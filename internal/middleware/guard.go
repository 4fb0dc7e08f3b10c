package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"olstar_backend/internal/models"
)

// LoginPage is where unauthenticated navigation is sent.
const LoginPage = "/"

// RequireLogin redirects to the login page when no session is present.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := PrincipalFrom(c.Request.Context()); !ok {
			c.Redirect(http.StatusFound, LoginPage)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole rejects sessions whose snapshotted role differs from role.
// It runs after RequireLogin and never redirects.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c.Request.Context())
		if !ok || p.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}
