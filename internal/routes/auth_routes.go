package routes

import (
	"github.com/gin-gonic/gin"

	"olstar_backend/internal/middleware"
)

func AuthRoutes(r *gin.Engine, h Handlers) {
	auth := r.Group("/admin")
	{
		auth.POST("/login",
			middleware.Timeout(h.RequestTimeout),
			h.LoginLimiter.Limit("Login failed", h.OnLoginLimited),
			h.Auth.Login,
		)
		auth.GET("/logout", h.Auth.Logout)
	}
}
