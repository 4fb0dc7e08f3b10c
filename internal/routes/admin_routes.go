package routes

import (
	"github.com/gin-gonic/gin"

	"olstar_backend/internal/middleware"
)

func AdminRoutes(r *gin.Engine, h Handlers) {
	admin := r.Group("/api/admin")
	admin.Use(middleware.RequireLogin(), middleware.RequireAdmin(), middleware.Timeout(h.RequestTimeout))
	{
		admin.GET("/transport-units", h.TransportUnits.ListTransportUnits)
		admin.POST("/transport-units", h.TransportUnits.CreateTransportUnit)
		admin.PUT("/transport-units/:id", h.TransportUnits.UpdateTransportUnit)
		admin.DELETE("/transport-units/:id", h.TransportUnits.DeleteTransportUnit)

		admin.GET("/users", h.Users.ListUsers)
		admin.PUT("/users/:uid/role", h.Users.SetUserRole)
	}
}
