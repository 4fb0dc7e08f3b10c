package routes

import (
	"github.com/gin-gonic/gin"

	"olstar_backend/internal/middleware"
)

// TrackingRoutes serves the driver map feed. The stream is long-lived and
// so sits outside the request timeout.
func TrackingRoutes(r *gin.Engine, h Handlers) {
	tracking := r.Group("/api/admin/drivers")
	tracking.Use(middleware.RequireLogin(), middleware.RequireAdmin())
	{
		tracking.GET("/locations", middleware.Timeout(h.RequestTimeout), h.Tracking.DriverLocations)
		tracking.GET("/stream", h.LocationStream.StreamDriverLocations)
	}
}
