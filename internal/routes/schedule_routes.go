package routes

import (
	"github.com/gin-gonic/gin"

	"olstar_backend/internal/middleware"
)

func ScheduleRoutes(r *gin.Engine, h Handlers) {
	schedules := r.Group("/api/schedules")
	schedules.Use(middleware.RequireLogin(), middleware.RequireAdmin(), middleware.Timeout(h.RequestTimeout))
	{
		schedules.GET("", h.Schedules.ListSchedules)
		schedules.POST("", middleware.RequireCSRF(), h.Schedules.CreateSchedules)
		schedules.PUT("/:id", middleware.RequireCSRF(), h.Schedules.UpdateSchedule)
		schedules.DELETE("/:id", h.Schedules.DeleteSchedule)
	}
}
