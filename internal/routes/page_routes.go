package routes

import (
	"github.com/gin-gonic/gin"

	"olstar_backend/internal/middleware"
)

func PageRoutes(r *gin.Engine, h Handlers) {
	r.GET("/", h.Pages.LoginPage)

	pages := r.Group("/admin")
	pages.Use(middleware.RequireLogin(), middleware.RequireAdmin())
	{
		pages.GET("/dashboard", h.Pages.Page("dashboard.html"))
		pages.GET("/users", h.Pages.Page("users.html"))
		pages.GET("/operations/schedules", h.Pages.Page("operations_schedules.html"))
		pages.GET("/operations/track-drivers", h.Pages.Page("operations_track_drivers.html"))
		pages.GET("/operations/transactions", h.Pages.Page("operations_transactions.html"))
		pages.GET("/settings", h.Pages.Page("settings.html"))
		pages.GET("/transport_units", h.Pages.Page("transport_units.html"))
	}
}
