package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"olstar_backend/internal/services"
)

type TrackingController struct {
	tracking *services.TrackingService
}

func NewTrackingController(tracking *services.TrackingService) *TrackingController {
	return &TrackingController{tracking: tracking}
}

// DriverLocations serves the live map feed as GeoJSON.
func (t *TrackingController) DriverLocations(c *gin.Context) {
	b, err := t.tracking.DriverLocations(c.Request.Context())
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.Data(http.StatusOK, "application/geo+json", b)
}
