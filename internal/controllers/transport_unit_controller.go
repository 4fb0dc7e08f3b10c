package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"olstar_backend/internal/models"
	"olstar_backend/internal/stores"
)

type TransportUnitController struct {
	fleet *stores.FleetStore
}

func NewTransportUnitController(fleet *stores.FleetStore) *TransportUnitController {
	return &TransportUnitController{fleet: fleet}
}

// ListTransportUnits returns the roster keyed by unit ID.
func (t *TransportUnitController) ListTransportUnits(c *gin.Context) {
	units, err := t.fleet.List(c.Request.Context())
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, units)
}

func (t *TransportUnitController) CreateTransportUnit(c *gin.Context) {
	var input models.TransportUnitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transport unit input: " + err.Error()})
		return
	}

	id, err := t.fleet.Create(c.Request.Context(), input.Unit())
	if err != nil {
		respondError(c, err, nil)
		return
	}
	logrus.WithField("unit_id", id).Info("transport unit created")
	c.JSON(http.StatusCreated, gin.H{"unit_id": id})
}

// UpdateTransportUnit overwrites all four attributes of the unit.
func (t *TransportUnitController) UpdateTransportUnit(c *gin.Context) {
	var input models.TransportUnitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transport unit input: " + err.Error()})
		return
	}
	if err := t.fleet.Update(c.Request.Context(), c.Param("id"), input); err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (t *TransportUnitController) DeleteTransportUnit(c *gin.Context) {
	if err := t.fleet.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
