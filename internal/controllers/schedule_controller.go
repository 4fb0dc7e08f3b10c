package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"olstar_backend/internal/services"
)

type ScheduleController struct {
	schedules *services.ScheduleService
}

func NewScheduleController(schedules *services.ScheduleService) *ScheduleController {
	return &ScheduleController{schedules: schedules}
}

func (s *ScheduleController) ListSchedules(c *gin.Context) {
	list, err := s.schedules.List(c.Request.Context())
	if err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "schedules": list})
}

// CreateSchedules stores one schedule or an array of them and notifies each
// client once the whole batch is stored. If a member fails, the error body
// carries transactionIDs for the members already saved; those clients are
// not notified.
func (s *ScheduleController) CreateSchedules(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read request body"})
		return
	}
	batch, err := services.DecodeSchedules(body)
	if err != nil {
		respondError(c, err, nil)
		return
	}

	res, err := s.schedules.Create(c.Request.Context(), batch)
	if err != nil {
		respondError(c, err, gin.H{"transactionIDs": res.TransactionIDs})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"transactionIDs": res.TransactionIDs,
		"messages":       res.Messages,
	})
}

func (s *ScheduleController) UpdateSchedule(c *gin.Context) {
	id := c.Param("id")
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read request body"})
		return
	}
	if err := s.schedules.Update(c.Request.Context(), id, body); err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transactionID": id})
}

func (s *ScheduleController) DeleteSchedule(c *gin.Context) {
	id := c.Param("id")
	if err := s.schedules.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transactionID": id})
}
