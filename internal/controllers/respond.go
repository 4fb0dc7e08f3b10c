package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"olstar_backend/internal/apperr"
)

// errorMessage is what a caller sees for err. Typed errors carry their
// message; downstream errors include the cause.
func errorMessage(err error) string {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		if ae.Kind == apperr.KindDownstream {
			return ae.Error()
		}
		return ae.Message
	}
	return "Internal server error"
}

func respondError(c *gin.Context, err error, extra gin.H) {
	status := apperr.Status(err)
	if status >= http.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{"path": c.FullPath(), "method": c.Request.Method}).WithError(err).Error("request failed")
	}
	body := gin.H{"error": errorMessage(err)}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(status, body)
}
