package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type healthReporter interface {
	String() string
}

type HealthHandler struct {
	Backend    string
	Prediction healthReporter
}

func NewHealthHandler(backend string, prediction healthReporter) *HealthHandler {
	return &HealthHandler{Backend: backend, Prediction: prediction}
}

func (h *HealthHandler) Health(c *gin.Context) {
	prediction := "unknown"
	if h.Prediction != nil {
		prediction = h.Prediction.String()
	}
	c.JSON(http.StatusOK, gin.H{
		"status":             "ok",
		"analyzer_backend":   h.Backend,
		"prediction_service": prediction,
	})
}
