package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Harsh-BH/fieldtools/internal/domain"
)

// SignalHandler lists the accepted signal quality values.
type SignalHandler struct{}

// NewSignalHandler creates a new SignalHandler.
func NewSignalHandler() *SignalHandler {
	return &SignalHandler{}
}

// List handles GET /api/v1/signals
func (h *SignalHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"signals": domain.Signals,
	})
}
