package handler

import (
	"net/http"

	"backend/internal/coping"
	"backend/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CopingHandler interface {
	GetCopingStrategies(c *gin.Context)
}

type copingHandler struct {
	service *coping.Service
	logger  *zap.Logger
}

func NewCopingHandler(service *coping.Service, logger *zap.Logger) CopingHandler {
	return &copingHandler{service: service, logger: logger}
}

// GetCopingStrategies handles POST /api/coping-strategies
// Always 200 for well-formed requests; degraded generation falls back
// to fixed strategies rather than failing.
func (h *copingHandler) GetCopingStrategies(c *gin.Context) {
	var req models.CopingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind coping request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	strategies := h.service.Generate(c.Request.Context(), req)
	c.JSON(http.StatusOK, gin.H{"strategies": strategies})
}
