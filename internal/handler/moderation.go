package handler

import (
	"net/http"

	"backend/internal/models"
	"backend/internal/moderation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ModerationHandler interface {
	ModerateContent(c *gin.Context)
}

type moderationHandler struct {
	service *moderation.Service
	logger  *zap.Logger
}

func NewModerationHandler(service *moderation.Service, logger *zap.Logger) ModerationHandler {
	return &moderationHandler{service: service, logger: logger}
}

// ModerateContent handles POST /api/moderate
// Always returns 200 with a verdict for well-formed requests: when
// analysis itself is unavailable the verdict is the cautious fail-safe,
// never an error the client has to interpret.
func (h *moderationHandler) ModerateContent(c *gin.Context) {
	var req models.ModerationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind moderation request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req.SubjectUserID = c.GetString("user_id")

	verdict := h.service.Classify(c.Request.Context(), req)
	c.JSON(http.StatusOK, verdict)
}
