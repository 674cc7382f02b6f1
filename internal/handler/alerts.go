package handler

import (
	"errors"
	"net/http"
	"time"

	"backend/internal/alerts"
	"backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type AlertHandler interface {
	GetAlerts(c *gin.Context)
	GetAlertByID(c *gin.Context)
	AcknowledgeAlert(c *gin.Context)
	ResolveAlert(c *gin.Context)
	GetSafetyScore(c *gin.Context)
	StreamAlerts(c *gin.Context)
}

type alertHandler struct {
	service  *alerts.Service
	hub      *alerts.Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewAlertHandler(service *alerts.Service, hub *alerts.Hub, logger *zap.Logger) AlertHandler {
	return &alertHandler{
		service: service,
		hub:     hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Auth happens in middleware; browser clients connect cross-origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// GetAlerts handles GET /api/alerts
// Query parameters:
// - filter: all | active | resolved (default active)
func (h *alertHandler) GetAlerts(c *gin.Context) {
	userID := c.GetString("user_id")
	filter := models.AlertFilter(c.DefaultQuery("filter", string(models.FilterActive)))

	list, err := h.service.List(userID, filter)
	if err != nil {
		h.logger.Error("Failed to list alerts", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve alerts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": list})
}

// GetAlertByID handles GET /api/alerts/:id
func (h *alertHandler) GetAlertByID(c *gin.Context) {
	alert, err := h.service.Get(c.Param("id"), c.GetString("user_id"))
	if err != nil {
		h.respondAlertError(c, err, "Failed to retrieve alert")
		return
	}

	c.JSON(http.StatusOK, gin.H{"alert": alert})
}

// AcknowledgeAlert handles POST /api/alerts/:id/acknowledge
func (h *alertHandler) AcknowledgeAlert(c *gin.Context) {
	if err := h.service.Acknowledge(c.Param("id"), c.GetString("user_id")); err != nil {
		h.respondAlertError(c, err, "Failed to acknowledge alert")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Alert acknowledged"})
}

// ResolveAlert handles POST /api/alerts/:id/resolve
func (h *alertHandler) ResolveAlert(c *gin.Context) {
	if err := h.service.Resolve(c.Param("id"), c.GetString("user_id")); err != nil {
		h.respondAlertError(c, err, "Failed to resolve alert")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Alert resolved"})
}

// GetSafetyScore handles GET /api/safety-score
func (h *alertHandler) GetSafetyScore(c *gin.Context) {
	userID := c.GetString("user_id")

	score, err := h.service.SafetyScore(userID)
	if err != nil {
		h.logger.Error("Failed to compute safety score", zap.String("user_id", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute safety score"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"score": score})
}

func (h *alertHandler) respondAlertError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, alerts.ErrAlertNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Alert not found"})
	case errors.Is(err, alerts.ErrNotAuthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not authorized for this alert"})
	case errors.Is(err, alerts.ErrAlertResolved):
		c.JSON(http.StatusConflict, gin.H{"error": "Alert already resolved"})
	default:
		h.logger.Error(fallback, zap.String("alert_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}

const (
	streamWriteWait = 10 * time.Second
	streamPingEvery = 30 * time.Second
)

// StreamAlerts handles GET /api/alerts/stream
// Upgrades to a websocket and pushes new alerts for the authenticated
// user as they are created. The client sends nothing; reads only serve
// to detect the peer closing.
func (h *alertHandler) StreamAlerts(c *gin.Context) {
	userID := c.GetString("user_id")

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade alert stream", zap.String("user_id", userID), zap.Error(err))
		return
	}
	defer conn.Close()

	events := h.hub.Subscribe(userID)
	defer h.hub.Unsubscribe(userID, events)

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(streamPingEvery)
	defer ping.Stop()

	for {
		select {
		case event := <-events:
			conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(event); err != nil {
				h.logger.Debug("Alert stream write failed", zap.String("user_id", userID), zap.Error(err))
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-closed:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
