package server

import (
	"net/http"

	"backend/internal/alerts"
	"backend/internal/config"
	"backend/internal/coping"
	"backend/internal/crypto"
	"backend/internal/escalation"
	"backend/internal/handler"
	"backend/internal/llm"
	"backend/internal/middleware"
	"backend/internal/moderation"
	"backend/internal/notifier"
	"backend/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Server struct {
	router   *gin.Engine
	db       *sqlx.DB
	cfg      *config.Config
	logger   *zap.Logger
	chain    *llm.Chain
	notifier notifier.Notifier
	cipher   *crypto.ContentCipher
	hub      *alerts.Hub
}

func NewServer(
	db *sqlx.DB,
	cfg *config.Config,
	logger *zap.Logger,
	chain *llm.Chain,
	n notifier.Notifier,
	cipher *crypto.ContentCipher,
	hub *alerts.Hub,
) *Server {
	router := gin.Default()

	s := &Server{
		router:   router,
		db:       db,
		cfg:      cfg,
		logger:   logger,
		chain:    chain,
		notifier: n,
		cipher:   cipher,
		hub:      hub,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	alertRepo := repository.NewAlertRepository(s.db, s.logger)
	guardianRepo := repository.NewGuardianRepository(s.db, s.logger)

	resolver := escalation.NewResolver(guardianRepo, s.logger)
	moderationService := moderation.NewService(s.chain, alertRepo, resolver, s.notifier, s.hub, s.cipher, s.logger)
	alertService := alerts.NewService(alertRepo, guardianRepo, s.cipher, s.logger)
	copingService := coping.NewService(s.chain, s.logger)

	moderationHandler := handler.NewModerationHandler(moderationService, s.logger)
	alertHandler := handler.NewAlertHandler(alertService, s.hub, s.logger)
	copingHandler := handler.NewCopingHandler(copingService, s.logger)

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Authenticated routes
	authRequired := s.router.Group("/api")
	authRequired.Use(middleware.AuthMiddleware(s.logger))
	{
		authRequired.POST("/moderate", moderationHandler.ModerateContent)
		authRequired.POST("/coping-strategies", copingHandler.GetCopingStrategies)

		authRequired.GET("/alerts", alertHandler.GetAlerts)
		authRequired.GET("/alerts/stream", alertHandler.StreamAlerts)
		authRequired.GET("/alerts/:id", alertHandler.GetAlertByID)
		authRequired.POST("/alerts/:id/acknowledge", alertHandler.AcknowledgeAlert)
		authRequired.POST("/alerts/:id/resolve", alertHandler.ResolveAlert)

		authRequired.GET("/safety-score", alertHandler.GetSafetyScore)
	}
}

func (s *Server) Run(addr string) {
	s.logger.Info("Server starting", zap.String("addr", addr))
	if err := s.router.Run(addr); err != nil {
		s.logger.Fatal("Server failed to start", zap.Error(err))
	}
}
