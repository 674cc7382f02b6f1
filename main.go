package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"backend/internal/alerts"
	"backend/internal/config"
	"backend/internal/crypto"
	"backend/internal/llm"
	"backend/internal/notifier"
	"backend/internal/repository"
	"backend/internal/server"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err) // Should not happen in development
	}
	defer func() {
		_ = logger.Sync() // Flushes buffer, if any
	}()

	// Load configuration
	cfgPath := "configs/config.yml"
	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Database connection
	db, err := repository.NewPostgresDB(cfg.Database.URL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	repository.MigrateDB(db, logger)

	// Content cipher for encrypting flagged text at rest
	cipher, err := crypto.NewContentCipherFromEnv()
	if err != nil {
		logger.Fatal("Failed to initialize content cipher", zap.Error(err))
	}
	logger.Info("Content cipher initialized successfully")

	// Classifier provider chain
	chain, err := llm.NewChain(cfg.LLM.Providers, logger)
	if err != nil {
		logger.Fatal("Failed to initialize provider chain", zap.Error(err))
	}
	defer chain.Close()

	// Guardian notifier (optional)
	var n notifier.Notifier
	if cfg.Notifier.Enabled {
		tg, err := notifier.NewTelegramNotifier(cfg.Notifier.TelegramBotToken, logger)
		if err != nil {
			logger.Warn("Failed to initialize Telegram notifier, falling back to log notifier", zap.Error(err))
			n = notifier.NewLogNotifier(logger)
		} else {
			n = tg
		}
	} else {
		n = notifier.NewLogNotifier(logger)
	}

	// Live alert feed
	hub := alerts.NewHub()

	// Context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize and run the server
	srv := server.NewServer(db, cfg, logger, chain, n, cipher, hub)
	srv.Run(cfg.Server.Port)

	<-ctx.Done()
	logger.Info("Application stopped.")
}
