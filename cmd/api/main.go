package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/tribune-social/backend/internal/config"
	"github.com/tribune-social/backend/internal/database"
	"github.com/tribune-social/backend/internal/logger"
	"github.com/tribune-social/backend/internal/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.New()

	if err := logger.Init(cfg.Env); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.New(cfg)
	if err != nil {
		logger.Get().Fatal("failed to initialize database", zap.Error(err))
	}

	srv := server.New(cfg, db).HTTPServer()

	go func() {
		logger.Get().Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Get().Fatal("server error", zap.Error(err))
		}
	}()

	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-stopChan

	logger.Get().Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Get().Error("forced shutdown", zap.Error(err))
	}

	if err := db.Close(); err != nil {
		logger.Get().Error("closing database", zap.Error(err))
	}
}
