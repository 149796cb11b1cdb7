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

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gamereview/backend/internal/config"
	"gamereview/backend/internal/database"
	"gamereview/backend/internal/hub"
	"gamereview/backend/internal/logging"
	"gamereview/backend/internal/metrics"
	"gamereview/backend/internal/repository"
	"gamereview/backend/internal/router"
	"gamereview/backend/internal/service"
	"gamereview/backend/pkg/jwt"
)

// @title           Game Review API
// @version         1.0
// @description     Games, reviews and average ratings.
// @host            localhost:8080
// @BasePath        /api
// @securityDefinitions.apiKey TokenAuth
// @in header
// @name x-auth-token
func main() {
	cfg, err := config.Load(".")
	if errors.Is(err, config.ErrEnvFileMissing) {
		log.Println("Warning:", err)
	} else if err != nil {
		log.Fatalf("Unable to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		log.Fatalf("Unable to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	gin.SetMode(cfg.GinMode)

	// Connect to the database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database unavailable", zap.Error(err))
	}
	logger.Info("database connection established")

	tokens := jwt.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	handler := router.New(router.Deps{
		Auth:    service.NewAuthService(repository.NewUserRepository(db), tokens),
		Reviews: service.NewReviewService(repository.NewGameRepository(db)),
		Tokens:  tokens,
		Hub:     hub.NewHub(),
		Metrics: metrics.NewRecorder(),
		Logger:  logger,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening",
			zap.String("addr", srv.Addr),
			zap.String("swagger", "http://localhost"+srv.Addr+"/swagger/index.html"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
