package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"sportfund/internal/config"
	"sportfund/internal/database"
	"sportfund/internal/logger"
	"sportfund/internal/metrics"
	"sportfund/internal/server"
	"sportfund/internal/stats"
	"sportfund/internal/validator"

	_ "sportfund/internal/docs" // Import swagger docs
)

// @title           SportFund API
// @version         1.0
// @description     SportFund connects investors with athletes: discovery, season stats, career goals, purchase requests and investments.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

func main() {
	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Init(appConfig.Env, appConfig.LogLevel)
	defer logger.Sync()
	log := logger.Get()

	if appConfig.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create database manager
	dbManager, err := database.NewManager(database.NewConfig(appConfig))
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}
	defer func() {
		if err := dbManager.Close(); err != nil {
			log.Warnw("failed to close database", "error", err)
		}
	}()

	// Run migrations
	if err := dbManager.RunMigrations(database.DefaultMigrationsPath); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	db := dbManager.DB()
	registry, err := stats.NewRegistry(db)
	if err != nil {
		return fmt.Errorf("failed to build sport registry: %w", err)
	}

	var m *metrics.Metrics
	if appConfig.MetricsEnabled {
		m = metrics.New()
	}

	validator.Register()

	svc := server.NewServices(db, registry, appConfig.RecentUpdatesLimit, m)
	router := server.NewRouter(svc, server.Options{
		PipelineAPIKeys: appConfig.PipelineAPIKeys,
		Metrics:         m,
		MetricsEnabled:  appConfig.MetricsEnabled,
		Swagger:         appConfig.Env != "production",
		AllowedOrigins:  appConfig.AllowedOrigins,
		HealthCheck:     dbManager.Ping,
	})

	if len(appConfig.PipelineAPIKeys) == 0 {
		log.Warn("PIPELINE_API_KEYS is not set; pipeline endpoints are disabled")
	}

	srv := &http.Server{
		Addr:              ":" + appConfig.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting SportFund API on port %s", appConfig.Port)
		log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	log.Info("server stopped")
	return nil
}
