package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ahmad-hanafi1/product-store-pern/internal/di"
	"github.com/ahmad-hanafi1/product-store-pern/internal/gateway"
	"github.com/ahmad-hanafi1/product-store-pern/internal/handler"
	"github.com/ahmad-hanafi1/product-store-pern/internal/migrations"
	"github.com/ahmad-hanafi1/product-store-pern/internal/repository"
	"github.com/ahmad-hanafi1/product-store-pern/pkg/config"
	"github.com/ahmad-hanafi1/product-store-pern/pkg/database"
	"github.com/ahmad-hanafi1/product-store-pern/pkg/logger"
	pkgredis "github.com/ahmad-hanafi1/product-store-pern/pkg/redis"
	"github.com/ahmad-hanafi1/product-store-pern/pkg/telemetry"
)

const serviceName = "product-store"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	level := "info"
	if cfg.App.Debug {
		level = "debug"
	}
	if err := logger.Init(&logger.Config{
		Level:       level,
		ServiceName: serviceName,
		Development: cfg.IsDevelopment(),
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting product store API", zap.String("environment", cfg.App.Environment))

	ctx := context.Background()

	// Initialize OpenTelemetry
	telemetryCfg := &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}
	if telemetryCfg.ServiceName == "" {
		telemetryCfg.ServiceName = serviceName
	}
	if _, err := telemetry.Init(ctx, telemetryCfg); err != nil {
		appLog.Warn("Failed to initialize telemetry", zap.Error(err))
	} else if telemetryCfg.Enabled {
		appLog.Info("Telemetry initialized", zap.String("collector", telemetryCfg.CollectorAddr))
	}
	defer telemetry.Shutdown(ctx)

	// Initialize database connection
	dbCfg := database.PostgresConfigFrom(cfg.Database, cfg.OTel.Enabled)
	db, err := database.NewPostgres(ctx, dbCfg)
	if err != nil {
		appLog.Fatal("Database connection failed", zap.Error(err))
	}
	defer db.Close()
	appLog.Info(fmt.Sprintf("Database connected (pool: min=%d, max=%d)", dbCfg.MinConns, dbCfg.MaxConns))

	if cfg.Database.AutoMigrate {
		if err := migrations.Up(ctx, db.Pool()); err != nil {
			appLog.Fatal("Database migration failed", zap.Error(err))
		}
		appLog.Info("Database schema is up to date")
	}

	checks := map[string]handler.HealthChecker{"database": db}

	// Redis is only needed for the shared rate limiter
	var redisClient *pkgredis.Client
	if cfg.RateLimit.Enabled && cfg.RateLimit.UseRedis {
		redisClient, err = pkgredis.NewClient(ctx, pkgredis.ConfigFrom(cfg.Redis))
		if err != nil {
			appLog.Warn("Redis unavailable, falling back to in-process rate limiting", zap.Error(err))
		} else {
			defer redisClient.Close()
			checks["redis"] = redisClient
			appLog.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
		}
	}

	generator, err := gateway.NewRecipeGenerator(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
	if err != nil {
		appLog.Fatal("Failed to initialize recipe generator", zap.Error(err))
	}
	if closer, ok := generator.(io.Closer); ok {
		defer closer.Close()
	}
	appLog.Info("Recipe generator ready", zap.String("generator", generator.Name()))

	// Build dependency injection container
	container := di.NewContainer(&di.ContainerConfig{
		Config:       cfg,
		Log:          appLog,
		UserRepo:     repository.NewPostgresUserRepository(db.Pool()),
		ProductRepo:  repository.NewPostgresProductRepository(db.Pool()),
		RecipeRepo:   repository.NewPostgresRecipeRepository(db.Pool()),
		Generator:    generator,
		Redis:        redisClient,
		HealthChecks: checks,
	})
	defer container.Close()

	// Setup Gin
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           container.Router(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
	}

	// Start server in goroutine
	go func() {
		appLog.Info("Product store API listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	appLog.Info("Server exited gracefully")
}
