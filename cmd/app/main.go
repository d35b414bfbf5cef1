package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"marketplace/cmd"
	httpadapter "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/core/application/courier"
	"marketplace/internal/pkg/logging"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configs := getConfigs()
	logger := logging.New(os.Stdout, configs.LogLevel)

	gormDB, err := gorm.Open(gorm_postgres.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err = postgres.AutoMigrate(gormDB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	app, err := cmd.NewCompositionRoot(configs, gormDB, logger)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			logger.Error("Failed to release connections", "error", closeErr)
		}
	}()

	jobManager := app.CreateJobManager()
	if err = jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e := startWebServer(app, configs.HTTPPort, logger)

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	jobManager.StopAll(shutdownCtx)
	if err = e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", "error", err)
	}
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	interval, err := time.ParseDuration(envOrDefault("TRACKING_TICK_INTERVAL", courier.DefaultInterval.String()))
	if err != nil {
		log.Fatalf("Invalid TRACKING_TICK_INTERVAL: %v", err)
	}

	return cmd.Config{
		HTTPPort:              envOrDefault("HTTP_PORT", "8080"),
		DBHost:                os.Getenv("DB_HOST"),
		DBPort:                envOrDefault("DB_PORT", "5432"),
		DBUser:                os.Getenv("DB_USER"),
		DBPassword:            os.Getenv("DB_PASSWORD"),
		DBName:                os.Getenv("DB_NAME"),
		DBSslMode:             envOrDefault("DB_SSLMODE", "disable"),
		RedisAddr:             os.Getenv("REDIS_ADDR"),
		RedisChannelPrefix:    envOrDefault("REDIS_CHANNEL_PREFIX", "marketplace:"),
		KafkaHost:             os.Getenv("KAFKA_HOST"),
		KafkaOrderEventsTopic: envOrDefault("KAFKA_ORDER_EVENTS_TOPIC", "order-events"),
		TrackingTickInterval:  interval,
		LogLevel:              envOrDefault("LOG_LEVEL", "info"),
	}
}

func envOrDefault(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func startWebServer(app *cmd.CompositionRoot, port string, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(httpadapter.RequestLogger(logger))

	app.CreateServer().Register(e)
	httpadapter.CloseStreamsOnShutdown(e, app.CloseStreams, logger)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()
	return e
}
