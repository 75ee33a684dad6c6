package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stock-insight/internal/forecast/config"
	delivery "stock-insight/internal/forecast/delivery/http"
	"stock-insight/internal/forecast/metrics"
	"stock-insight/internal/forecast/repository"
	"stock-insight/internal/forecast/service"
	"stock-insight/pkg/logger"
	"stock-insight/pkg/redis"
	"stock-insight/pkg/telegram"

	"github.com/labstack/echo/v4"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the forecast inference service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Forecast Service", logger.Field("name", cfg.App.Name))

	metrics.Register()

	redisClient, err := redis.NewClient(redis.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		PoolSize: cfg.Redis.PoolSize,
	})
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", logger.ErrorField(err))
	}
	defer func() { _ = redisClient.Close() }()

	var notifier telegram.Notifier
	if cfg.Telegram.Enabled {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	} else {
		notifier = telegram.NewNoopClient()
	}

	// Initialize repositories
	registry, err := repository.NewArtifactRegistry(cfg, appLogger, notifier)
	if err != nil {
		appLogger.Fatal("Failed to initialize model artifact registry", logger.ErrorField(err))
	}
	runnerRepo := repository.NewRunnerRepository(cfg, appLogger)
	cacheRepo := repository.NewForecastCache(cfg, appLogger, redisClient)

	// Initialize services
	forecastSvc := service.NewForecastService(cfg, appLogger, registry, runnerRepo, cacheRepo)

	// Periodic rescan picks up artifacts dropped into the registry dir.
	scheduler := cron.New()
	if cfg.Registry.RescanCron != "" {
		_, err = scheduler.AddFunc(cfg.Registry.RescanCron, func() {
			if err := registry.Rescan(context.Background()); err != nil {
				appLogger.Error("Artifact registry rescan failed", logger.ErrorField(err))
			}
		})
		if err != nil {
			appLogger.Fatal("Invalid registry rescan schedule", logger.ErrorField(err))
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.Use(delivery.MetricsMiddleware())

	forecastHandler := delivery.NewForecastHandler(forecastSvc, appLogger)
	apiV1 := e.Group("/api/v1")
	forecastHandler.RegisterRoutes(apiV1)
	forecastHandler.RegisterOps(e)

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"service": cfg.App.Name,
			"version": cfg.App.Version,
		})
	})

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop()
		}
	}()

	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

func main() {
	rootCmd := &cobra.Command{Use: "forecast-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-forecast.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing forecast-service CLI: %s\n", err)
		os.Exit(1)
	}
}
