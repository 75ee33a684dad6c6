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

	"stock-insight/internal/agent/config"
	delivery "stock-insight/internal/agent/delivery/http"
	"stock-insight/internal/agent/repository"
	"stock-insight/internal/agent/service"
	"stock-insight/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"google.golang.org/genai"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the agent service",
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

	appLogger.Info("Starting Agent Service",
		logger.Field("name", cfg.App.Name),
		logger.Field("provider", cfg.AI.Provider))

	// Initialize the AI provider
	var aiRepo repository.AIRepository
	switch cfg.AI.Provider {
	case "openrouter":
		aiRepo = repository.NewOpenRouterRepository(cfg, appLogger)
	default:
		genAiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey: cfg.Gemini.APIKey,
		})
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini client", logger.ErrorField(err))
		}
		aiRepo, err = repository.NewGeminiAIRepository(cfg, appLogger, genAiClient)
		if err != nil {
			appLogger.Fatal("Failed to initialize Gemini repository", logger.ErrorField(err))
		}
	}

	newsFeedRepo := repository.NewNewsFeedRepository(cfg, appLogger)

	// Initialize services
	memory := service.NewConversationMemory(cfg.Chat.MaxExchanges)
	chatSvc := service.NewChatService(cfg, appLogger, aiRepo, memory)
	newsSvc := service.NewNewsService(cfg, appLogger, newsFeedRepo, aiRepo)

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true
	e.Use(delivery.ProcessTimeMiddleware())

	agentHandler := delivery.NewAgentHandler(chatSvc, newsSvc, appLogger)
	apiV1 := e.Group("/api/v1")
	agentHandler.RegisterRoutes(apiV1)

	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"service": cfg.App.Name,
			"version": cfg.App.Version,
		})
	})
	e.GET("/health", agentHandler.Health)

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
	rootCmd := &cobra.Command{Use: "agent-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config-agent.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing agent-service CLI: %s\n", err)
		os.Exit(1)
	}
}
