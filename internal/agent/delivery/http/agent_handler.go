package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"stock-insight/internal/agent/dto"
	"stock-insight/internal/agent/service"
	"stock-insight/pkg/logger"
)

// AgentHandler handles chat, news, and memory HTTP requests.
type AgentHandler struct {
	chatService service.ChatService
	newsService service.NewsService
	logger      *logger.Logger
	validate    *validator.Validate
}

// NewAgentHandler creates a new AgentHandler.
func NewAgentHandler(chatService service.ChatService, newsService service.NewsService, logger *logger.Logger) *AgentHandler {
	return &AgentHandler{
		chatService: chatService,
		newsService: newsService,
		logger:      logger,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the agent routes with the given echo group.
func (h *AgentHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/chat", h.Chat)
	g.GET("/news/:ticker", h.News)
	g.DELETE("/memory/:ticker", h.ClearMemory)
}

func (h *AgentHandler) Chat(c echo.Context) error {
	var req dto.ChatRequest
	if err := c.Bind(&req); err != nil {
		h.logger.Error("Failed to bind chat request", logger.ErrorField(err))
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid ticker or message"})
	}

	return c.JSON(http.StatusOK, h.chatService.Chat(c.Request().Context(), &req))
}

func (h *AgentHandler) News(c echo.Context) error {
	ticker := strings.ToUpper(c.Param("ticker"))
	if ticker == "" {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Ticker is required"})
	}

	resp, err := h.newsService.GetNews(c.Request().Context(), ticker)
	if err != nil {
		h.logger.Error("Failed to fetch news", logger.ErrorField(err), logger.StringField("ticker", ticker))
		return c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: "Failed to fetch news"})
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *AgentHandler) ClearMemory(c echo.Context) error {
	ticker := strings.ToUpper(c.Param("ticker"))
	cleared := h.chatService.ClearMemory(ticker)
	return c.JSON(http.StatusOK, dto.MemoryClearedResponse{
		Ticker:  ticker,
		Cleared: cleared,
	})
}

// Health reports service status plus conversation memory counters.
func (h *AgentHandler) Health(c echo.Context) error {
	tickers, exchanges := h.chatService.MemoryStats()
	return c.JSON(http.StatusOK, echo.Map{
		"status":           "healthy",
		"tracked_tickers":  tickers,
		"stored_exchanges": exchanges,
	})
}

// ProcessTimeMiddleware sets the X-Process-Time response header in seconds.
func ProcessTimeMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			c.Response().Before(func() {
				c.Response().Header().Set("X-Process-Time", fmt.Sprintf("%.4f", time.Since(start).Seconds()))
			})
			return next(c)
		}
	}
}
