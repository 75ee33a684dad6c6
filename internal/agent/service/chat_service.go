package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"stock-insight/internal/agent/config"
	"stock-insight/internal/agent/dto"
	"stock-insight/internal/agent/repository"
	"stock-insight/internal/entity"
	"stock-insight/pkg/logger"
)

// ChatService answers questions about a ticker using the configured AI
// provider, conversation memory, and whatever technical context the caller
// attached to the request.
type ChatService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) *dto.ChatResponse
	ClearMemory(ticker string) bool
	MemoryStats() (tickers int, exchanges int)
}

type chatService struct {
	cfg    *config.Config
	log    *logger.Logger
	aiRepo repository.AIRepository
	memory *ConversationMemory
}

// NewChatService creates a new ChatService.
func NewChatService(cfg *config.Config, log *logger.Logger, aiRepo repository.AIRepository, memory *ConversationMemory) ChatService {
	return &chatService{
		cfg:    cfg,
		log:    log,
		aiRepo: aiRepo,
		memory: memory,
	}
}

// Chat routes the request through vision analysis when a chart screenshot is
// attached, then generates the final answer with the attached technical data
// and recent conversation history as context. Errors never escape as HTTP
// failures; they degrade into an apologetic answer so the conversation keeps
// flowing.
func (s *chatService) Chat(ctx context.Context, req *dto.ChatRequest) *dto.ChatResponse {
	start := time.Now()
	ticker := strings.ToUpper(req.Ticker)

	mode := entity.ChatModeJSON
	visionAnalysis := ""

	if req.ForecastScreenshot != "" {
		mode = entity.ChatModeVision
		s.log.InfoContext(ctx, "Using vision mode", logger.StringField("ticker", ticker))

		analysis, err := s.aiRepo.AnalyzeChartImage(ctx,
			repository.BuildChartAnalysisPrompt(ticker, req.Message),
			stripDataURLHeader(req.ForecastScreenshot))
		if err != nil {
			s.log.ErrorContext(ctx, "Vision analysis failed", logger.ErrorField(err), logger.StringField("ticker", ticker))
			mode = entity.ChatModeVisionFallback
		} else {
			visionAnalysis = analysis
		}
	}

	history := s.memory.Recent(ticker, s.cfg.Chat.ContextExchanges)
	prompt := s.buildPrompt(req, history, visionAnalysis)

	response, err := s.aiRepo.AnswerQuestion(ctx, prompt)
	if err != nil {
		s.log.ErrorContext(ctx, "Answer generation failed", logger.ErrorField(err), logger.StringField("ticker", ticker))
		response = fmt.Sprintf("Sorry, something went wrong while processing your question: %s", err.Error())
	}

	s.memory.Append(ticker, entity.ChatExchange{
		User:      req.Message,
		Assistant: response,
	})

	elapsed := time.Since(start).Seconds()
	s.log.InfoContext(ctx, "Chat processed",
		logger.StringField("ticker", ticker),
		logger.StringField("mode", string(mode)),
		logger.Float64Field("processing_time", elapsed))

	return &dto.ChatResponse{
		Response:       response,
		Mode:           string(mode),
		ProcessingTime: math.Round(elapsed*100) / 100,
	}
}

// ClearMemory drops the conversation history for a ticker.
func (s *chatService) ClearMemory(ticker string) bool {
	return s.memory.Clear(ticker)
}

// MemoryStats reports tracked tickers and total stored exchanges.
func (s *chatService) MemoryStats() (int, int) {
	return s.memory.Stats()
}

func (s *chatService) buildPrompt(req *dto.ChatRequest, history []entity.ChatExchange, visionAnalysis string) string {
	var sb strings.Builder
	sb.WriteString("You are a professional stock analysis assistant for an educational dashboard.\n")
	sb.WriteString("Answer concisely and never present anything as financial advice.\n")

	if req.TechnicalData != nil {
		sb.WriteString("\nTechnical Indicators:\n")
		sb.WriteString(formatTechnicalData(req.TechnicalData))
	}

	if visionAnalysis != "" {
		sb.WriteString("\nForecast Chart Analysis (from vision model):\n")
		sb.WriteString(visionAnalysis)
		sb.WriteString("\n")
	}

	if len(history) > 0 {
		sb.WriteString("\nRecent Conversation:\n")
		for _, exchange := range history {
			sb.WriteString(fmt.Sprintf("User: %s\nAssistant: %s\n\n", exchange.User, exchange.Assistant))
		}
	}

	sb.WriteString(fmt.Sprintf("\nUser question about %s: %s", strings.ToUpper(req.Ticker), req.Message))
	return sb.String()
}

// formatTechnicalData renders the dashboard's analysis payload into compact
// prompt lines. Unknown or missing keys are skipped.
func formatTechnicalData(data map[string]interface{}) string {
	var lines []string

	if rsi, ok := data["rsi"].(map[string]interface{}); ok {
		lines = append(lines, fmt.Sprintf("- RSI: %v (Signal: %v)", rsi["current"], rsi["signal"]))
	}
	if macd, ok := data["macd"].(map[string]interface{}); ok {
		lines = append(lines, fmt.Sprintf("- MACD Signal: %v", macd["signal"]))
	}
	if dd, ok := data["drawdown"].(map[string]interface{}); ok {
		lines = append(lines, fmt.Sprintf("- Maximum Drawdown: %v%%", dd["max_drawdown"]))
	}
	if cr, ok := data["cumulative_returns"].(map[string]interface{}); ok {
		lines = append(lines, fmt.Sprintf("- Total Return: %v%%", cr["total_return"]))
	}
	if ma, ok := data["moving_averages"].(map[string]interface{}); ok {
		lines = append(lines, fmt.Sprintf("- MA20: %v, MA50: %v", lastValue(ma["ma20"]), lastValue(ma["ma50"])))
	}

	if len(lines) == 0 {
		return "No technical data available\n"
	}
	return strings.Join(lines, "\n") + "\n"
}

// lastValue returns the final element when the payload carries a full series
// instead of a scalar.
func lastValue(v interface{}) interface{} {
	if series, ok := v.([]interface{}); ok {
		for i := len(series) - 1; i >= 0; i-- {
			if series[i] != nil {
				return series[i]
			}
		}
		return nil
	}
	return v
}

// stripDataURLHeader removes a "data:image/png;base64," prefix if present.
func stripDataURLHeader(image string) string {
	if idx := strings.Index(image, ","); idx >= 0 && strings.HasPrefix(image, "data:") {
		return image[idx+1:]
	}
	return image
}
