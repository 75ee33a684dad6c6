package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-insight/internal/agent/config"
	"stock-insight/internal/agent/dto"
	"stock-insight/internal/entity"
	"stock-insight/pkg/logger"
)

type stubAI struct {
	answer        string
	answerErr     error
	visionResult  string
	visionErr     error
	prompts       []string
	visionPrompts []string
	digestCalls   int
}

func (s *stubAI) AnswerQuestion(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.answer, s.answerErr
}

func (s *stubAI) AnalyzeChartImage(ctx context.Context, prompt, imageBase64 string) (string, error) {
	s.visionPrompts = append(s.visionPrompts, prompt)
	return s.visionResult, s.visionErr
}

func (s *stubAI) GenerateNewsDigest(ctx context.Context, ticker string, items []entity.NewsItem) (string, error) {
	s.digestCalls++
	return s.answer, s.answerErr
}

func chatConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Chat.MaxExchanges = 10
	cfg.Chat.ContextExchanges = 3
	return cfg
}

func newChatService(ai *stubAI) (ChatService, *ConversationMemory) {
	memory := NewConversationMemory(10)
	return NewChatService(chatConfig(), logger.NewNop(), ai, memory), memory
}

func TestChat_JSONModeWithoutImage(t *testing.T) {
	ai := &stubAI{answer: "looks fine"}
	svc, _ := newChatService(ai)

	resp := svc.Chat(context.Background(), &dto.ChatRequest{Ticker: "NVDA", Message: "how is it?"})

	assert.Equal(t, string(entity.ChatModeJSON), resp.Mode)
	assert.Equal(t, "looks fine", resp.Response)
	assert.Empty(t, ai.visionPrompts, "no vision call without an image")
	assert.GreaterOrEqual(t, resp.ProcessingTime, 0.0)
}

func TestChat_VisionModeWheneverImageAttached(t *testing.T) {
	ai := &stubAI{answer: "trend is up", visionResult: "chart shows an uptrend"}
	svc, _ := newChatService(ai)

	// Not a forecast question; the attached image alone selects vision mode.
	resp := svc.Chat(context.Background(), &dto.ChatRequest{
		Ticker:             "NVDA",
		Message:            "what do you think?",
		ForecastScreenshot: "aW1hZ2ViYXNlNjQ=",
	})

	assert.Equal(t, string(entity.ChatModeVision), resp.Mode)
	require.Len(t, ai.visionPrompts, 1)
	require.Len(t, ai.prompts, 1)
	assert.Contains(t, ai.prompts[0], "chart shows an uptrend")
}

func TestChat_VisionFallbackOnVisionError(t *testing.T) {
	ai := &stubAI{answer: "answered from data", visionErr: errors.New("vision model down")}
	svc, _ := newChatService(ai)

	resp := svc.Chat(context.Background(), &dto.ChatRequest{
		Ticker:             "NVDA",
		Message:            "question",
		ForecastScreenshot: "aW1hZ2U=",
	})

	assert.Equal(t, string(entity.ChatModeVisionFallback), resp.Mode)
	assert.Equal(t, "answered from data", resp.Response)
	require.Len(t, ai.prompts, 1)
	assert.NotContains(t, ai.prompts[0], "vision model down")
}

func TestChat_AnswerErrorDegradesToApology(t *testing.T) {
	ai := &stubAI{answerErr: errors.New("rate limited")}
	svc, memory := newChatService(ai)

	resp := svc.Chat(context.Background(), &dto.ChatRequest{Ticker: "NVDA", Message: "q"})

	assert.Contains(t, resp.Response, "Sorry")
	assert.Contains(t, resp.Response, "rate limited")

	// The failed exchange is still recorded so the user sees a coherent log.
	assert.Len(t, memory.Recent("NVDA", 10), 1)
}

func TestChat_PromptCarriesTechnicalDataAndHistory(t *testing.T) {
	ai := &stubAI{answer: "ok"}
	svc, memory := newChatService(ai)
	memory.Append("NVDA", entity.ChatExchange{User: "earlier question", Assistant: "earlier answer"})

	svc.Chat(context.Background(), &dto.ChatRequest{
		Ticker:  "nvda",
		Message: "now what?",
		TechnicalData: map[string]interface{}{
			"rsi":      map[string]interface{}{"current": 71.2, "signal": "overbought"},
			"macd":     map[string]interface{}{"signal": "bearish_crossover"},
			"drawdown": map[string]interface{}{"max_drawdown": -12.5},
		},
	})

	require.Len(t, ai.prompts, 1)
	prompt := ai.prompts[0]
	assert.Contains(t, prompt, "RSI: 71.2 (Signal: overbought)")
	assert.Contains(t, prompt, "MACD Signal: bearish_crossover")
	assert.Contains(t, prompt, "Maximum Drawdown: -12.5%")
	assert.Contains(t, prompt, "earlier question")
	assert.Contains(t, prompt, "earlier answer")
	assert.Contains(t, prompt, "NVDA")
}

func TestChat_HistoryLimitedToContextExchanges(t *testing.T) {
	ai := &stubAI{answer: "ok"}
	svc, memory := newChatService(ai)
	for _, q := range []string{"q1", "q2", "q3", "q4", "q5"} {
		memory.Append("NVDA", entity.ChatExchange{User: q, Assistant: "a"})
	}

	svc.Chat(context.Background(), &dto.ChatRequest{Ticker: "NVDA", Message: "latest"})

	require.Len(t, ai.prompts, 1)
	assert.NotContains(t, ai.prompts[0], "q1")
	assert.NotContains(t, ai.prompts[0], "q2")
	assert.Contains(t, ai.prompts[0], "q3")
	assert.Contains(t, ai.prompts[0], "q5")
}

func TestChat_ClearMemoryEndsHistory(t *testing.T) {
	ai := &stubAI{answer: "ok"}
	svc, memory := newChatService(ai)

	svc.Chat(context.Background(), &dto.ChatRequest{Ticker: "NVDA", Message: "q"})
	require.Len(t, memory.Recent("NVDA", 10), 1)

	assert.True(t, svc.ClearMemory("NVDA"))
	assert.Empty(t, memory.Recent("NVDA", 10))
}

func TestStripDataURLHeader(t *testing.T) {
	assert.Equal(t, "abc123", stripDataURLHeader("data:image/png;base64,abc123"))
	assert.Equal(t, "abc123", stripDataURLHeader("abc123"))
}

func TestFormatTechnicalData_SeriesFallsBackToLastValue(t *testing.T) {
	out := formatTechnicalData(map[string]interface{}{
		"moving_averages": map[string]interface{}{
			"ma20": []interface{}{1.0, 2.0, nil},
			"ma50": 3.5,
		},
	})
	assert.Contains(t, out, "MA20: 2")
	assert.Contains(t, out, "MA50: 3.5")
}

func TestFormatTechnicalData_Empty(t *testing.T) {
	assert.Contains(t, formatTechnicalData(map[string]interface{}{}), "No technical data available")
}
