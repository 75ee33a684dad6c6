package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"stock-insight/internal/agent/config"
	"stock-insight/internal/agent/dto"
	"stock-insight/internal/entity"
	"stock-insight/pkg/logger"
	"stock-insight/pkg/ratelimit"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

// geminiAIRepository is an implementation of AIRepository that uses the
// Google Gemini API. Text requests go to the primary model with a fallback
// model retry; vision requests use the configured vision model.
type geminiAIRepository struct {
	client         *http.Client
	cfg            *config.Config
	logger         *logger.Logger
	tokenLimiter   *ratelimit.TokenLimiter
	requestLimiter *rate.Limiter
	genAiClient    *genai.Client
}

// NewGeminiAIRepository creates a new instance of geminiAIRepository.
func NewGeminiAIRepository(cfg *config.Config, log *logger.Logger, genAiClient *genai.Client) (AIRepository, error) {
	if cfg.Gemini.MaxRequestPerMinute <= 0 {
		return nil, fmt.Errorf("gemini max_request_per_minute must be positive")
	}
	secondsPerRequest := time.Minute / time.Duration(cfg.Gemini.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	tokenLimiter := ratelimit.NewTokenLimiter(cfg.Gemini.MaxTokenPerMinute)

	return &geminiAIRepository{
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		cfg:            cfg,
		logger:         log,
		requestLimiter: requestLimiter,
		tokenLimiter:   tokenLimiter,
		genAiClient:    genAiClient,
	}, nil
}

// AnswerQuestion produces a free-text answer from a fully rendered prompt.
func (r *geminiAIRepository) AnswerQuestion(ctx context.Context, prompt string) (string, error) {
	payload := dto.GeminiAPIRequest{
		Contents: []dto.Content{{Parts: []dto.Part{{Text: prompt}}}},
	}

	resp, err := r.executeGeminiAIRequest(ctx, r.cfg.Gemini.Model, prompt, payload)
	if err != nil && r.cfg.Gemini.FallbackModel != "" {
		r.logger.Warn("Primary Gemini model failed, retrying with fallback",
			logger.StringField("model", r.cfg.Gemini.FallbackModel),
			logger.ErrorField(err))
		resp, err = r.executeGeminiAIRequest(ctx, r.cfg.Gemini.FallbackModel, prompt, payload)
	}
	if err != nil {
		return "", err
	}

	return extractGeminiText(resp)
}

// AnalyzeChartImage answers a question about a base64-encoded chart image.
func (r *geminiAIRepository) AnalyzeChartImage(ctx context.Context, prompt, imageBase64 string) (string, error) {
	payload := dto.GeminiAPIRequest{
		Contents: []dto.Content{{Parts: []dto.Part{
			{InlineData: &dto.InlineData{MimeType: "image/png", Data: imageBase64}},
			{Text: prompt},
		}}},
	}

	model := r.cfg.Gemini.VisionModel
	if model == "" {
		model = r.cfg.Gemini.Model
	}

	resp, err := r.executeGeminiAIRequest(ctx, model, prompt, payload)
	if err != nil {
		return "", err
	}

	return extractGeminiText(resp)
}

// GenerateNewsDigest summarizes recent headlines for a ticker.
func (r *geminiAIRepository) GenerateNewsDigest(ctx context.Context, ticker string, items []entity.NewsItem) (string, error) {
	return r.AnswerQuestion(ctx, BuildNewsDigestPrompt(ticker, items))
}

func (r *geminiAIRepository) executeGeminiAIRequest(ctx context.Context, model, prompt string, payload dto.GeminiAPIRequest) (*dto.GeminiAPIResponse, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt, "user"),
	}
	geminiTokenResp, err := r.genAiClient.Models.CountTokens(ctx, model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count tokens: %w", err)
	}

	r.logger.Debug("Gemini token count",
		logger.IntField("total_tokens", int(geminiTokenResp.TotalTokens)),
		logger.IntField("remaining", r.tokenLimiter.GetRemaining()),
	)

	if err := r.tokenLimiter.Wait(ctx, int(geminiTokenResp.TotalTokens)); err != nil {
		return nil, fmt.Errorf("failed to wait for token limit: %w", err)
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	if int(geminiTokenResp.TotalTokens) > r.cfg.Gemini.MaxTokenPerMinute/2 {
		r.logger.Warn("Token has exceeded 50% of the limit", logger.IntField("remaining", r.tokenLimiter.GetRemaining()))
	}

	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		r.logger.Error("Failed to marshal payload", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	baseURL := r.cfg.Gemini.BaseURL
	if baseURL == "" {
		baseURL = defaultGeminiBaseURL
	}
	apiURL := fmt.Sprintf("%s/%s:generateContent?key=%s", baseURL, model, r.cfg.Gemini.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewBuffer(jsonPayload))
	if err != nil {
		r.logger.Error("Failed to create new http request", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("Failed to send request to Gemini API", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to send request to Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		r.logger.Error("Received non-OK response from Gemini API",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("model", model))
		return nil, fmt.Errorf("received non-OK response from Gemini API: %d - %s", resp.StatusCode, string(body))
	}

	var geminiResp dto.GeminiAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		r.logger.Error("Failed to decode response body", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}

	return &geminiResp, nil
}

func extractGeminiText(resp *dto.GeminiAPIResponse) (string, error) {
	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("invalid response from Gemini API: no content found")
	}
	return strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text), nil
}
