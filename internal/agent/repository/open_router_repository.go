package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"stock-insight/internal/agent/config"
	"stock-insight/internal/entity"
	"stock-insight/pkg/logger"
)

const openRouterChatCompletionsURL = "https://openrouter.ai/api/v1/chat/completions"

// openRouterRepository is an implementation of AIRepository that uses the
// OpenRouter API.
type openRouterRepository struct {
	client *http.Client
	cfg    *config.Config
	logger *logger.Logger
}

// NewOpenRouterRepository creates a new instance of openRouterRepository.
func NewOpenRouterRepository(cfg *config.Config, logger *logger.Logger) AIRepository {
	return &openRouterRepository{
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		cfg:    cfg,
		logger: logger,
	}
}

// AnswerQuestion produces a free-text answer from a fully rendered prompt.
func (r *openRouterRepository) AnswerQuestion(ctx context.Context, prompt string) (string, error) {
	requestBody := map[string]interface{}{
		"model": r.cfg.OpenRouter.Model,
		"messages": []map[string]interface{}{
			{"role": "user", "content": prompt},
		},
		"reasoning": map[string]interface{}{"enabled": true},
	}
	return r.executeChatCompletion(ctx, requestBody)
}

// AnalyzeChartImage answers a question about a base64-encoded chart image.
func (r *openRouterRepository) AnalyzeChartImage(ctx context.Context, prompt, imageBase64 string) (string, error) {
	model := r.cfg.OpenRouter.VisionModel
	if model == "" {
		model = r.cfg.OpenRouter.Model
	}

	requestBody := map[string]interface{}{
		"model": model,
		"messages": []map[string]interface{}{
			{
				"role": "user",
				"content": []map[string]interface{}{
					{"type": "text", "text": prompt},
					{
						"type": "image_url",
						"image_url": map[string]string{
							"url": "data:image/png;base64," + imageBase64,
						},
					},
				},
			},
		},
	}
	return r.executeChatCompletion(ctx, requestBody)
}

// GenerateNewsDigest summarizes recent headlines for a ticker.
func (r *openRouterRepository) GenerateNewsDigest(ctx context.Context, ticker string, items []entity.NewsItem) (string, error) {
	return r.AnswerQuestion(ctx, BuildNewsDigestPrompt(ticker, items))
}

func (r *openRouterRepository) executeChatCompletion(ctx context.Context, requestBody map[string]interface{}) (string, error) {
	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		r.logger.Error("Failed to marshal request body", logger.ErrorField(err))
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", openRouterChatCompletionsURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		r.logger.Error("Failed to create new HTTP request", logger.ErrorField(err))
		return "", fmt.Errorf("failed to create new http request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+r.cfg.OpenRouter.APIKey)
	req.Header.Set("Content-Type", "application/json")
	if r.cfg.OpenRouter.SiteURL != "" {
		req.Header.Set("HTTP-Referer", r.cfg.OpenRouter.SiteURL)
	}
	if r.cfg.OpenRouter.SiteName != "" {
		req.Header.Set("X-Title", r.cfg.OpenRouter.SiteName)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("Failed to send request to OpenRouter", logger.ErrorField(err))
		return "", fmt.Errorf("failed to send request to OpenRouter: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logger.Error("Received non-OK response from OpenRouter", logger.IntField("status_code", resp.StatusCode))
		return "", fmt.Errorf("received non-OK response from OpenRouter: %d", resp.StatusCode)
	}

	var openRouterResponse struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&openRouterResponse); err != nil {
		r.logger.Error("Failed to decode OpenRouter response", logger.ErrorField(err))
		return "", fmt.Errorf("failed to decode OpenRouter response: %w", err)
	}

	if len(openRouterResponse.Choices) == 0 {
		r.logger.Warn("Received empty choices from OpenRouter")
		return "", fmt.Errorf("received empty choices from OpenRouter")
	}

	return strings.TrimSpace(openRouterResponse.Choices[0].Message.Content), nil
}
