package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"stock-insight/internal/analysis/config"
	"stock-insight/internal/analysis/dto"
	"stock-insight/pkg/logger"
)

// forecastRepository calls the forecast inference service over HTTP.
type forecastRepository struct {
	cfg    *config.Config
	log    *logger.Logger
	client *http.Client
}

// NewForecastRepository creates a new instance of forecastRepository.
func NewForecastRepository(cfg *config.Config, log *logger.Logger) ForecastRepository {
	timeout := cfg.Forecast.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &forecastRepository{
		cfg: cfg,
		log: log,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Predict sends an input window to the forecast service and returns the raw
// horizon-length forecast.
func (r *forecastRepository) Predict(ctx context.Context, ticker string, data []float64) ([]float64, error) {
	payload := dto.PredictRequest{
		Ticker: ticker,
		Data:   data,
	}
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal predict payload: %w", err)
	}

	url := r.cfg.Forecast.BaseURL + "/api/v1/predict"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to send request to forecast service", logger.ErrorField(err), logger.StringField("ticker", ticker))
		return nil, fmt.Errorf("failed to send request to forecast service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("received non-OK response from forecast service: %d - %s", resp.StatusCode, string(body))
	}

	var predictResp dto.PredictResponse
	if err := json.NewDecoder(resp.Body).Decode(&predictResp); err != nil {
		return nil, fmt.Errorf("failed to decode forecast response: %w", err)
	}

	return predictResp.Forecast, nil
}
