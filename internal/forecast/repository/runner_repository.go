package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"stock-insight/internal/entity"
	"stock-insight/internal/forecast/config"
	"stock-insight/pkg/logger"
)

// runnerRepository invokes the remote model runner that executes the
// pre-trained N-BEATS artifacts. The model itself is an opaque capability;
// this repository only shapes the generic predict call.
type runnerRepository struct {
	cfg    *config.Config
	log    *logger.Logger
	client *http.Client
}

// NewRunnerRepository creates a new instance of runnerRepository.
func NewRunnerRepository(cfg *config.Config, log *logger.Logger) RunnerRepository {
	timeout := cfg.Runner.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &runnerRepository{
		cfg: cfg,
		log: log,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type runnerPredictRequest struct {
	Symbol     string    `json:"symbol"`
	WeightsRef string    `json:"weights_ref"`
	Horizon    int       `json:"horizon"`
	Data       []float64 `json:"data"`
}

type runnerPredictResponse struct {
	Forecast []float64 `json:"forecast"`
}

// Predict runs one inference call for the given artifact and input window.
func (r *runnerRepository) Predict(ctx context.Context, artifact *entity.ModelArtifact, data []float64) ([]float64, error) {
	payload := runnerPredictRequest{
		Symbol:     artifact.Symbol,
		WeightsRef: artifact.WeightsRef,
		Horizon:    artifact.Horizon,
		Data:       data,
	}
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal runner payload: %w", err)
	}

	url := r.cfg.Runner.BaseURL + "/predict"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonPayload))
	if err != nil {
		return nil, fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to send request to model runner", logger.ErrorField(err), logger.StringField("symbol", artifact.Symbol))
		return nil, fmt.Errorf("failed to send request to model runner: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("received non-OK response from model runner: %d - %s", resp.StatusCode, string(body))
	}

	var runnerResp runnerPredictResponse
	if err := json.NewDecoder(resp.Body).Decode(&runnerResp); err != nil {
		return nil, fmt.Errorf("failed to decode model runner response: %w", err)
	}

	if len(runnerResp.Forecast) == 0 {
		return nil, fmt.Errorf("model runner returned an empty forecast")
	}
	return runnerResp.Forecast, nil
}
