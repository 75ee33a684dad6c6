package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stock-insight/internal/forecast/config"
	"stock-insight/internal/forecast/dto"
	"stock-insight/internal/forecast/metrics"
	"stock-insight/internal/forecast/repository"
	"stock-insight/pkg/logger"
)

var (
	// ErrUnknownSymbol is returned when no model artifact exists for the symbol.
	ErrUnknownSymbol = errors.New("no model available for symbol")
	// ErrBadWindow is returned when the input window does not match the model.
	ErrBadWindow = errors.New("input window does not match model input size")
)

// ForecastService produces point forecasts from registered model artifacts.
type ForecastService interface {
	Predict(ctx context.Context, req *dto.PredictRequest) (*dto.PredictResponse, error)
	Health(ctx context.Context) *dto.HealthResponse
}

type forecastService struct {
	cfg      *config.Config
	log      *logger.Logger
	registry repository.ArtifactRegistry
	runner   repository.RunnerRepository
	cache    repository.ForecastCache
}

// NewForecastService creates a new ForecastService.
func NewForecastService(cfg *config.Config, log *logger.Logger, registry repository.ArtifactRegistry, runner repository.RunnerRepository, cache repository.ForecastCache) ForecastService {
	return &forecastService{
		cfg:      cfg,
		log:      log,
		registry: registry,
		runner:   runner,
		cache:    cache,
	}
}

func (s *forecastService) Predict(ctx context.Context, req *dto.PredictRequest) (*dto.PredictResponse, error) {
	symbol := strings.ToUpper(req.Ticker)

	artifact, err := s.registry.Get(ctx, symbol)
	if err != nil {
		if errors.Is(err, repository.ErrModelNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
		}
		return nil, err
	}

	if len(req.Data) != artifact.InputSize {
		return nil, fmt.Errorf("%w: got %d, model %s expects %d", ErrBadWindow, len(req.Data), symbol, artifact.InputSize)
	}

	if forecast, ok := s.cache.Get(ctx, symbol, req.Data); ok {
		metrics.PredictionCounter.WithLabelValues(symbol, "cached").Inc()
		return &dto.PredictResponse{
			Ticker:       symbol,
			Forecast:     forecast,
			ModelVersion: "cached",
		}, nil
	}

	forecast, err := s.runner.Predict(ctx, artifact, req.Data)
	if err != nil {
		s.log.ErrorContext(ctx, "Model runner prediction failed",
			logger.StringField("symbol", symbol),
			logger.ErrorField(err))
		return nil, fmt.Errorf("failed to run prediction for %s: %w", symbol, err)
	}

	s.cache.Set(ctx, symbol, req.Data, forecast)
	metrics.PredictionCounter.WithLabelValues(symbol, artifact.Version).Inc()

	s.log.InfoContext(ctx, "Prediction served",
		logger.StringField("symbol", symbol),
		logger.StringField("model_version", artifact.Version),
		logger.IntField("horizon", len(forecast)))

	return &dto.PredictResponse{
		Ticker:       symbol,
		Forecast:     forecast,
		ModelVersion: artifact.Version,
	}, nil
}

func (s *forecastService) Health(ctx context.Context) *dto.HealthResponse {
	return &dto.HealthResponse{
		Status:       "ok",
		KnownModels:  s.registry.Symbols(),
		LoadedModels: s.registry.Loaded(),
	}
}
