package repository

import (
	"context"
	"errors"

	"stock-insight/internal/entity"
)

// ErrModelNotFound is returned when no artifact exists for a symbol.
var ErrModelNotFound = errors.New("model artifact not found")

// ArtifactRegistry resolves pre-trained per-symbol model artifacts.
type ArtifactRegistry interface {
	Get(ctx context.Context, symbol string) (*entity.ModelArtifact, error)
	Symbols() []string
	Loaded() []string
	Rescan(ctx context.Context) error
}

// RunnerRepository executes an inference call against the model runner.
type RunnerRepository interface {
	Predict(ctx context.Context, artifact *entity.ModelArtifact, data []float64) ([]float64, error)
}

// ForecastCache caches forecasts keyed by symbol and input window.
type ForecastCache interface {
	Get(ctx context.Context, symbol string, data []float64) ([]float64, bool)
	Set(ctx context.Context, symbol string, data []float64, forecast []float64)
}
