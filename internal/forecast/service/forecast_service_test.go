package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-insight/internal/entity"
	"stock-insight/internal/forecast/config"
	"stock-insight/internal/forecast/dto"
	"stock-insight/internal/forecast/repository"
	"stock-insight/pkg/logger"
)

type stubRegistry struct {
	artifacts map[string]*entity.ModelArtifact
}

func (s *stubRegistry) Get(ctx context.Context, symbol string) (*entity.ModelArtifact, error) {
	if artifact, ok := s.artifacts[symbol]; ok {
		return artifact, nil
	}
	return nil, repository.ErrModelNotFound
}

func (s *stubRegistry) Symbols() []string {
	out := make([]string, 0, len(s.artifacts))
	for symbol := range s.artifacts {
		out = append(out, symbol)
	}
	return out
}

func (s *stubRegistry) Loaded() []string { return s.Symbols() }

func (s *stubRegistry) Rescan(ctx context.Context) error { return nil }

type stubRunner struct {
	forecast []float64
	err      error
	calls    int
}

func (s *stubRunner) Predict(ctx context.Context, artifact *entity.ModelArtifact, data []float64) ([]float64, error) {
	s.calls++
	return s.forecast, s.err
}

type mapCache struct {
	entries map[string][]float64
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][]float64)}
}

func (c *mapCache) key(symbol string, data []float64) string {
	var sb strings.Builder
	sb.WriteString(symbol)
	for _, v := range data {
		fmt.Fprintf(&sb, "|%g", v)
	}
	return sb.String()
}

func (c *mapCache) Get(ctx context.Context, symbol string, data []float64) ([]float64, bool) {
	forecast, ok := c.entries[c.key(symbol, data)]
	return forecast, ok
}

func (c *mapCache) Set(ctx context.Context, symbol string, data []float64, forecast []float64) {
	c.entries[c.key(symbol, data)] = forecast
}

func window(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 100 + float64(i)
	}
	return out
}

func newTestService(registry repository.ArtifactRegistry, runner repository.RunnerRepository, cache repository.ForecastCache) ForecastService {
	return NewForecastService(&config.Config{}, logger.NewNop(), registry, runner, cache)
}

func nvdaRegistry() *stubRegistry {
	return &stubRegistry{artifacts: map[string]*entity.ModelArtifact{
		"NVDA": {Symbol: "NVDA", Version: "v3", InputSize: 60, Horizon: 30},
	}}
}

func TestPredict_Success(t *testing.T) {
	runner := &stubRunner{forecast: []float64{1, 2, 3}}
	svc := newTestService(nvdaRegistry(), runner, newMapCache())

	resp, err := svc.Predict(context.Background(), &dto.PredictRequest{Ticker: "nvda", Data: window(60)})

	require.NoError(t, err)
	assert.Equal(t, "NVDA", resp.Ticker)
	assert.Equal(t, []float64{1, 2, 3}, resp.Forecast)
	assert.Equal(t, "v3", resp.ModelVersion)
	assert.Equal(t, 1, runner.calls)
}

func TestPredict_UnknownSymbol(t *testing.T) {
	svc := newTestService(nvdaRegistry(), &stubRunner{}, newMapCache())

	_, err := svc.Predict(context.Background(), &dto.PredictRequest{Ticker: "TSLA", Data: window(60)})

	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestPredict_WrongWindowLength(t *testing.T) {
	svc := newTestService(nvdaRegistry(), &stubRunner{}, newMapCache())

	_, err := svc.Predict(context.Background(), &dto.PredictRequest{Ticker: "NVDA", Data: window(59)})

	assert.ErrorIs(t, err, ErrBadWindow)
}

func TestPredict_SecondCallServedFromCache(t *testing.T) {
	runner := &stubRunner{forecast: []float64{1, 2, 3}}
	svc := newTestService(nvdaRegistry(), runner, newMapCache())

	first, err := svc.Predict(context.Background(), &dto.PredictRequest{Ticker: "NVDA", Data: window(60)})
	require.NoError(t, err)
	assert.Equal(t, "v3", first.ModelVersion)

	second, err := svc.Predict(context.Background(), &dto.PredictRequest{Ticker: "NVDA", Data: window(60)})
	require.NoError(t, err)
	assert.Equal(t, "cached", second.ModelVersion)
	assert.Equal(t, first.Forecast, second.Forecast)
	assert.Equal(t, 1, runner.calls, "runner must not be called for the cached window")
}

func TestPredict_DifferentWindowMissesCache(t *testing.T) {
	runner := &stubRunner{forecast: []float64{1, 2, 3}}
	svc := newTestService(nvdaRegistry(), runner, newMapCache())

	_, err := svc.Predict(context.Background(), &dto.PredictRequest{Ticker: "NVDA", Data: window(60)})
	require.NoError(t, err)

	other := window(60)
	other[0] += 0.5
	resp, err := svc.Predict(context.Background(), &dto.PredictRequest{Ticker: "NVDA", Data: other})
	require.NoError(t, err)
	assert.Equal(t, "v3", resp.ModelVersion)
	assert.Equal(t, 2, runner.calls)
}

func TestPredict_RunnerFailure(t *testing.T) {
	runner := &stubRunner{err: errors.New("runner unreachable")}
	svc := newTestService(nvdaRegistry(), runner, newMapCache())

	_, err := svc.Predict(context.Background(), &dto.PredictRequest{Ticker: "NVDA", Data: window(60)})

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownSymbol)
	assert.NotErrorIs(t, err, ErrBadWindow)
}

func TestHealth(t *testing.T) {
	svc := newTestService(nvdaRegistry(), &stubRunner{}, newMapCache())

	resp := svc.Health(context.Background())

	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, []string{"NVDA"}, resp.KnownModels)
}
