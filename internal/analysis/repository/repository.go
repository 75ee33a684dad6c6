package repository

import (
	"context"

	"stock-insight/internal/analysis/dto"
	"stock-insight/internal/entity"
)

// MarketDataRepository fetches historical price bars for a symbol.
type MarketDataRepository interface {
	GetPriceBars(ctx context.Context, param dto.GetPriceBarsParam) ([]entity.PriceBar, error)
}

// ForecastRepository calls the forecast inference service.
type ForecastRepository interface {
	Predict(ctx context.Context, ticker string, data []float64) ([]float64, error)
}
