package indicator

import (
	"math"

	"github.com/montanaflynn/stats"
)

const tradingDaysPerYear = 252

// Statistics summarizes a close series for the analysis response.
type Statistics struct {
	CurrentPrice     float64 `json:"current_price"`
	StartPrice       float64 `json:"start_price"`
	ChangePct        float64 `json:"change_pct"`
	MinPrice         float64 `json:"min_price"`
	MaxPrice         float64 `json:"max_price"`
	AvgVolume        float64 `json:"avg_volume"`
	VolatilityAnnual float64 `json:"volatility_annual"`
	SharpeRatio      float64 `json:"sharpe_ratio"`
	DataPoints       int     `json:"data_points"`
}

// Summarize computes the summary statistics block: price range, annualized
// volatility of daily returns and the Sharpe ratio (0 when returns are flat).
func Summarize(closes, volumes []float64) (*Statistics, error) {
	if len(closes) < 2 {
		return nil, ErrInsufficientData
	}

	returns := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		returns = append(returns, closes[i]/closes[i-1]-1)
	}

	minPrice, err := stats.Min(closes)
	if err != nil {
		return nil, err
	}
	maxPrice, err := stats.Max(closes)
	if err != nil {
		return nil, err
	}
	avgVolume, err := stats.Mean(volumes)
	if err != nil {
		return nil, err
	}
	meanReturn, err := stats.Mean(returns)
	if err != nil {
		return nil, err
	}
	stdReturn, err := stats.StandardDeviationSample(returns)
	if err != nil {
		return nil, err
	}

	sharpe := 0.0
	if stdReturn > 0 {
		sharpe = meanReturn / stdReturn * math.Sqrt(tradingDaysPerYear)
	}

	return &Statistics{
		CurrentPrice:     closes[len(closes)-1],
		StartPrice:       closes[0],
		ChangePct:        (closes[len(closes)-1]/closes[0] - 1) * 100,
		MinPrice:         minPrice,
		MaxPrice:         maxPrice,
		AvgVolume:        avgVolume,
		VolatilityAnnual: stdReturn * math.Sqrt(tradingDaysPerYear) * 100,
		SharpeRatio:      sharpe,
		DataPoints:       len(closes),
	}, nil
}
