package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"stock-insight/internal/analysis/dto"
	"stock-insight/internal/analysis/indicator"
	"stock-insight/internal/analysis/repository"
	"stock-insight/internal/entity"
	"stock-insight/pkg/common"
	"stock-insight/pkg/logger"
	"stock-insight/pkg/utils"
)

// AnalyzerService runs the full technical analysis for a ticker.
type AnalyzerService interface {
	Analyze(ctx context.Context, req *dto.AnalyzeRequest) *dto.AnalyzeResponse
}

type analyzerService struct {
	log           *logger.Logger
	marketData    repository.MarketDataRepository
	forecastRepo  repository.ForecastRepository
	defaultPeriod string
}

// NewAnalyzerService creates a new AnalyzerService. defaultPeriod is used for
// requests that omit a period; empty falls back to 1y.
func NewAnalyzerService(log *logger.Logger, marketData repository.MarketDataRepository, forecastRepo repository.ForecastRepository, defaultPeriod string) AnalyzerService {
	if defaultPeriod == "" {
		defaultPeriod = "1y"
	}
	return &analyzerService{
		log:           log,
		marketData:    marketData,
		forecastRepo:  forecastRepo,
		defaultPeriod: defaultPeriod,
	}
}

// Analyze fetches price history, computes every indicator series on the bar
// date axis and composes the forecast blocks. Downstream failures after
// validation are reported in the response body, not as transport errors, so
// the dashboard session stays usable.
func (s *analyzerService) Analyze(ctx context.Context, req *dto.AnalyzeRequest) *dto.AnalyzeResponse {
	ticker := strings.ToUpper(req.Ticker)
	period := req.Period
	if period == "" {
		period = s.defaultPeriod
	}

	bars, err := s.marketData.GetPriceBars(ctx, dto.GetPriceBarsParam{
		Symbol:   ticker,
		Interval: "1d",
		Range:    period,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to fetch price data", logger.ErrorField(err), logger.StringField("ticker", ticker))
		return &dto.AnalyzeResponse{
			Ticker:  ticker,
			Success: false,
			Error:   "failed to fetch price data",
		}
	}

	if len(bars) < common.MinAnalysisBars {
		return &dto.AnalyzeResponse{
			Ticker:  ticker,
			Success: false,
			Error:   fmt.Sprintf("insufficient data (need at least %d data points)", common.MinAnalysisBars),
		}
	}

	closes := entity.Closes(bars)
	dates := utils.FormatDates(entity.Dates(bars), common.DateLayout)

	rsi, err := indicator.RSI(closes, 14)
	if err != nil {
		return s.failure(ctx, ticker, "rsi", err)
	}
	macd, err := indicator.MACD(closes, 12, 26, 9)
	if err != nil {
		return s.failure(ctx, ticker, "macd", err)
	}
	bollinger, err := indicator.Bollinger(closes, 20, 2)
	if err != nil {
		return s.failure(ctx, ticker, "bollinger", err)
	}
	drawdown, err := indicator.Drawdown(closes)
	if err != nil {
		return s.failure(ctx, ticker, "drawdown", err)
	}
	cumReturns, err := indicator.CumulativeReturns(closes)
	if err != nil {
		return s.failure(ctx, ticker, "cumulative returns", err)
	}
	movingAverages := indicator.MovingAverages(closes)

	volumes := make([]float64, len(bars))
	opens := make([]float64, len(bars))
	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	for i, b := range bars {
		volumes[i] = b.Volume
		opens[i] = b.Open
		highs[i] = b.High
		lows[i] = b.Low
	}

	statistics, err := indicator.Summarize(closes, volumes)
	if err != nil {
		return s.failure(ctx, ticker, "statistics", err)
	}

	returns := indicator.PctChange(closes)
	returnValues := make([]float64, 0, len(returns)-1)
	for _, v := range returns {
		if !math.IsNaN(v) {
			returnValues = append(returnValues, v)
		}
	}

	forecast := s.buildForecast(ctx, ticker, closes, dates, bars[len(bars)-1].Date)

	chartData := &dto.ChartData{
		Candlestick: dto.CandlestickData{
			Dates:  dates,
			Open:   opens,
			High:   highs,
			Low:    lows,
			Close:  closes,
			Volume: volumes,
		},
		RSI: dto.RSIData{
			Dates:   dates,
			Values:  indicator.FillNaN(rsi.Values, 50),
			Current: rsi.Current,
			Signal:  rsi.Signal,
		},
		MACD: dto.MACDData{
			Dates:      dates,
			MACDLine:   indicator.FillNaN(macd.MACDLine, 0),
			SignalLine: indicator.FillNaN(macd.SignalLine, 0),
			Histogram:  indicator.FillNaN(macd.Histogram, 0),
			Signal:     macd.Signal,
		},
		Bollinger: dto.BollingerData{
			Dates:  dates,
			Upper:  indicator.FillNaN(bollinger.Upper, 0),
			Middle: indicator.FillNaN(bollinger.Middle, 0),
			Lower:  indicator.FillNaN(bollinger.Lower, 0),
			Close:  closes,
		},
		MovingAverages: dto.MovingAveragesData{
			Dates: dates,
			Close: closes,
			MA20:  indicator.NaNToNull(movingAverages.MA20),
			MA50:  indicator.NaNToNull(movingAverages.MA50),
			MA200: indicator.NaNToNull(movingAverages.MA200),
		},
		Drawdown: dto.DrawdownData{
			Dates:       dates,
			Drawdown:    drawdown.Values,
			MaxDrawdown: drawdown.MaxDrawdown,
		},
		CumulativeReturns: dto.CumulativeReturnsData{
			Dates:       dates,
			Cumulative:  cumReturns.Values,
			TotalReturn: cumReturns.TotalReturn,
		},
		Returns:  dto.ReturnsData{Values: returnValues},
		Forecast: forecast,
	}

	return &dto.AnalyzeResponse{
		Ticker:           ticker,
		Success:          true,
		TechnicalSummary: buildSummary(ticker, statistics, rsi, macd),
		Statistics:       statistics,
		ChartData:        chartData,
	}
}

// buildForecast composes the validation (backtest) and future blocks from two
// inference calls. A forecast service failure degrades to empty blocks rather
// than failing the analysis: the dashboard renders indicator charts either way.
func (s *analyzerService) buildForecast(ctx context.Context, ticker string, closes []float64, dates []string, lastDate time.Time) dto.ForecastData {
	forecast := dto.ForecastData{
		Validation: dto.ValidationForecast{Dates: []string{}, Actual: []float64{}, Predicted: []float64{}},
		Future:     dto.FutureForecast{Dates: []string{}, Predicted: []float64{}},
	}

	n := len(closes)
	input := common.ForecastInputSize
	holdout := common.ValidationWindow

	if n >= input+holdout {
		validationInput := closes[n-input-holdout : n-holdout]
		actual := closes[n-holdout:]
		actualDates := dates[n-holdout:]

		predicted, err := s.forecastRepo.Predict(ctx, ticker, validationInput)
		if err != nil {
			s.log.WarnContext(ctx, "Validation forecast unavailable", logger.ErrorField(err), logger.StringField("ticker", ticker))
		} else {
			if len(predicted) > len(actual) {
				predicted = predicted[:len(actual)]
			}
			actual = actual[:len(predicted)]
			actualDates = actualDates[:len(predicted)]

			forecast.Validation = dto.ValidationForecast{
				Dates:      actualDates,
				Actual:     actual,
				Predicted:  predicted,
				FullDates:  dates,
				FullActual: closes,
				MAE:        math.Round(indicator.MAE(actual, predicted)*100) / 100,
			}
		}
	}

	if n >= input {
		futureInput := closes[n-input:]
		predicted, err := s.forecastRepo.Predict(ctx, ticker, futureInput)
		if err != nil {
			s.log.WarnContext(ctx, "Future forecast unavailable", logger.ErrorField(err), logger.StringField("ticker", ticker))
			return forecast
		}

		futureDates := utils.FormatDates(utils.NextBusinessDays(lastDate, len(predicted)), common.DateLayout)
		mae := forecast.Validation.MAE

		upper := make([]float64, len(predicted))
		lower := make([]float64, len(predicted))
		for i, p := range predicted {
			upper[i] = p + mae
			lower[i] = p - mae
		}

		forecast.Future = dto.FutureForecast{
			Dates:          futureDates,
			Predicted:      predicted,
			PredictedUpper: upper,
			PredictedLower: lower,
			History:        closes[n-input:],
			HistoryDates:   dates[n-input:],
			MAE:            mae,
		}
	}

	return forecast
}

func (s *analyzerService) failure(ctx context.Context, ticker, stage string, err error) *dto.AnalyzeResponse {
	s.log.ErrorContext(ctx, "Analysis failed", logger.ErrorField(err), logger.StringField("ticker", ticker), logger.StringField("stage", stage))
	return &dto.AnalyzeResponse{
		Ticker:  ticker,
		Success: false,
		Error:   fmt.Sprintf("failed to compute %s", stage),
	}
}

func buildSummary(ticker string, stats *indicator.Statistics, rsi *indicator.RSIResult, macd *indicator.MACDResult) string {
	return strings.TrimSpace(fmt.Sprintf(`%s Technical Summary:
• Price: $%.2f → $%.2f (%+.1f%%)
• RSI: %.1f (%s)
• MACD: %s
• Volatility: %.1f%% (annual)
• Sharpe Ratio: %.2f`,
		ticker,
		stats.StartPrice, stats.CurrentPrice, stats.ChangePct,
		rsi.Current, rsi.Signal,
		macd.Signal,
		stats.VolatilityAnnual,
		stats.SharpeRatio,
	))
}
