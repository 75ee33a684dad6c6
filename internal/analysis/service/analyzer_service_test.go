package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stock-insight/internal/analysis/dto"
	"stock-insight/internal/entity"
	"stock-insight/pkg/logger"
)

type stubMarketData struct {
	bars []entity.PriceBar
	err  error
}

func (s *stubMarketData) GetPriceBars(ctx context.Context, param dto.GetPriceBarsParam) ([]entity.PriceBar, error) {
	return s.bars, s.err
}

type stubForecast struct {
	forecast []float64
	err      error
	inputs   [][]float64
}

func (s *stubForecast) Predict(ctx context.Context, ticker string, data []float64) ([]float64, error) {
	s.inputs = append(s.inputs, data)
	if s.err != nil {
		return nil, s.err
	}
	return s.forecast, nil
}

// makeBars builds n daily bars on consecutive week days with a gently rising
// close so every indicator has signal to work with.
func makeBars(n int) []entity.PriceBar {
	bars := make([]entity.PriceBar, 0, n)
	date := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) // a Monday
	for i := 0; i < n; i++ {
		for date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			date = date.AddDate(0, 0, 1)
		}
		c := 100 + float64(i) + 3*float64(i%5)
		bars = append(bars, entity.PriceBar{
			Date:   date,
			Open:   c - 1,
			High:   c + 2,
			Low:    c - 2,
			Close:  c,
			Volume: 1000 + float64(i),
		})
		date = date.AddDate(0, 0, 1)
	}
	return bars
}

func newTestService(market *stubMarketData, forecast *stubForecast) AnalyzerService {
	return NewAnalyzerService(logger.NewNop(), market, forecast, "")
}

func TestAnalyze_Success(t *testing.T) {
	market := &stubMarketData{bars: makeBars(120)}
	forecast := &stubForecast{forecast: []float64{200, 201, 202}}
	svc := newTestService(market, forecast)

	resp := svc.Analyze(context.Background(), &dto.AnalyzeRequest{Ticker: "nvda"})

	require.True(t, resp.Success)
	assert.Equal(t, "NVDA", resp.Ticker)
	assert.Empty(t, resp.Error)
	require.NotNil(t, resp.ChartData)
	require.NotNil(t, resp.Statistics)
	assert.Equal(t, 120, resp.Statistics.DataPoints)
	assert.Contains(t, resp.TechnicalSummary, "NVDA Technical Summary")
}

func TestAnalyze_EqualLengthSortedDateAxes(t *testing.T) {
	market := &stubMarketData{bars: makeBars(120)}
	forecast := &stubForecast{forecast: []float64{200, 201, 202}}
	svc := newTestService(market, forecast)

	resp := svc.Analyze(context.Background(), &dto.AnalyzeRequest{Ticker: "NVDA"})
	require.True(t, resp.Success)

	cd := resp.ChartData
	n := len(cd.Candlestick.Dates)
	axes := map[string][]string{
		"candlestick":        cd.Candlestick.Dates,
		"rsi":                cd.RSI.Dates,
		"macd":               cd.MACD.Dates,
		"bollinger":          cd.Bollinger.Dates,
		"moving_averages":    cd.MovingAverages.Dates,
		"drawdown":           cd.Drawdown.Dates,
		"cumulative_returns": cd.CumulativeReturns.Dates,
	}
	for name, dates := range axes {
		assert.Len(t, dates, n, name)
		for i := 1; i < len(dates); i++ {
			assert.LessOrEqual(t, dates[i-1], dates[i], name)
		}
	}
	assert.Len(t, cd.RSI.Values, n)
	assert.Len(t, cd.MACD.MACDLine, n)
	assert.Len(t, cd.Bollinger.Upper, n)
	assert.Len(t, cd.MovingAverages.MA200, n)
	assert.Len(t, cd.Drawdown.Drawdown, n)
	assert.Len(t, cd.CumulativeReturns.Cumulative, n)
}

func TestAnalyze_InsufficientData(t *testing.T) {
	market := &stubMarketData{bars: makeBars(30)}
	svc := newTestService(market, &stubForecast{})

	resp := svc.Analyze(context.Background(), &dto.AnalyzeRequest{Ticker: "NVDA"})

	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "insufficient data")
	assert.Nil(t, resp.ChartData)
}

func TestAnalyze_FetchFailure(t *testing.T) {
	market := &stubMarketData{err: errors.New("upstream down")}
	svc := newTestService(market, &stubForecast{})

	resp := svc.Analyze(context.Background(), &dto.AnalyzeRequest{Ticker: "NVDA"})

	assert.False(t, resp.Success)
	assert.Equal(t, "failed to fetch price data", resp.Error)
}

func TestAnalyze_ForecastFailureDegradesToEmptyBlocks(t *testing.T) {
	market := &stubMarketData{bars: makeBars(120)}
	forecast := &stubForecast{err: errors.New("forecast service down")}
	svc := newTestService(market, forecast)

	resp := svc.Analyze(context.Background(), &dto.AnalyzeRequest{Ticker: "NVDA"})

	require.True(t, resp.Success)
	assert.Empty(t, resp.ChartData.Forecast.Validation.Dates)
	assert.Empty(t, resp.ChartData.Forecast.Future.Dates)
}

func TestAnalyze_ValidationUsesHoldoutWindow(t *testing.T) {
	market := &stubMarketData{bars: makeBars(120)}
	forecast := &stubForecast{forecast: []float64{200, 201, 202}}
	svc := newTestService(market, forecast)

	resp := svc.Analyze(context.Background(), &dto.AnalyzeRequest{Ticker: "NVDA"})
	require.True(t, resp.Success)

	// Two inference calls: a 60-bar window ending 30 bars ago for validation
	// and the last 60 bars for the future block.
	require.Len(t, forecast.inputs, 2)
	assert.Len(t, forecast.inputs[0], 60)
	assert.Len(t, forecast.inputs[1], 60)
	closes := entity.Closes(market.bars)
	assert.Equal(t, closes[30:90], forecast.inputs[0])
	assert.Equal(t, closes[60:], forecast.inputs[1])

	val := resp.ChartData.Forecast.Validation
	require.Len(t, val.Predicted, 3)
	assert.Len(t, val.Actual, 3)
	assert.Len(t, val.Dates, 3)
	assert.GreaterOrEqual(t, val.MAE, 0.0)
}

func TestAnalyze_FutureDatesSkipWeekends(t *testing.T) {
	market := &stubMarketData{bars: makeBars(120)}
	forecast := &stubForecast{forecast: []float64{200, 201, 202, 203, 204, 205, 206, 207}}
	svc := newTestService(market, forecast)

	resp := svc.Analyze(context.Background(), &dto.AnalyzeRequest{Ticker: "NVDA"})
	require.True(t, resp.Success)

	future := resp.ChartData.Forecast.Future
	require.Len(t, future.Dates, 8)
	for _, raw := range future.Dates {
		d, err := time.Parse("2006-01-02", raw)
		require.NoError(t, err)
		assert.NotEqual(t, time.Saturday, d.Weekday(), raw)
		assert.NotEqual(t, time.Sunday, d.Weekday(), raw)
	}

	// Confidence band sits MAE above and below the point forecast.
	mae := future.MAE
	for i := range future.Predicted {
		assert.InDelta(t, future.Predicted[i]+mae, future.PredictedUpper[i], 1e-9)
		assert.InDelta(t, future.Predicted[i]-mae, future.PredictedLower[i], 1e-9)
	}
}

func TestAnalyze_DefaultPeriod(t *testing.T) {
	var gotParam dto.GetPriceBarsParam
	market := &paramCapturingMarketData{bars: makeBars(120), captured: &gotParam}
	svc := NewAnalyzerService(logger.NewNop(), market, &stubForecast{forecast: []float64{1}}, "")
	resp := svc.Analyze(context.Background(), &dto.AnalyzeRequest{Ticker: "NVDA"})
	require.True(t, resp.Success)
	assert.Equal(t, "1y", gotParam.Range)
	assert.Equal(t, "1d", gotParam.Interval)
	assert.Equal(t, "NVDA", gotParam.Symbol)
}

func TestAnalyze_ConfiguredDefaultPeriod(t *testing.T) {
	var gotParam dto.GetPriceBarsParam
	market := &paramCapturingMarketData{bars: makeBars(120), captured: &gotParam}
	svc := NewAnalyzerService(logger.NewNop(), market, &stubForecast{forecast: []float64{1}}, "6mo")

	resp := svc.Analyze(context.Background(), &dto.AnalyzeRequest{Ticker: "NVDA"})
	require.True(t, resp.Success)
	assert.Equal(t, "6mo", gotParam.Range)

	// An explicit period still wins over the configured default.
	resp = svc.Analyze(context.Background(), &dto.AnalyzeRequest{Ticker: "NVDA", Period: "3mo"})
	require.True(t, resp.Success)
	assert.Equal(t, "3mo", gotParam.Range)
}

type paramCapturingMarketData struct {
	bars     []entity.PriceBar
	captured *dto.GetPriceBarsParam
}

func (p *paramCapturingMarketData) GetPriceBars(ctx context.Context, param dto.GetPriceBarsParam) ([]entity.PriceBar, error) {
	*p.captured = param
	return p.bars, nil
}

func TestBuildSummaryFormat(t *testing.T) {
	market := &stubMarketData{bars: makeBars(70)}
	svc := newTestService(market, &stubForecast{forecast: []float64{1}})

	resp := svc.Analyze(context.Background(), &dto.AnalyzeRequest{Ticker: "AAPL"})
	require.True(t, resp.Success)

	for _, line := range []string{"• Price:", "• RSI:", "• MACD:", "• Volatility:", "• Sharpe Ratio:"} {
		assert.Contains(t, resp.TechnicalSummary, line, fmt.Sprintf("summary missing %q", line))
	}
}
