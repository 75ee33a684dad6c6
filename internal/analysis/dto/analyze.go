package dto

import "stock-insight/internal/analysis/indicator"

// AnalyzeRequest is the payload for a technical analysis run.
type AnalyzeRequest struct {
	Ticker string `json:"ticker" validate:"required,alphanum,max=10"`
	Period string `json:"period" validate:"omitempty,oneof=1mo 3mo 6mo 1y 2y 5y max"`
}

// CandlestickData carries raw OHLCV arrays aligned on the date axis.
type CandlestickData struct {
	Dates  []string  `json:"dates"`
	Open   []float64 `json:"open"`
	High   []float64 `json:"high"`
	Low    []float64 `json:"low"`
	Close  []float64 `json:"close"`
	Volume []float64 `json:"volume"`
}

// RSIData is the RSI chart payload.
type RSIData struct {
	Dates   []string  `json:"dates"`
	Values  []float64 `json:"values"`
	Current float64   `json:"current"`
	Signal  string    `json:"signal"`
}

// MACDData is the MACD chart payload.
type MACDData struct {
	Dates      []string  `json:"dates"`
	MACDLine   []float64 `json:"macd_line"`
	SignalLine []float64 `json:"signal_line"`
	Histogram  []float64 `json:"histogram"`
	Signal     string    `json:"signal"`
}

// BollingerData is the Bollinger Bands chart payload.
type BollingerData struct {
	Dates  []string  `json:"dates"`
	Upper  []float64 `json:"upper"`
	Middle []float64 `json:"middle"`
	Lower  []float64 `json:"lower"`
	Close  []float64 `json:"close"`
}

// MovingAveragesData is the moving averages chart payload. Warmup positions
// are null so chart libraries leave gaps instead of drawing zero lines.
type MovingAveragesData struct {
	Dates []string   `json:"dates"`
	Close []float64  `json:"close"`
	MA20  []*float64 `json:"ma20"`
	MA50  []*float64 `json:"ma50"`
	MA200 []*float64 `json:"ma200"`
}

// DrawdownData is the drawdown chart payload.
type DrawdownData struct {
	Dates       []string  `json:"dates"`
	Drawdown    []float64 `json:"drawdown"`
	MaxDrawdown float64   `json:"max_drawdown"`
}

// CumulativeReturnsData is the cumulative returns chart payload.
type CumulativeReturnsData struct {
	Dates       []string  `json:"dates"`
	Cumulative  []float64 `json:"cumulative"`
	TotalReturn float64   `json:"total_return"`
}

// ReturnsData holds the daily returns distribution.
type ReturnsData struct {
	Values []float64 `json:"values"`
}

// ValidationForecast is the backtest block: the model's prediction of the
// most recent known window against actual closes.
type ValidationForecast struct {
	Dates      []string  `json:"dates"`
	Actual     []float64 `json:"actual"`
	Predicted  []float64 `json:"predicted"`
	FullDates  []string  `json:"full_dates,omitempty"`
	FullActual []float64 `json:"full_actual,omitempty"`
	MAE        float64   `json:"mae"`
}

// FutureForecast is the forward block with MAE-derived confidence bands.
type FutureForecast struct {
	Dates          []string  `json:"dates"`
	Predicted      []float64 `json:"predicted"`
	PredictedUpper []float64 `json:"predicted_upper,omitempty"`
	PredictedLower []float64 `json:"predicted_lower,omitempty"`
	History        []float64 `json:"history,omitempty"`
	HistoryDates   []string  `json:"history_dates,omitempty"`
	MAE            float64   `json:"mae"`
}

// ForecastData combines the validation and future forecast blocks. Either can
// be empty when the forecast service is unavailable; indicators still render.
type ForecastData struct {
	Validation ValidationForecast `json:"validation"`
	Future     FutureForecast     `json:"future"`
}

// ChartData aggregates every chart payload for the dashboard.
type ChartData struct {
	Candlestick       CandlestickData       `json:"candlestick"`
	RSI               RSIData               `json:"rsi"`
	MACD              MACDData              `json:"macd"`
	Bollinger         BollingerData         `json:"bollinger"`
	MovingAverages    MovingAveragesData    `json:"moving_averages"`
	Drawdown          DrawdownData          `json:"drawdown"`
	CumulativeReturns CumulativeReturnsData `json:"cumulative_returns"`
	Returns           ReturnsData           `json:"returns"`
	Forecast          ForecastData          `json:"forecast"`
}

// AnalyzeResponse is the full analysis result.
type AnalyzeResponse struct {
	Ticker           string                `json:"ticker"`
	Success          bool                  `json:"success"`
	TechnicalSummary string                `json:"technical_summary,omitempty"`
	Error            string                `json:"error,omitempty"`
	Statistics       *indicator.Statistics `json:"statistics,omitempty"`
	ChartData        *ChartData            `json:"chart_data,omitempty"`
}
