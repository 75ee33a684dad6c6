package dto

// GetPriceBarsParam identifies a price history window to fetch.
type GetPriceBarsParam struct {
	Symbol   string
	Interval string
	Range    string
}

// YahooChartResponse mirrors the Yahoo Finance v8 chart endpoint. Quote
// arrays use pointers because the API emits null for halted sessions.
type YahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol   string `json:"symbol"`
				Currency string `json:"currency"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// PredictRequest is the inference request sent to the forecast service.
type PredictRequest struct {
	Ticker string    `json:"ticker"`
	Data   []float64 `json:"data"`
}

// PredictResponse is the inference response from the forecast service.
type PredictResponse struct {
	Ticker       string    `json:"ticker"`
	Forecast     []float64 `json:"forecast"`
	ModelVersion string    `json:"model_version"`
}
