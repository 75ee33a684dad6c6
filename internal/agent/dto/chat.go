package dto

// ChatRequest is the payload for the chat endpoint. TechnicalData carries the
// dashboard's current analysis payload verbatim, and ForecastScreenshot is an
// optional base64-encoded PNG of the rendered forecast chart.
type ChatRequest struct {
	Ticker             string                 `json:"ticker" validate:"required,alphanum,max=10"`
	Message            string                 `json:"message" validate:"required,max=2000"`
	TechnicalData      map[string]interface{} `json:"technical_data,omitempty"`
	ForecastScreenshot string                 `json:"forecast_screenshot,omitempty"`
}

// ChatResponse is the reply from the chat endpoint.
type ChatResponse struct {
	Response       string  `json:"response"`
	Mode           string  `json:"mode"`
	ProcessingTime float64 `json:"processing_time"`
}

// MemoryClearedResponse confirms a conversation history wipe.
type MemoryClearedResponse struct {
	Ticker  string `json:"ticker"`
	Cleared bool   `json:"cleared"`
}

// ErrorResponse is the generic error envelope.
type ErrorResponse struct {
	Error string `json:"error"`
}
