package dto

// PredictRequest asks for a forecast from a symbol's pre-trained model. Data
// must be exactly the model's input window of trailing close prices.
type PredictRequest struct {
	Ticker string    `json:"ticker" validate:"required,alphanum,max=10"`
	Data   []float64 `json:"data" validate:"required,min=1"`
}

// PredictResponse carries the raw forecast for the model's horizon.
type PredictResponse struct {
	Ticker       string    `json:"ticker"`
	Forecast     []float64 `json:"forecast"`
	ModelVersion string    `json:"model_version"`
}

// HealthResponse reports service status and the known model symbols.
type HealthResponse struct {
	Status       string   `json:"status"`
	KnownModels  []string `json:"known_models"`
	LoadedModels []string `json:"loaded_models"`
}

// ErrorResponse represents a generic error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}
