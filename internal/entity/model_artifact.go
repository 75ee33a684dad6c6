package entity

import "time"

// ModelArtifact describes a pre-trained per-symbol forecasting model manifest
// found in the artifact directory.
type ModelArtifact struct {
	Symbol     string    `json:"symbol"`
	Version    string    `json:"version"`
	Path       string    `json:"-"`
	WeightsRef string    `json:"weights_ref"`
	InputSize  int       `json:"input_size"`
	Horizon    int       `json:"horizon"`
	TrainedAt  time.Time `json:"trained_at"`
}
