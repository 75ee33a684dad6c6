package dto

import "stock-insight/internal/entity"

// NewsResponse is the reply from the news endpoint. Digest is empty when the
// AI summarization step failed and the caller should fall back to Items.
type NewsResponse struct {
	Ticker string            `json:"ticker"`
	Items  []entity.NewsItem `json:"items"`
	Digest string            `json:"digest,omitempty"`
}
