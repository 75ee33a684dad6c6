package entity

import "time"

// NewsItem is a single headline retrieved for a ticker.
type NewsItem struct {
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Source      string    `json:"source"`
	Snippet     string    `json:"snippet,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}
