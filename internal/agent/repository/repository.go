package repository

import (
	"context"

	"stock-insight/internal/entity"
)

// AIRepository defines the contract for the language model backing the agent.
type AIRepository interface {
	// AnswerQuestion produces a free-text answer from a fully rendered prompt.
	AnswerQuestion(ctx context.Context, prompt string) (string, error)
	// AnalyzeChartImage answers a question about a base64-encoded chart image.
	AnalyzeChartImage(ctx context.Context, prompt, imageBase64 string) (string, error)
	// GenerateNewsDigest summarizes recent headlines for a ticker.
	GenerateNewsDigest(ctx context.Context, ticker string, items []entity.NewsItem) (string, error)
}

// NewsFeedRepository fetches recent headlines for a ticker.
type NewsFeedRepository interface {
	GetNews(ctx context.Context, ticker string) ([]entity.NewsItem, error)
}
