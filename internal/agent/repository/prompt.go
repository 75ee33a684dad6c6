package repository

import (
	"fmt"
	"strings"

	"stock-insight/internal/entity"
)

// BuildChartAnalysisPrompt frames a vision request around a forecast chart
// screenshot. The user question is appended so the model answers it in the
// context of what the chart shows.
func BuildChartAnalysisPrompt(ticker, question string) string {
	return fmt.Sprintf(`You are a stock analysis assistant for educational purposes.
The attached image is a rendered price and forecast chart for %s.

Describe what the chart shows: the recent price trend, the forecast direction,
and how wide the confidence band is. Then answer the user's question based on
what is visible in the chart.

User question: %s

Keep the answer concise (under 200 words). Do not give financial advice;
frame everything as an educational observation.`, ticker, question)
}

// BuildNewsDigestPrompt asks for a short digest of recent headlines.
func BuildNewsDigestPrompt(ticker string, items []entity.NewsItem) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Here are recent news headlines about the stock %s:\n\n", ticker))
	for i, item := range items {
		sb.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, item.Title, item.Source))
		if item.Snippet != "" {
			sb.WriteString(fmt.Sprintf("   %s\n", item.Snippet))
		}
	}
	sb.WriteString(fmt.Sprintf(`
Write a short digest (3-5 sentences) of what is currently happening with %s
based only on these headlines. Mention the overall tone (positive, negative,
or mixed). Do not invent facts that are not in the headlines. Plain text only.`, ticker))
	return sb.String()
}
