package repository

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/mauidude/go-readability"
	"github.com/mmcdole/gofeed"

	"stock-insight/internal/agent/config"
	"stock-insight/internal/entity"
	"stock-insight/pkg/logger"
	"stock-insight/pkg/utils"
)

const (
	defaultNewsFeedBaseURL = "https://news.google.com/rss"
	maxSnippetLength       = 300
)

// newsFeedRepository fetches headlines for a ticker from a Google News style
// RSS search feed and extracts short article snippets.
type newsFeedRepository struct {
	cfg    *config.Config
	logger *logger.Logger
	parser *gofeed.Parser
	client *http.Client
}

// NewNewsFeedRepository creates a new instance of newsFeedRepository.
func NewNewsFeedRepository(cfg *config.Config, log *logger.Logger) NewsFeedRepository {
	return &newsFeedRepository{
		cfg:    cfg,
		logger: log,
		parser: gofeed.NewParser(),
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// GetNews returns the most recent headlines for the ticker, newest first,
// capped at the configured item count. Snippet extraction is best effort; a
// headline without a snippet is still returned.
func (r *newsFeedRepository) GetNews(ctx context.Context, ticker string) ([]entity.NewsItem, error) {
	baseURL := r.cfg.News.FeedBaseURL
	if baseURL == "" {
		baseURL = defaultNewsFeedBaseURL
	}
	feedURL := fmt.Sprintf("%s/search?q=%s+stock&hl=en-US&gl=US&ceid=US:en", baseURL, url.QueryEscape(ticker))

	r.logger.Info("Processing RSS feed", logger.StringField("url", feedURL))
	feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		r.logger.Error("Failed to parse RSS feed", logger.ErrorField(err), logger.StringField("ticker", ticker))
		return nil, fmt.Errorf("failed to parse RSS feed: %w", err)
	}

	sort.Slice(feed.Items, func(i, j int) bool {
		if feed.Items[i].PublishedParsed == nil || feed.Items[j].PublishedParsed == nil {
			return false
		}
		return feed.Items[i].PublishedParsed.After(*feed.Items[j].PublishedParsed)
	})

	count := len(feed.Items)
	if count > r.cfg.News.MaxItems {
		count = r.cfg.News.MaxItems
	}
	items := make([]entity.NewsItem, count)

	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		item := feed.Items[i]
		news := entity.NewsItem{
			Title:  item.Title,
			Link:   item.Link,
			Source: feedItemSource(item),
		}
		if item.PublishedParsed != nil {
			news.PublishedAt = *item.PublishedParsed
		}

		idx := i
		wg.Add(1)
		utils.GoSafe(func() {
			defer wg.Done()
			if snippet, err := r.extractSnippet(ctx, item.Link); err != nil {
				r.logger.Debug("Snippet extraction failed", logger.ErrorField(err), logger.StringField("link", item.Link))
			} else {
				news.Snippet = snippet
			}
			items[idx] = news
		})
	}
	wg.Wait()

	return items, nil
}

// extractSnippet fetches the article page and pulls a readable text snippet.
func (r *newsFeedRepository) extractSnippet(ctx context.Context, link string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", link, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request for news item: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch news content: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch news content, status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	doc, err := readability.NewDocument(string(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse news content: %w", err)
	}

	docHTML, err := goquery.NewDocumentFromReader(bytes.NewReader([]byte(doc.Content())))
	if err != nil {
		return "", fmt.Errorf("failed to parse news content: %w", err)
	}

	content := strings.Join(strings.Fields(docHTML.Text()), " ")
	return truncateSnippet(content, maxSnippetLength), nil
}

// truncateSnippet shortens s to at most max bytes without splitting a
// multi-byte rune.
func truncateSnippet(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func feedItemSource(item *gofeed.Item) string {
	if parsed, err := url.Parse(item.Link); err == nil && parsed.Hostname() != "" {
		return parsed.Hostname()
	}
	return ""
}
