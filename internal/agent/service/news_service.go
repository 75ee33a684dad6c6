package service

import (
	"context"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"stock-insight/internal/agent/config"
	"stock-insight/internal/agent/dto"
	"stock-insight/internal/agent/repository"
	"stock-insight/pkg/logger"
)

// NewsService fetches recent headlines for a ticker and summarizes them with
// the AI provider. The digest step is best effort; when it fails the raw
// headlines are still returned.
type NewsService interface {
	GetNews(ctx context.Context, ticker string) (*dto.NewsResponse, error)
}

type newsService struct {
	cfg      *config.Config
	log      *logger.Logger
	feedRepo repository.NewsFeedRepository
	aiRepo   repository.AIRepository
	cache    *cache.Cache
}

// NewNewsService creates a new NewsService.
func NewNewsService(cfg *config.Config, log *logger.Logger, feedRepo repository.NewsFeedRepository, aiRepo repository.AIRepository) NewsService {
	ttl := time.Duration(cfg.News.CacheTTL) * time.Second
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &newsService{
		cfg:      cfg,
		log:      log,
		feedRepo: feedRepo,
		aiRepo:   aiRepo,
		cache:    cache.New(ttl, 2*ttl),
	}
}

func (s *newsService) GetNews(ctx context.Context, ticker string) (*dto.NewsResponse, error) {
	ticker = strings.ToUpper(ticker)

	if cached, found := s.cache.Get(ticker); found {
		s.log.DebugContext(ctx, "News cache hit", logger.StringField("ticker", ticker))
		return cached.(*dto.NewsResponse), nil
	}

	items, err := s.feedRepo.GetNews(ctx, ticker)
	if err != nil {
		return nil, err
	}

	resp := &dto.NewsResponse{
		Ticker: ticker,
		Items:  items,
	}

	if len(items) > 0 {
		digest, err := s.aiRepo.GenerateNewsDigest(ctx, ticker, items)
		if err != nil {
			s.log.WarnContext(ctx, "News digest generation failed, returning raw headlines",
				logger.ErrorField(err), logger.StringField("ticker", ticker))
		} else {
			resp.Digest = digest
		}
	}

	s.cache.Set(ticker, resp, cache.DefaultExpiration)
	return resp, nil
}
