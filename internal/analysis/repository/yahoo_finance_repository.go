package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"stock-insight/internal/analysis/config"
	"stock-insight/internal/analysis/dto"
	"stock-insight/internal/entity"
	"stock-insight/pkg/logger"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// yahooFinanceRepository fetches OHLCV bars from the Yahoo Finance chart API.
type yahooFinanceRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	client         *http.Client
	requestLimiter *rate.Limiter
	barCache       *cache.Cache
}

// NewYahooFinanceRepository creates a new instance of yahooFinanceRepository.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) (MarketDataRepository, error) {
	if cfg.YahooFinance.MaxRequestPerMinute <= 0 {
		return nil, fmt.Errorf("yahoo finance max_request_per_minute must be positive")
	}
	secondsPerRequest := time.Minute / time.Duration(cfg.YahooFinance.MaxRequestPerMinute)
	requestLimiter := rate.NewLimiter(rate.Every(secondsPerRequest), 1)

	cacheTTL := cfg.YahooFinance.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}

	return &yahooFinanceRepository{
		cfg: cfg,
		log: log,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		requestLimiter: requestLimiter,
		barCache:       cache.New(cacheTTL, 2*cacheTTL),
	}, nil
}

// GetPriceBars fetches daily bars for the requested range. Results are cached
// briefly so repeated dashboard runs do not hammer the provider.
func (r *yahooFinanceRepository) GetPriceBars(ctx context.Context, param dto.GetPriceBarsParam) ([]entity.PriceBar, error) {
	cacheKey := fmt.Sprintf("%s:%s:%s", param.Symbol, param.Interval, param.Range)
	if cached, found := r.barCache.Get(cacheKey); found {
		if bars, ok := cached.([]entity.PriceBar); ok {
			r.log.DebugContext(ctx, "Price bar cache hit", logger.StringField("symbol", param.Symbol))
			return bars, nil
		}
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request limit: %w", err)
	}

	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		r.cfg.YahooFinance.BaseURL, param.Symbol, param.Interval, param.Range)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create new http request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := r.client.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to send request to Yahoo Finance", logger.ErrorField(err), logger.StringField("symbol", param.Symbol))
		return nil, fmt.Errorf("failed to send request to Yahoo Finance: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		r.log.ErrorContext(ctx, "Received non-OK response from Yahoo Finance",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("symbol", param.Symbol))
		return nil, fmt.Errorf("received non-OK response from Yahoo Finance: %d - %s", resp.StatusCode, string(body))
	}

	var chartResp dto.YahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chartResp); err != nil {
		return nil, fmt.Errorf("failed to decode Yahoo Finance response: %w", err)
	}

	bars, err := parseChartResponse(&chartResp)
	if err != nil {
		return nil, err
	}

	r.barCache.Set(cacheKey, bars, cache.DefaultExpiration)
	return bars, nil
}

func parseChartResponse(chartResp *dto.YahooChartResponse) ([]entity.PriceBar, error) {
	if chartResp.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo finance error: %s - %s", chartResp.Chart.Error.Code, chartResp.Chart.Error.Description)
	}
	if len(chartResp.Chart.Result) == 0 || len(chartResp.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no chart data in Yahoo Finance response")
	}

	result := chartResp.Chart.Result[0]
	quote := result.Indicators.Quote[0]

	bars := make([]entity.PriceBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// Null closes mark halted or not-yet-settled sessions.
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		bar := entity.PriceBar{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *quote.Close[i],
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i]
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i]
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i]
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}
		bars = append(bars, bar)
	}

	if len(bars) == 0 {
		return nil, fmt.Errorf("no usable price bars in Yahoo Finance response")
	}
	return bars, nil
}
