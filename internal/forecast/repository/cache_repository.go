package repository

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"math"
	"strings"
	"time"

	goRedis "github.com/redis/go-redis/v9"

	"stock-insight/internal/forecast/config"
	"stock-insight/pkg/common"
	"stock-insight/pkg/logger"
	"stock-insight/pkg/redis"
)

// forecastCache stores forecasts in Redis, keyed by symbol plus a hash of the
// exact input window. Cache failures are logged and treated as misses so
// Redis never becomes a hard dependency of the predict path.
type forecastCache struct {
	cfg    *config.Config
	log    *logger.Logger
	client *redis.Client
	ttl    time.Duration
}

// NewForecastCache creates a new Redis-backed forecast cache.
func NewForecastCache(cfg *config.Config, log *logger.Logger, client *redis.Client) ForecastCache {
	ttl := cfg.Cache.TTL
	if ttl <= 0 {
		ttl = common.DefaultForecastCacheTTL
	}
	return &forecastCache{
		cfg:    cfg,
		log:    log,
		client: client,
		ttl:    ttl,
	}
}

// Get looks up a cached forecast for the same symbol and input window.
func (c *forecastCache) Get(ctx context.Context, symbol string, data []float64) ([]float64, bool) {
	key := cacheKey(symbol, data)
	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != goRedis.Nil {
			c.log.Warn("Forecast cache get failed", logger.ErrorField(err), logger.StringField("key", key))
		}
		return nil, false
	}

	var forecast []float64
	if err := json.Unmarshal([]byte(raw), &forecast); err != nil {
		c.log.Warn("Forecast cache entry corrupt", logger.ErrorField(err), logger.StringField("key", key))
		return nil, false
	}

	c.log.DebugContext(ctx, "Forecast cache hit", logger.StringField("symbol", symbol))
	return forecast, true
}

// Set stores a forecast with the configured TTL.
func (c *forecastCache) Set(ctx context.Context, symbol string, data []float64, forecast []float64) {
	raw, err := json.Marshal(forecast)
	if err != nil {
		c.log.Warn("Failed to marshal forecast for cache", logger.ErrorField(err))
		return
	}
	key := cacheKey(symbol, data)
	if err := c.client.SetEx(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("Forecast cache set failed", logger.ErrorField(err), logger.StringField("key", key))
	}
}

func cacheKey(symbol string, data []float64) string {
	h := fnv.New64a()
	buf := make([]byte, 8)
	for _, v := range data {
		binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
		_, _ = h.Write(buf)
	}
	return fmt.Sprintf("%s:%s:%x", common.RedisKeyForecastPrefix, strings.ToUpper(symbol), h.Sum64())
}
