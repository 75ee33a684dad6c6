package common

import "time"

const (
	// DateLayout is the wire format for chart date axes.
	DateLayout = "2006-01-02"

	// RedisKeyForecastPrefix prefixes cached forecast entries.
	RedisKeyForecastPrefix = "pred"

	// DefaultForecastCacheTTL is how long a forecast for an identical input
	// window stays valid.
	DefaultForecastCacheTTL = time.Hour

	// MinAnalysisBars is the minimum number of price bars required to run a
	// full technical analysis.
	MinAnalysisBars = 60

	// ValidationWindow is the number of trailing bars held out for forecast
	// validation.
	ValidationWindow = 30

	// ForecastInputSize is the lookback window the pre-trained model expects.
	ForecastInputSize = 60
)
