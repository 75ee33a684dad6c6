package indicator

import "math"

// RSI signal labels.
const (
	SignalOverbought = "overbought"
	SignalOversold   = "oversold"
	SignalNeutral    = "neutral"
)

// RSIResult holds the RSI series with its latest value and signal.
type RSIResult struct {
	Values  []float64
	Current float64
	Signal  string
}

// RSI computes the Relative Strength Index over the close series using a
// rolling mean of gains and losses. Warmup positions are NaN; an all-loss
// window yields 0 and an all-gain window yields 100.
func RSI(closes []float64, period int) (*RSIResult, error) {
	if period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(closes) < period+1 {
		return nil, ErrInsufficientData
	}

	n := len(closes)
	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	values := nanSlice(n)
	for i := period; i < n; i++ {
		var avgGain, avgLoss float64
		for j := i - period + 1; j <= i; j++ {
			avgGain += gains[j]
			avgLoss += losses[j]
		}
		avgGain /= float64(period)
		avgLoss /= float64(period)

		switch {
		case avgLoss == 0 && avgGain == 0:
			values[i] = math.NaN()
		case avgLoss == 0:
			values[i] = 100
		default:
			rs := avgGain / avgLoss
			values[i] = 100 - (100 / (1 + rs))
		}
	}

	current := values[n-1]
	if math.IsNaN(current) {
		current = 50
	}

	signal := SignalNeutral
	if current > 70 {
		signal = SignalOverbought
	} else if current < 30 {
		signal = SignalOversold
	}

	return &RSIResult{
		Values:  values,
		Current: current,
		Signal:  signal,
	}, nil
}
