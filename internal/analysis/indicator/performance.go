package indicator

import "math"

// DrawdownResult holds the drawdown series in percent and its worst value.
type DrawdownResult struct {
	Values      []float64
	MaxDrawdown float64
}

// Drawdown computes the percentage drop from the running peak for every bar.
func Drawdown(closes []float64) (*DrawdownResult, error) {
	if len(closes) == 0 {
		return nil, ErrInsufficientData
	}

	values := make([]float64, len(closes))
	runningMax := closes[0]
	maxDrawdown := 0.0
	for i, c := range closes {
		if c > runningMax {
			runningMax = c
		}
		values[i] = (c - runningMax) / runningMax * 100
		if values[i] < maxDrawdown {
			maxDrawdown = values[i]
		}
	}

	return &DrawdownResult{
		Values:      values,
		MaxDrawdown: round2(maxDrawdown),
	}, nil
}

// CumulativeReturnsResult holds the compounded return series in percent.
type CumulativeReturnsResult struct {
	Values      []float64
	TotalReturn float64
}

// CumulativeReturns compounds period returns into a cumulative percentage
// series. The first bar has no prior return and reports 0.
func CumulativeReturns(closes []float64) (*CumulativeReturnsResult, error) {
	if len(closes) == 0 {
		return nil, ErrInsufficientData
	}

	values := make([]float64, len(closes))
	cum := 1.0
	for i := 1; i < len(closes); i++ {
		cum *= closes[i] / closes[i-1]
		values[i] = (cum - 1) * 100
	}

	return &CumulativeReturnsResult{
		Values:      values,
		TotalReturn: round2(values[len(values)-1]),
	}, nil
}

// MAE computes the mean absolute error between two equal-length series.
func MAE(actual, predicted []float64) float64 {
	if len(actual) == 0 || len(actual) != len(predicted) {
		return 0
	}
	var sum float64
	for i := range actual {
		sum += math.Abs(actual[i] - predicted[i])
	}
	return sum / float64(len(actual))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
