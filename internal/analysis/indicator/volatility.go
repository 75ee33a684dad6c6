package indicator

// BollingerResult holds the Bollinger band series.
type BollingerResult struct {
	Upper  []float64
	Middle []float64
	Lower  []float64
}

// Bollinger computes Bollinger Bands: a rolling mean plus and minus numStd
// rolling sample standard deviations.
func Bollinger(closes []float64, window int, numStd float64) (*BollingerResult, error) {
	if window <= 1 {
		return nil, ErrInvalidPeriod
	}
	if len(closes) < window {
		return nil, ErrInsufficientData
	}

	middle := RollingMean(closes, window)
	std := RollingStd(closes, window)

	n := len(closes)
	upper := make([]float64, n)
	lower := make([]float64, n)
	for i := 0; i < n; i++ {
		upper[i] = middle[i] + numStd*std[i]
		lower[i] = middle[i] - numStd*std[i]
	}

	return &BollingerResult{
		Upper:  upper,
		Middle: middle,
		Lower:  lower,
	}, nil
}
