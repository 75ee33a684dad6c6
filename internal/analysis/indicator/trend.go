package indicator

// MACD signal labels.
const (
	SignalBullishCrossover = "bullish_crossover"
	SignalBearishCrossover = "bearish_crossover"
)

// MACDResult holds the MACD line, signal line and histogram.
type MACDResult struct {
	MACDLine   []float64
	SignalLine []float64
	Histogram  []float64
	Signal     string
}

// MACD computes the Moving Average Convergence Divergence with the standard
// 12/26/9 EMA configuration. The signal label reports a histogram sign flip
// on the latest bar.
func MACD(closes []float64, fast, slow, signal int) (*MACDResult, error) {
	if fast <= 0 || slow <= 0 || signal <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(closes) < 2 {
		return nil, ErrInsufficientData
	}

	fastEMA := EMA(closes, fast)
	slowEMA := EMA(closes, slow)

	n := len(closes)
	macdLine := make([]float64, n)
	for i := range macdLine {
		macdLine[i] = fastEMA[i] - slowEMA[i]
	}

	signalLine := EMA(macdLine, signal)
	histogram := make([]float64, n)
	for i := range histogram {
		histogram[i] = macdLine[i] - signalLine[i]
	}

	label := SignalNeutral
	currHist := histogram[n-1]
	prevHist := histogram[n-2]
	if currHist > 0 && prevHist <= 0 {
		label = SignalBullishCrossover
	} else if currHist < 0 && prevHist >= 0 {
		label = SignalBearishCrossover
	}

	return &MACDResult{
		MACDLine:   macdLine,
		SignalLine: signalLine,
		Histogram:  histogram,
		Signal:     label,
	}, nil
}

// MovingAveragesResult holds the standard long-horizon moving averages.
type MovingAveragesResult struct {
	MA20  []float64
	MA50  []float64
	MA200 []float64
}

// MovingAverages computes the 20, 50 and 200 bar simple moving averages.
// Warmup positions are NaN; a series shorter than a window leaves that whole
// series NaN rather than failing the request.
func MovingAverages(closes []float64) *MovingAveragesResult {
	return &MovingAveragesResult{
		MA20:  RollingMean(closes, 20),
		MA50:  RollingMean(closes, 50),
		MA200: RollingMean(closes, 200),
	}
}
