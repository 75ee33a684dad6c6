// Package indicator implements the standard technical indicator formulas used
// by the analysis service. The series semantics follow the usual rolling-window
// conventions: positions before a window is full are NaN and mapped to a
// neutral filler at the payload boundary.
package indicator

import (
	"errors"
	"math"
)

var (
	// ErrInsufficientData is returned when a series is shorter than the
	// indicator's warmup window.
	ErrInsufficientData = errors.New("insufficient data for indicator")
	// ErrInvalidPeriod is returned for non-positive periods.
	ErrInvalidPeriod = errors.New("invalid indicator period")
)

// RollingMean computes the simple moving average with the given window.
// Positions before the window is full are NaN.
func RollingMean(values []float64, window int) []float64 {
	out := nanSlice(len(values))
	if window <= 0 || len(values) < window {
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// RollingStd computes the rolling sample standard deviation (ddof=1).
func RollingStd(values []float64, window int) []float64 {
	out := nanSlice(len(values))
	if window <= 1 || len(values) < window {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		win := values[i-window+1 : i+1]
		var sum float64
		for _, v := range win {
			sum += v
		}
		mean := sum / float64(window)
		var sq float64
		for _, v := range win {
			d := v - mean
			sq += d * d
		}
		out[i] = math.Sqrt(sq / float64(window-1))
	}
	return out
}

// EMA computes the exponentially weighted mean with the given span, seeded at
// the first value (the recursive, non-adjusted form).
func EMA(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// PctChange computes period-over-period returns. The first position is NaN.
func PctChange(values []float64) []float64 {
	out := nanSlice(len(values))
	for i := 1; i < len(values); i++ {
		out[i] = values[i]/values[i-1] - 1
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// FillNaN replaces NaN positions with the given filler.
func FillNaN(values []float64, filler float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = filler
		} else {
			out[i] = v
		}
	}
	return out
}

// NaNToNull converts a series to pointers, mapping NaN to nil so warmup
// positions serialize as JSON null.
func NaNToNull(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i, v := range values {
		if !math.IsNaN(v) {
			v := v
			out[i] = &v
		}
	}
	return out
}
