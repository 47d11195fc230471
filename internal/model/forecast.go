package model

import "fmt"

// Forecaster extrapolates a numeric series forward.
type Forecaster interface {
	Fit(series []float64) error
	// Forecast returns the predicted values for the next h steps.
	Forecast(h int) []float64
}

// LinearTrend fits an ordinary least-squares line over the series index and
// extrapolates it. Good enough for eyeballing cumulative case curves; not a
// substitute for a proper time-series model.
type LinearTrend struct {
	intercept float64
	slope     float64
	n         int
}

// Fit computes the least-squares fit of value against index.
func (l *LinearTrend) Fit(series []float64) error {
	n := len(series)
	if n < 2 {
		return fmt.Errorf("model: linear trend needs at least 2 points, got %d", n)
	}
	var sumX, sumY, sumXY, sumXX float64
	for i, y := range series {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}
	fn := float64(n)
	denom := fn*sumXX - sumX*sumX
	if denom == 0 {
		return fmt.Errorf("model: degenerate series, cannot fit trend")
	}
	l.slope = (fn*sumXY - sumX*sumY) / denom
	l.intercept = (sumY - l.slope*sumX) / fn
	l.n = n
	return nil
}

// Forecast extrapolates h steps past the end of the fitted series.
func (l *LinearTrend) Forecast(h int) []float64 {
	out := make([]float64, h)
	for i := 0; i < h; i++ {
		out[i] = l.intercept + l.slope*float64(l.n+i)
	}
	return out
}

var _ Forecaster = (*LinearTrend)(nil)
