package model

import "math"

// Accuracy is the fraction of predictions matching true labels. Returns 0 on
// empty or mismatched inputs.
func Accuracy(pred, truth []float64) float64 {
	if len(pred) == 0 || len(pred) != len(truth) {
		return 0
	}
	hits := 0
	for i := range pred {
		if pred[i] == truth[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(pred))
}

// MAPE returns the mean absolute percentage error over the pairs whose true
// value is nonzero, plus the count of pairs excluded for a zero true value.
// Zero true values would make individual terms undefined, so they are skipped
// rather than treated as infinite error.
func MAPE(pred, truth []float64) (mape float64, excluded int) {
	if len(pred) != len(truth) {
		return math.NaN(), 0
	}
	var sum float64
	used := 0
	for i := range truth {
		if truth[i] == 0 {
			excluded++
			continue
		}
		sum += math.Abs((truth[i] - pred[i]) / truth[i])
		used++
	}
	if used == 0 {
		return math.NaN(), excluded
	}
	return sum / float64(used) * 100, excluded
}
