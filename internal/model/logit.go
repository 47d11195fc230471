package model

import (
	"fmt"
	"math"
)

// Classifier predicts binary outcomes from encoded feature rows.
type Classifier interface {
	// Fit trains on the given matrix.
	Fit(m *DesignMatrix) error
	// PredictProb returns P(y=1) for one feature row.
	PredictProb(x []float64) float64
	// Predict thresholds PredictProb at 0.5.
	Predict(x []float64) float64
}

// LogisticRegression is a plain gradient-descent logistic classifier. It is
// single-threaded and intended as a baseline on one-hot encoded predictors,
// not a tuned model.
type LogisticRegression struct {
	LearningRate float64
	Epochs       int

	weights []float64
	bias    float64
}

// NewLogisticRegression returns a classifier with defaults that converge on
// the dataset sizes this pipeline handles.
func NewLogisticRegression() *LogisticRegression {
	return &LogisticRegression{LearningRate: 0.1, Epochs: 500}
}

func sigmoid(z float64) float64 { return 1 / (1 + math.Exp(-z)) }

// Fit runs batch gradient descent on the log loss.
func (lr *LogisticRegression) Fit(m *DesignMatrix) error {
	if m.Rows() == 0 {
		return fmt.Errorf("model: cannot fit on empty matrix")
	}
	nFeat := len(m.X[0])
	lr.weights = make([]float64, nFeat)
	lr.bias = 0

	n := float64(m.Rows())
	for epoch := 0; epoch < lr.Epochs; epoch++ {
		gradW := make([]float64, nFeat)
		gradB := 0.0
		for i, x := range m.X {
			err := lr.PredictProb(x) - m.Y[i]
			for j, xj := range x {
				gradW[j] += err * xj
			}
			gradB += err
		}
		for j := range lr.weights {
			lr.weights[j] -= lr.LearningRate * gradW[j] / n
		}
		lr.bias -= lr.LearningRate * gradB / n
	}
	return nil
}

// PredictProb returns the sigmoid of the linear score.
func (lr *LogisticRegression) PredictProb(x []float64) float64 {
	z := lr.bias
	for j, w := range lr.weights {
		if j < len(x) {
			z += w * x[j]
		}
	}
	return sigmoid(z)
}

// Predict thresholds at 0.5.
func (lr *LogisticRegression) Predict(x []float64) float64 {
	if lr.PredictProb(x) >= 0.5 {
		return 1
	}
	return 0
}

var _ Classifier = (*LogisticRegression)(nil)
