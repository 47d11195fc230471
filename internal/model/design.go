// Package model provides the supervised-modeling boundary of the pipeline:
// building design matrices from cleaned records, a baseline logistic
// classifier, a linear-trend forecaster, and evaluation metrics.
//
// The package sits strictly downstream of cleaning. Builders reject missing
// values instead of imputing them; by the time records reach this package the
// missing-value policy has already run.
package model

import (
	"fmt"
	"math/rand"
	"sort"

	"casepipe/pkg/records"
)

// DesignMatrix is a fully numeric feature matrix with an aligned label
// vector. Categorical predictors are one-hot encoded; FeatureNames documents
// the encoded column order.
type DesignMatrix struct {
	FeatureNames []string
	X            [][]float64
	Y            []float64
}

// Rows returns the number of observations.
func (m *DesignMatrix) Rows() int { return len(m.X) }

// BuildDesign one-hot encodes the categorical predictor columns of the given
// records and extracts a binary label. Every record must carry a non-missing
// value for the label and for every predictor; a missing cell is a programming
// error upstream (the cleaning chain should have filled or dropped it) and is
// reported, not imputed.
//
// Encoding is deterministic: levels are collected per predictor and sorted,
// so the same input always produces the same column order.
func BuildDesign(recs []records.Record, label string, predictors []string) (*DesignMatrix, error) {
	if len(recs) == 0 {
		return nil, fmt.Errorf("model: no records to encode")
	}
	if len(predictors) == 0 {
		return nil, fmt.Errorf("model: no predictor columns given")
	}

	// First pass: collect levels per predictor and validate completeness.
	levels := make(map[string][]string, len(predictors))
	seen := make(map[string]map[string]bool, len(predictors))
	for _, p := range predictors {
		seen[p] = map[string]bool{}
	}
	for i, rec := range recs {
		if rec.IsMissing(label) {
			return nil, fmt.Errorf("model: record %d: missing label %q", i, label)
		}
		for _, p := range predictors {
			if rec.IsMissing(p) {
				return nil, fmt.Errorf("model: record %d: missing predictor %q", i, p)
			}
			v := rec.String(p)
			if !seen[p][v] {
				seen[p][v] = true
				levels[p] = append(levels[p], v)
			}
		}
	}
	for _, p := range predictors {
		sort.Strings(levels[p])
	}

	// Column layout: for each predictor, one indicator column per level,
	// named "predictor=level".
	var names []string
	colIndex := map[string]int{}
	for _, p := range predictors {
		for _, lv := range levels[p] {
			colIndex[p+"="+lv] = len(names)
			names = append(names, p+"="+lv)
		}
	}

	m := &DesignMatrix{
		FeatureNames: names,
		X:            make([][]float64, len(recs)),
		Y:            make([]float64, len(recs)),
	}
	for i, rec := range recs {
		row := make([]float64, len(names))
		for _, p := range predictors {
			row[colIndex[p+"="+rec.String(p)]] = 1
		}
		m.X[i] = row
		y, err := binaryLabel(rec, label)
		if err != nil {
			return nil, fmt.Errorf("model: record %d: %w", i, err)
		}
		m.Y[i] = y
	}
	return m, nil
}

// binaryLabel maps a record cell onto {0, 1}. Accepts coerced bools plus the
// common truthy/falsy string spellings that survive cleaning.
func binaryLabel(rec records.Record, label string) (float64, error) {
	switch v := rec[label].(type) {
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case int64:
		if v == 0 || v == 1 {
			return float64(v), nil
		}
	case float64:
		if v == 0 || v == 1 {
			return v, nil
		}
	case string:
		switch v {
		case "true", "TRUE", "True", "Y", "1":
			return 1, nil
		case "false", "FALSE", "False", "N", "0":
			return 0, nil
		}
	}
	return 0, fmt.Errorf("label %q value %v is not binary", label, rec[label])
}

// Split partitions the matrix into train and test subsets. testRatio is the
// fraction held out, seed fixes the permutation so experiments reproduce.
func (m *DesignMatrix) Split(testRatio float64, seed int64) (train, test *DesignMatrix, err error) {
	if testRatio < 0 || testRatio >= 1 {
		return nil, nil, fmt.Errorf("model: test ratio %v out of range [0,1)", testRatio)
	}
	n := m.Rows()
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	nTest := int(float64(n) * testRatio)

	take := func(idx []int) *DesignMatrix {
		out := &DesignMatrix{
			FeatureNames: m.FeatureNames,
			X:            make([][]float64, len(idx)),
			Y:            make([]float64, len(idx)),
		}
		for i, j := range idx {
			out.X[i] = m.X[j]
			out.Y[i] = m.Y[j]
		}
		return out
	}
	return take(perm[nTest:]), take(perm[:nTest]), nil
}
