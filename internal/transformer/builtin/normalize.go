// Package builtin contains the reusable cleaning stages: whitespace
// normalization, column dropping, token repair, type coercion, and the two
// halves of the missing-value policy (fill, then require).
package builtin

import (
	"strings"

	"casepipe/pkg/records"
)

// Normalize trims surrounding whitespace from every string cell and converts
// cells that become empty to nil, so that downstream stages have a single
// representation of "missing". Non-breaking spaces from source-side encoding
// slips are treated as spaces.
type Normalize struct{}

func (Normalize) Apply(in []records.Record) ([]records.Record, error) {
	for _, r := range in {
		for k, v := range r {
			s, ok := v.(string)
			if !ok {
				continue
			}
			s = strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
			if s == "" {
				r[k] = nil
			} else {
				r[k] = s
			}
		}
	}
	return in, nil
}
