// Package records defines the record type shared by every pipeline stage.
//
// A Record is a flat map of column name to value. Parsers produce Records
// with raw string values (nil for empty cells); transformers coerce values in
// place into typed forms (time.Time, time.Duration, int64, float64, bool).
// Stages pass slices of Records by value-semantics convention: each stage
// returns its output snapshot and never retains references to its input.
package records

import (
	"fmt"
	"strconv"
	"time"
)

// Record is one row of tabular data keyed by column name. A nil value means
// the cell was absent or empty in the source.
type Record map[string]any

// Clone returns a shallow copy of the record. Values are not deep-copied;
// coerced values (time.Time, numbers, strings) are immutable anyway.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// IsMissing reports whether the field is absent, nil, or an empty string.
func (r Record) IsMissing(field string) bool {
	v, ok := r[field]
	if !ok || v == nil {
		return true
	}
	s, isStr := v.(string)
	return isStr && s == ""
}

// String renders the field value as a string without fmt overhead for the
// common types. Missing fields render as "".
func (r Record) String(field string) string {
	switch t := r[field].(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		if t {
			return "true"
		}
		return "false"
	case time.Time:
		return t.Format("2006-01-02")
	default:
		return fmt.Sprint(t)
	}
}

// Time returns the field as a time.Time, with ok=false when the field holds
// anything else.
func (r Record) Time(field string) (time.Time, bool) {
	t, ok := r[field].(time.Time)
	return t, ok
}

// Duration returns the field as a time.Duration, with ok=false when the field
// holds anything else. Time-of-day columns coerce to durations since midnight.
func (r Record) Duration(field string) (time.Duration, bool) {
	d, ok := r[field].(time.Duration)
	return d, ok
}

// Int returns the field as an int64, accepting the integer widths the coerce
// stage may produce.
func (r Record) Int(field string) (int64, bool) {
	switch t := r[field].(type) {
	case int:
		return int64(t), true
	case int64:
		return t, true
	case float64:
		if t == float64(int64(t)) {
			return int64(t), true
		}
	}
	return 0, false
}

// Bool returns the field as a bool, with ok=false for any other type.
func (r Record) Bool(field string) (bool, bool) {
	b, ok := r[field].(bool)
	return b, ok
}
