// Package aggregate groups cleaned records and long-format observations into
// the buckets consumed by charting and modeling. Buckets are produced fresh
// per query and never persisted.
package aggregate

import (
	"sort"
	"strconv"
	"time"

	"casepipe/internal/reshape"
	"casepipe/pkg/records"
)

// Bucket is one aggregated group: a grouping key plus a derived measure
// (count of underlying rows, or summed observation value).
type Bucket struct {
	Key   string
	Value int64
}

// RecordKey extracts a grouping key from a cleaned record. Multi-dimension
// keys are built with Join.
type RecordKey func(records.Record) string

// ObservationKey extracts a grouping key from an observation.
type ObservationKey func(reshape.Observation) string

// Join combines dimension values into one composite key.
func Join(dims ...string) string {
	out := ""
	for i, d := range dims {
		if i > 0 {
			out += "|"
		}
		out += d
	}
	return out
}

// CountBy counts records per key. Buckets come back sorted by key for
// deterministic output.
func CountBy(in []records.Record, key RecordKey) []Bucket {
	counts := map[string]int64{}
	for _, r := range in {
		counts[key(r)]++
	}
	return sorted(counts)
}

// SumBy sums observation values per key.
func SumBy(obs []reshape.Observation, key ObservationKey) []Bucket {
	sums := map[string]int64{}
	for _, o := range obs {
		sums[key(o)] += o.Value
	}
	return sorted(sums)
}

func sorted(m map[string]int64) []Bucket {
	out := make([]Bucket, 0, len(m))
	for k, v := range m {
		out = append(out, Bucket{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// --- canned dimensions --------------------------------------------------------

// ByField keys records on the string form of one column.
func ByField(field string) RecordKey {
	return func(r records.Record) string { return r.String(field) }
}

// ByYear keys records on the year of a date column.
func ByYear(field string) RecordKey {
	return func(r records.Record) string {
		if t, ok := r.Time(field); ok {
			return strconv.Itoa(t.Year())
		}
		return ""
	}
}

// ByHour keys records on the hour of a time-of-day column (a duration since
// midnight), zero-padded so buckets sort chronologically.
func ByHour(field string) RecordKey {
	return func(r records.Record) string {
		if d, ok := r.Duration(field); ok {
			h := int(d / time.Hour)
			if h < 10 {
				return "0" + strconv.Itoa(h)
			}
			return strconv.Itoa(h)
		}
		return ""
	}
}

// ByCategory, ByEntity, and ByDate key observations on their respective
// dimensions.
func ByCategory(o reshape.Observation) string { return o.Category }
func ByEntity(o reshape.Observation) string   { return o.Entity }
func ByDate(o reshape.Observation) string     { return o.Date.Format("2006-01-02") }

// EntityMax is the running maximum of a cumulative series for one entity.
type EntityMax struct {
	Entity   string
	MaxValue int64
}

// TopEntities returns the n entities with the highest observed cumulative
// value within a category, descending, ties broken by lexical entity order.
//
// The true running maximum over all observations is used, never the last
// value: input ordering is not assumed, and for a series with downward
// corrections latest-value and running-maximum semantics diverge. Callers
// that need latest-value semantics must not use this query.
func TopEntities(obs []reshape.Observation, category string, n int) []EntityMax {
	maxes := map[string]int64{}
	for _, o := range obs {
		if o.Category != category {
			continue
		}
		if cur, ok := maxes[o.Entity]; !ok || o.Value > cur {
			maxes[o.Entity] = o.Value
		}
	}
	out := make([]EntityMax, 0, len(maxes))
	for e, v := range maxes {
		out = append(out, EntityMax{Entity: e, MaxValue: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MaxValue != out[j].MaxValue {
			return out[i].MaxValue > out[j].MaxValue
		}
		return out[i].Entity < out[j].Entity
	})
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
