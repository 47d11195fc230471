// Package reshape pivots the wide Johns-Hopkins layout (one row per entity,
// one column per date) into the canonical long format used by all downstream
// aggregation: one Observation per (entity, date, category).
package reshape

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"casepipe/internal/schema"
	"casepipe/pkg/records"
)

// Observation is one point of a cumulative case series.
type Observation struct {
	// Entity identifies the series: "<country>" or "<country> - <subregion>"
	// when the province/state cell is non-empty.
	Entity string

	// Date is the observation date at UTC midnight.
	Date time.Time

	// Category is one of schema.Categories (Confirmed, Deaths, Recovered).
	Category string

	// Value is the cumulative count. Source rows sharing the same
	// (entity, date, category) key are summed, never overwritten.
	Value int64
}

// Key identifies one observation series point.
type Key struct {
	Entity   string
	Date     time.Time
	Category string
}

// Reshaper pivots wide records into long observations for one category.
type Reshaper struct {
	// Category labels every emitted observation; it is supplied per source
	// file, not read from the data.
	Category string
}

// Reshape emits one Observation per entity row per recognized date column,
// then merges duplicate keys by summation (the source carries multiple
// sub-national rows per country per date). Output ordering is deterministic:
// entity, then date, then category.
//
// Column headers that do not match the date pattern are silently skipped;
// they are metadata, not data. A recognized date column whose cell fails
// integer parsing is source-schema drift and fails the load.
func (p Reshaper) Reshape(in []records.Record) ([]Observation, error) {
	if !schema.ValidCategory(p.Category) {
		return nil, fmt.Errorf("reshape: unknown category %q", p.Category)
	}

	var out []Observation
	for _, r := range in {
		entity := entityName(r)
		for col, v := range r {
			if !schema.IsDateColumn(col) {
				continue
			}
			date, err := time.Parse(schema.DateColumnLayout, col)
			if err != nil {
				// Pattern-matched but unparseable (e.g. month 13): treat as
				// metadata, same as a non-matching header.
				continue
			}
			value, err := cellValue(v)
			if err != nil {
				return nil, &schema.MalformedFieldError{
					Dataset: "cases",
					RowKey:  entity,
					Column:  col,
					Value:   fmt.Sprint(v),
					Err:     err,
				}
			}
			out = append(out, Observation{
				Entity:   entity,
				Date:     date.UTC(),
				Category: p.Category,
				Value:    value,
			})
		}
	}
	return MergeSum(out), nil
}

// MergeSum collapses observations sharing the same (entity, date, category)
// key by summing their values. It is safe to re-merge already-merged output;
// merging is associative, so reshaping the same table twice and merging both
// outputs doubles every value.
func MergeSum(obs []Observation) []Observation {
	sums := make(map[Key]int64, len(obs))
	for _, o := range obs {
		sums[Key{o.Entity, o.Date, o.Category}] += o.Value
	}
	out := make([]Observation, 0, len(sums))
	for k, v := range sums {
		out = append(out, Observation{Entity: k.Entity, Date: k.Date, Category: k.Category, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Entity != out[j].Entity {
			return out[i].Entity < out[j].Entity
		}
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// entityName applies the naming rule: country, suffixed with " - <subregion>"
// when the province/state cell is non-empty.
func entityName(r records.Record) string {
	country := r.String(schema.ColCountryRegion)
	if sub := r.String(schema.ColProvinceState); sub != "" {
		return country + " - " + sub
	}
	return country
}

// cellValue parses a wide-table cell into a cumulative count. Empty cells
// count as zero (the series had not started); decimal representations of
// whole numbers are accepted.
func cellValue(v any) (int64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case int64:
		return t, nil
	case int:
		return int64(t), nil
	case float64:
		if t == float64(int64(t)) {
			return int64(t), nil
		}
		return 0, fmt.Errorf("fractional count %v", t)
	case string:
		if t == "" {
			return 0, nil
		}
		i, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("not an integer count")
		}
		return i, nil
	default:
		return 0, fmt.Errorf("unsupported cell type %T", v)
	}
}
