package builtin

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"casepipe/internal/schema"
	"casepipe/pkg/records"
)

// Coerce applies the contract's per-column typing to raw string cells:
// dates parse with the field layout, time-of-day cells become durations since
// midnight, numerics become int64 (or float64 when fractional), booleans use
// the usual vocabulary, and categorical values outside their enum collapse to
// the Unknown sentinel.
//
// A date, time, numeric, or boolean cell that fails to parse signals a
// *schema.MalformedFieldError and fails the whole load: an unparseable field
// means the source schema changed, and partial-row recovery would silently
// skew every downstream aggregate. Missing (nil) cells are left for the
// missing-value policy stages.
type Coerce struct {
	Contract schema.Contract
}

func (c Coerce) Apply(in []records.Record) ([]records.Record, error) {
	// Precompute enum sets once per batch.
	type fieldPlan struct {
		schema.Field
		enumSet map[string]struct{}
	}
	plans := make([]fieldPlan, 0, len(c.Contract.Fields))
	for _, f := range c.Contract.Fields {
		if f.Role == schema.RoleDrop || f.Role == schema.RoleText {
			continue
		}
		p := fieldPlan{Field: f}
		if len(f.Enum) > 0 {
			p.enumSet = make(map[string]struct{}, len(f.Enum))
			for _, e := range f.Enum {
				p.enumSet[e] = struct{}{}
			}
		}
		plans = append(plans, p)
	}

	for _, r := range in {
		for _, p := range plans {
			v, ok := r[p.Name]
			if !ok || v == nil {
				continue
			}
			s, isStr := v.(string)
			if !isStr {
				// Already coerced (idempotent re-apply).
				continue
			}
			switch p.Role {
			case schema.RoleDate:
				t, err := time.Parse(p.Layout, s)
				if err != nil {
					return nil, c.malformed(r, p.Name, s, err)
				}
				r[p.Name] = t

			case schema.RoleTime:
				d, err := parseClock(s, p.Layout)
				if err != nil {
					return nil, c.malformed(r, p.Name, s, err)
				}
				r[p.Name] = d

			case schema.RoleNumeric:
				if i, err := strconv.ParseInt(s, 10, 64); err == nil {
					r[p.Name] = i
					break
				}
				f, err := strconv.ParseFloat(s, 64)
				if err != nil {
					return nil, c.malformed(r, p.Name, s, err)
				}
				r[p.Name] = f

			case schema.RoleBool:
				b, err := parseBool(s)
				if err != nil {
					return nil, c.malformed(r, p.Name, s, err)
				}
				r[p.Name] = b

			case schema.RoleCategorical:
				// Out-of-domain values are not rejected; they become Unknown.
				if p.enumSet != nil {
					if _, member := p.enumSet[s]; !member {
						r[p.Name] = schema.Unknown
					}
				}
			}
		}
	}
	return in, nil
}

func (c Coerce) malformed(r records.Record, column, value string, err error) error {
	return &schema.MalformedFieldError{
		Dataset: c.Contract.Name,
		RowKey:  r.String(c.Contract.KeyField),
		Column:  column,
		Value:   value,
		Err:     err,
	}
}

// parseClock parses a time-of-day string into the duration since midnight.
func parseClock(s, layout string) (time.Duration, error) {
	if layout == "" {
		layout = "15:04:05"
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second, nil
}

// parseBool accepts the usual truthy/falsy vocabulary, case-insensitively.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "t", "true", "yes", "y":
		return true, nil
	case "0", "f", "false", "no", "n":
		return false, nil
	default:
		return false, fmt.Errorf("not a recognized boolean")
	}
}
