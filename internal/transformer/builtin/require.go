package builtin

import "casepipe/pkg/records"

// Require discards any record missing a value for one of the named columns.
// Row count through this stage only ever decreases. Whether an empty result
// is worth a warning is the pipeline's call, not this stage's.
type Require struct {
	Fields []string
}

func (q Require) Apply(in []records.Record) ([]records.Record, error) {
	if len(q.Fields) == 0 {
		return in, nil
	}
	out := make([]records.Record, 0, len(in))
	for _, r := range in {
		keep := true
		for _, f := range q.Fields {
			if r.IsMissing(f) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, r)
		}
	}
	return out, nil
}
