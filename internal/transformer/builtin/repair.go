package builtin

import (
	"casepipe/internal/schema"
	"casepipe/pkg/records"
)

// Repair remaps known-corrupt tokens declared on contract fields (for
// example, the shooting extract's age-group tokens "1022" and "224"). The
// remap runs strictly before enum assignment in Coerce, and is idempotent:
// repaired values are members of the target domain and never match a corrupt
// token again.
type Repair struct {
	Contract schema.Contract
}

func (t Repair) Apply(in []records.Record) ([]records.Record, error) {
	var fields []schema.Field
	for _, f := range t.Contract.Fields {
		if len(f.Repairs) > 0 {
			fields = append(fields, f)
		}
	}
	if len(fields) == 0 {
		return in, nil
	}
	for _, r := range in {
		for _, f := range fields {
			s, ok := r[f.Name].(string)
			if !ok {
				continue
			}
			if repaired, hit := f.Repairs[s]; hit {
				r[f.Name] = repaired
			}
		}
	}
	return in, nil
}
