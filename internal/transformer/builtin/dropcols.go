package builtin

import "casepipe/pkg/records"

// DropColumns removes the named columns from every record. Dropped columns
// never reappear downstream.
type DropColumns struct {
	Fields []string
}

func (d DropColumns) Apply(in []records.Record) ([]records.Record, error) {
	if len(d.Fields) == 0 {
		return in, nil
	}
	for _, r := range in {
		for _, f := range d.Fields {
			delete(r, f)
		}
	}
	return in, nil
}
