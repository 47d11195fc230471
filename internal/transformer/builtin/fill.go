package builtin

import (
	"casepipe/internal/schema"
	"casepipe/pkg/records"
)

// FillUnknown replaces missing cells in the named columns with the Unknown
// sentinel. It must run before Require: a filled column can never trigger a
// row drop.
type FillUnknown struct {
	Fields []string
}

func (f FillUnknown) Apply(in []records.Record) ([]records.Record, error) {
	for _, r := range in {
		for _, field := range f.Fields {
			if r.IsMissing(field) {
				r[field] = schema.Unknown
			}
		}
	}
	return in, nil
}
