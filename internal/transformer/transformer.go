// Package transformer defines the stage contract for the cleaning pipeline.
//
// Each stage takes an input snapshot and returns a new output snapshot; a
// stage never mutates shared state outside the records it was handed. Stages
// that detect source-schema drift (see builtin.Coerce) return an error, which
// fails the whole dataset load: cleaning is all-or-nothing per dataset.
package transformer

import "casepipe/pkg/records"

// Transformer is a single cleaning stage.
type Transformer interface {
	Apply(in []records.Record) ([]records.Record, error)
}

// Chain is an ordered list of transformers applied left to right. The first
// error aborts the chain.
type Chain []Transformer

func (c Chain) Apply(in []records.Record) ([]records.Record, error) {
	out := in
	var err error
	for _, t := range c {
		out, err = t.Apply(out)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
