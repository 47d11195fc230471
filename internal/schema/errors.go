package schema

import "fmt"

// MalformedFieldError reports a cell that failed to parse against its
// contract role. It indicates source-schema drift, so the policy is to fail
// the whole load rather than recover partial rows.
type MalformedFieldError struct {
	Dataset string
	RowKey  string // value of the contract KeyField, "" when unavailable
	Column  string
	Value   string
	Err     error
}

func (e *MalformedFieldError) Error() string {
	if e.RowKey != "" {
		return fmt.Sprintf("%s: malformed field %q (row %s): %q: %v",
			e.Dataset, e.Column, e.RowKey, e.Value, e.Err)
	}
	return fmt.Sprintf("%s: malformed field %q: %q: %v", e.Dataset, e.Column, e.Value, e.Err)
}

func (e *MalformedFieldError) Unwrap() error { return e.Err }
