// Package schema declares the per-dataset column contracts consumed by the
// cleaning pipeline. A Contract fixes, for every source column, its role
// (date, time-of-day, categorical, numeric, boolean, text, or drop), the
// parse layout where one applies, the ordered categorical domain, and the
// missing-value policy. The two concrete datasets this module processes are
// declared in shootings.go and covid.go; nothing here infers schemas from
// data.
package schema

// Unknown is the canonical sentinel for missing or out-of-domain categorical
// values. Title case is used everywhere; source tokens such as "UNKNOWN" or
// "U" are normalized into it.
const Unknown = "Unknown"

// Role describes how a column is interpreted during coercion.
type Role string

const (
	// RoleDate parses the cell with the contract field's Layout into a
	// time.Time at UTC midnight.
	RoleDate Role = "date"

	// RoleTime parses a time-of-day cell ("HH:MM:SS") into a time.Duration
	// since midnight.
	RoleTime Role = "time"

	// RoleCategorical keeps the cell as a string; values outside the field's
	// Enum are replaced with Unknown rather than rejected.
	RoleCategorical Role = "categorical"

	// RoleNumeric parses the cell as int64, falling back to float64 for
	// decimal values.
	RoleNumeric Role = "numeric"

	// RoleBool parses the cell using the usual truthy/falsy vocabulary.
	RoleBool Role = "bool"

	// RoleText passes the cell through unchanged.
	RoleText Role = "text"

	// RoleDrop removes the column entirely before any other processing; a
	// dropped column never reappears downstream.
	RoleDrop Role = "drop"
)

// MissingPolicy selects what happens to a row whose cell is nil or empty.
type MissingPolicy string

const (
	// MissingKeep leaves the cell nil.
	MissingKeep MissingPolicy = "keep"

	// MissingFillUnknown replaces the cell with the Unknown sentinel. Fill
	// runs strictly before drop evaluation, so a filled column can never
	// trigger a row drop.
	MissingFillUnknown MissingPolicy = "fill_unknown"

	// MissingDropRow discards the whole row when the cell is missing.
	MissingDropRow MissingPolicy = "drop_row"
)

// Field describes a single contract column.
type Field struct {
	Name    string
	Role    Role
	Layout  string   // date/time parse layout, when Role needs one
	Enum    []string // ordered categorical domain, in display order
	Missing MissingPolicy
	Repairs map[string]string // pre-enum token remaps (known-corrupt values)
}

// Contract fixes the full column set of one dataset.
type Contract struct {
	// Name identifies the dataset in logs, metrics, and errors.
	Name string

	// KeyField names the column used to identify a row in MalformedField
	// errors. May be empty for keyless datasets.
	KeyField string

	Fields []Field
}

// Field returns the contract field with the given name, or nil.
func (c Contract) Field(name string) *Field {
	for i := range c.Fields {
		if c.Fields[i].Name == name {
			return &c.Fields[i]
		}
	}
	return nil
}

// DroppedColumns lists the columns marked RoleDrop.
func (c Contract) DroppedColumns() []string {
	var out []string
	for _, f := range c.Fields {
		if f.Role == RoleDrop {
			out = append(out, f.Name)
		}
	}
	return out
}

// FillColumns lists the columns whose missing policy is MissingFillUnknown.
func (c Contract) FillColumns() []string {
	var out []string
	for _, f := range c.Fields {
		if f.Missing == MissingFillUnknown {
			out = append(out, f.Name)
		}
	}
	return out
}

// RequiredColumns lists the columns whose missing policy is MissingDropRow.
func (c Contract) RequiredColumns() []string {
	var out []string
	for _, f := range c.Fields {
		if f.Missing == MissingDropRow {
			out = append(out, f.Name)
		}
	}
	return out
}
