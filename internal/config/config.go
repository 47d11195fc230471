// Package config defines the canonical, JSON-serializable configuration model
// for the analysis pipelines. It is intentionally small and explicit so that
// pipeline definitions can be loaded from disk and passed through the program
// without additional glue code.
//
// Example (trimmed):
//
//	{
//	  "job": "covid",
//	  "dataset": "cases",
//	  "sources": [
//	    { "kind": "http", "url": "https://.../confirmed.csv", "category": "Confirmed" },
//	    { "kind": "http", "url": "https://.../deaths.csv",    "category": "Deaths" }
//	  ],
//	  "parser":  { "options": { "trim_space": true } },
//	  "storage": { "kind": "sqlite", "db": { "dsn": "cases.db", "table": "observations" } }
//	}
package config

import "encoding/json"

// Dataset kinds understood by the pipeline.
const (
	DatasetShootings = "shootings"
	DatasetCases     = "cases"
)

// File holds one or more Pipeline definitions.
type File struct {
	Pipelines []Pipeline `json:"pipelines"`
}

// Pipeline describes one dataset run.
type Pipeline struct {
	// Job identifies the run in logs and metrics labels.
	Job string `json:"job"`

	// Dataset selects the contract and pipeline shape: "shootings" or "cases".
	Dataset string `json:"dataset"`

	// Sources lists the input snapshots. The shootings dataset takes exactly
	// one; the cases dataset takes one per category (Confirmed, Deaths,
	// Recovered), each tagged with its Category.
	Sources []Source `json:"sources"`

	// Parser carries CSV parser options.
	Parser Parser `json:"parser"`

	// Storage optionally persists cleaned output; empty Kind disables it.
	Storage Storage `json:"storage"`

	// Model optionally configures the design-matrix split for the shootings
	// fatality model.
	Model Model `json:"model"`
}

// Source identifies one input snapshot.
type Source struct {
	// Kind selects the source implementation: "http" or "file".
	Kind string `json:"kind"`

	// URL is the fetch location for the "http" kind.
	URL string `json:"url"`

	// Path is the local path for the "file" kind.
	Path string `json:"path"`

	// Category labels the emitted observations for the cases dataset
	// (Confirmed, Deaths, Recovered). Unused for shootings.
	Category string `json:"category"`
}

// Parser selects CSV parsing options.
type Parser struct {
	// Options keys: comma (string), trim_space (bool), header_map (object).
	Options Options `json:"options"`
}

// Storage selects the sink used to persist cleaned output.
type Storage struct {
	// Kind selects the storage implementation ("sqlite", "postgres",
	// "mssql"); empty disables persistence.
	Kind string `json:"kind"`

	DB DBConfig `json:"db"`
}

// DBConfig configures the DB sink.
type DBConfig struct {
	// DSN is the backend connection string.
	DSN string `json:"dsn"`

	// Table is the destination table name.
	Table string `json:"table"`
}

// Model configures the deterministic design-matrix split.
type Model struct {
	// Enabled turns the fatality-model stage on for the shootings dataset.
	Enabled bool `json:"enabled"`

	// TestRatio is the held-out fraction; 0.2 when zero.
	TestRatio float64 `json:"test_ratio"`

	// Seed fixes the split permutation; runs with equal seeds produce equal
	// splits.
	Seed int64 `json:"seed"`
}

// Options is a small helper to fetch typed values from arbitrary JSON maps
// without introducing third-party configuration libraries. It performs only
// minimal type coercion and returns provided defaults when a key is absent or
// of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def. Useful for
// single-character settings such as a CSV delimiter.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// StringMap returns a map[string]string for key when the value is an object
// whose values are strings. Non-string values are ignored.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if v, ok := o[key]; ok {
		if m, ok := v.(map[string]any); ok {
			for k, vv := range m {
				if s, ok := vv.(string); ok {
					res[k] = s
				}
			}
		}
	}
	return res
}

// UnmarshalJSON decodes a missing or null "options" object to a non-nil,
// empty Options map, so call sites need no nil checks.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
