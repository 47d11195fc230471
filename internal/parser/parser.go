// Package parser defines how raw dataset bytes become records.
package parser

import (
	"io"

	"casepipe/pkg/records"
)

// Parser consumes a byte stream and returns the parsed records plus the
// number of rows skipped for structural reasons (ragged width, unparseable
// lines). Field-level parse failures are not the parser's concern; the
// coerce stage owns those.
type Parser interface {
	Parse(r io.Reader) ([]records.Record, int, error)
}
