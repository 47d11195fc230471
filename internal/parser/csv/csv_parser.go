// Package csv parses dataset CSV snapshots into records. Headers are
// canonicalized (BOM stripped, Unicode-normalized, zero-width characters
// removed) so that column lookups against the static contracts survive
// source-side encoding drift.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"casepipe/pkg/records"
)

// Options configures the CSV parser. Zero values get sensible defaults.
type Options struct {
	// Comma is the field delimiter; ',' when zero.
	Comma rune

	// TrimSpace trims surrounding ASCII spaces from each field value.
	TrimSpace bool

	// HeaderMap maps canonicalized source header names to contract column
	// names, for sources whose headers drift from the documented schema.
	HeaderMap map[string]string
}

// Parser parses CSV input according to Options. It is safe to reuse across
// inputs but is not concurrency-safe.
type Parser struct{ opt Options }

// NewParser constructs a Parser with the provided Options.
func NewParser(opt Options) *Parser { return &Parser{opt: opt} }

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// headerScrubber normalizes headers to NFC and removes zero-width/format
// runes that occasionally leak into exported CSVs.
var headerScrubber = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Cf)), norm.NFC)

// Parse reads all records from r. Rows whose width differs from the header
// are skipped (soft-fail) and counted; the caller decides whether the skip
// count is acceptable. Empty cells become nil so the missing-value policy
// has a single representation to work with.
func (p *Parser) Parse(r io.Reader) ([]records.Record, int, error) {
	cr := csv.NewReader(r)
	if p.opt.Comma != 0 {
		cr.Comma = p.opt.Comma
	}
	cr.FieldsPerRecord = -1 // enforce width ourselves, after header mapping
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	h, err := cr.Read()
	if err != nil {
		return nil, 0, fmt.Errorf("read csv header: %w", err)
	}
	headers := p.canonicalHeaders(h)

	var (
		out     []records.Record
		skipped int
	)
	for line := 1; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("csv: skipping row %d: %v", line, err)
			skipped++
			continue
		}
		if len(row) != len(headers) {
			log.Printf("csv: skipping row %d: want %d fields, got %d", line, len(headers), len(row))
			skipped++
			continue
		}
		rec := make(records.Record, len(row))
		for i, val := range row {
			if p.opt.TrimSpace {
				val = strings.TrimSpace(val)
			}
			if val == "" {
				rec[headers[i]] = nil
			} else {
				rec[headers[i]] = val
			}
		}
		out = append(out, rec)
	}
	return out, skipped, nil
}

// canonicalHeaders strips the BOM, scrubs encoding artifacts, and applies the
// HeaderMap. Header case is preserved: the dataset contracts use the source's
// documented column names verbatim.
func (p *Parser) canonicalHeaders(h []string) []string {
	res := make([]string, len(h))
	for i, col := range h {
		c := strings.TrimSpace(col)
		if i == 0 {
			c = strings.TrimPrefix(c, utf8BOM)
		}
		if scrubbed, _, err := transform.String(headerScrubber, c); err == nil {
			c = scrubbed
		}
		if p.opt.HeaderMap != nil {
			if mapped, ok := p.opt.HeaderMap[c]; ok && mapped != "" {
				c = mapped
			}
		}
		res[i] = c
	}
	return res
}
