// Package pipeline orchestrates the dataset runs: fetch, parse, clean,
// reshape (cases only), aggregate, persist, and optionally model. Each stage
// is timed and counted through the metrics package; a run produces a Summary
// describing what happened to every row.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"casepipe/internal/config"
	"casepipe/internal/datasource"
	"casepipe/internal/datasource/file"
	"casepipe/internal/datasource/httpds"
	"casepipe/internal/metrics"
	"casepipe/internal/parser/csv"
	"casepipe/internal/schema"
	"casepipe/internal/transformer"
	"casepipe/internal/transformer/builtin"
	"casepipe/pkg/records"
)

// Runner executes configured pipelines. The zero value is usable; HTTP is
// lazily defaulted.
type Runner struct {
	// HTTP is the shared retrying client for "http" sources. Nil gets a
	// default client.
	HTTP *httpds.Client
}

// New returns a Runner sharing the given HTTP client across sources.
func New(client *httpds.Client) *Runner { return &Runner{HTTP: client} }

// SourceSummary describes what happened to one input snapshot.
type SourceSummary struct {
	// Location is the URL or path the snapshot came from.
	Location string

	// Category is the observation category for cases sources; empty for
	// shootings.
	Category string

	// Fingerprint is the xxh3 digest of the raw snapshot bytes, for
	// detecting upstream changes between runs.
	Fingerprint string

	// Parsed and Skipped count data rows read and ragged rows discarded.
	Parsed  int
	Skipped int
}

// ModelReport summarizes the optional fatality-model stage.
type ModelReport struct {
	TrainRows int
	TestRows  int
	Accuracy  float64
	Features  []string
}

// Summary is the outcome of one pipeline run.
type Summary struct {
	Job     string
	Dataset string
	Sources []SourceSummary

	// Cleaned counts rows surviving the cleaning chain; Dropped counts rows
	// the chain removed.
	Cleaned int
	Dropped int

	// Observations counts merged long-format points (cases dataset only).
	Observations int

	// Stored counts rows persisted to the configured sink.
	Stored int64

	// Warnings holds non-fatal conditions, e.g. an empty result after
	// cleaning.
	Warnings []string

	Model *ModelReport
}

// Run executes one configured pipeline. Malformed fields and fetch failures
// are fatal to the run; an empty post-cleaning result is recorded as a
// warning instead.
func (r *Runner) Run(ctx context.Context, p config.Pipeline) (*Summary, error) {
	switch p.Dataset {
	case config.DatasetShootings:
		return r.runShootings(ctx, p)
	case config.DatasetCases:
		return r.runCases(ctx, p)
	default:
		return nil, fmt.Errorf("pipeline %q: unknown dataset %q", p.Job, p.Dataset)
	}
}

// RunAll executes pipelines concurrently, one goroutine each, and returns
// their summaries in input order. The first fatal error cancels the rest.
func (r *Runner) RunAll(ctx context.Context, pipes []config.Pipeline) ([]*Summary, error) {
	summaries := make([]*Summary, len(pipes))
	g, ctx := errgroup.WithContext(ctx)
	for i, p := range pipes {
		i, p := i, p
		g.Go(func() error {
			s, err := r.Run(ctx, p)
			if err != nil {
				return fmt.Errorf("pipeline %q: %w", p.Job, err)
			}
			summaries[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}

// source maps a config source onto a datasource implementation.
func (r *Runner) source(s config.Source) (datasource.Source, string, error) {
	switch s.Kind {
	case "http":
		return httpds.Source{Client: r.HTTP, URL: s.URL}, s.URL, nil
	case "file":
		return file.Source{Path: s.Path}, s.Path, nil
	default:
		return nil, "", fmt.Errorf("unknown source kind %q", s.Kind)
	}
}

// fetch retrieves one snapshot in full and fingerprints it. The datasets are
// daily extracts of bounded size, so buffering beats streaming complexity.
func (r *Runner) fetch(ctx context.Context, job string, s config.Source) (data []byte, location, fingerprint string, err error) {
	start := time.Now()
	defer func() { metrics.RecordStep(job, "fetch", err, time.Since(start)) }()

	src, location, err := r.source(s)
	if err != nil {
		return nil, location, "", err
	}
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, location, "", err
	}
	defer rc.Close()

	data, err = io.ReadAll(rc)
	if err != nil {
		return nil, location, "", &httpds.FetchError{URL: location, Err: err}
	}
	return data, location, fmt.Sprintf("%016x", xxh3.Hash(data)), nil
}

// newParser builds the CSV parser from pipeline options. Trimming defaults
// on: both datasets carry stray whitespace.
func newParser(p config.Parser) *csv.Parser {
	return csv.NewParser(csv.Options{
		Comma:     p.Options.Rune("comma", ','),
		TrimSpace: p.Options.Bool("trim_space", true),
		HeaderMap: p.Options.StringMap("header_map"),
	})
}

// cleanChain is the canonical cleaning order. Repair runs before Coerce so
// corrupt tokens are remapped before enum assignment; FillUnknown runs before
// Require so fill-policy columns can never cause a row drop.
func cleanChain(c schema.Contract) transformer.Chain {
	return transformer.Chain{
		builtin.Normalize{},
		builtin.DropColumns{Fields: c.DroppedColumns()},
		builtin.Repair{Contract: c},
		builtin.Coerce{Contract: c},
		builtin.FillUnknown{Fields: c.FillColumns()},
		builtin.Require{Fields: c.RequiredColumns()},
	}
}

// clean runs the chain with step metrics and row accounting.
func clean(job string, chain transformer.Chain, in []records.Record) ([]records.Record, error) {
	start := time.Now()
	out, err := chain.Apply(in)
	metrics.RecordStep(job, "clean", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	metrics.RecordRows(job, "cleaned", int64(len(out)))
	metrics.RecordRows(job, "dropped", int64(len(in)-len(out)))
	return out, nil
}
