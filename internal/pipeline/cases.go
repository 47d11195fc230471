package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"casepipe/internal/aggregate"
	"casepipe/internal/config"
	"casepipe/internal/metrics"
	"casepipe/internal/model"
	"casepipe/internal/reshape"
	"casepipe/internal/schema"
	"casepipe/internal/storage"
)

// forecastHorizon is how many days past the end of the series the trend
// extrapolation covers.
const forecastHorizon = 7

// runCases executes the time-series pipeline: one wide snapshot per category
// in, merged long-format observations out, with top-entity rankings, a trend
// extrapolation, and optional persistence.
func (r *Runner) runCases(ctx context.Context, p config.Pipeline) (*Summary, error) {
	sum := &Summary{Job: p.Job, Dataset: p.Dataset}
	if len(p.Sources) == 0 {
		return nil, fmt.Errorf("cases pipeline needs at least one source")
	}

	chain := cleanChain(schema.CaseSeries())
	parser := newParser(p.Parser)

	var all []reshape.Observation
	for _, src := range p.Sources {
		data, location, fingerprint, err := r.fetch(ctx, p.Job, src)
		if err != nil {
			return nil, err
		}

		start := time.Now()
		recs, skipped, err := parser.Parse(bytes.NewReader(data))
		metrics.RecordStep(p.Job, "parse", err, time.Since(start))
		if err != nil {
			return nil, err
		}
		metrics.RecordRows(p.Job, "parsed", int64(len(recs)))
		metrics.RecordRows(p.Job, "skipped", int64(skipped))
		sum.Sources = append(sum.Sources, SourceSummary{
			Location:    location,
			Category:    src.Category,
			Fingerprint: fingerprint,
			Parsed:      len(recs),
			Skipped:     skipped,
		})

		cleaned, err := clean(p.Job, chain, recs)
		if err != nil {
			return nil, err
		}
		sum.Cleaned += len(cleaned)
		sum.Dropped += len(recs) - len(cleaned)
		if len(cleaned) == 0 {
			log.Printf("%s: warning: %s source %s: %v", p.Job, src.Category, location, ErrEmptyAfterFiltering)
			sum.Warnings = append(sum.Warnings, fmt.Sprintf("%s: %v", src.Category, ErrEmptyAfterFiltering))
			continue
		}

		start = time.Now()
		obs, err := reshape.Reshaper{Category: src.Category}.Reshape(cleaned)
		metrics.RecordStep(p.Job, "reshape", err, time.Since(start))
		if err != nil {
			return nil, err
		}
		all = append(all, obs...)
	}

	merged := reshape.MergeSum(all)
	sum.Observations = len(merged)
	metrics.RecordRows(p.Job, "observations", int64(len(merged)))
	if len(merged) == 0 {
		log.Printf("%s: warning: %v", p.Job, ErrEmptyAfterFiltering)
		sum.Warnings = append(sum.Warnings, ErrEmptyAfterFiltering.Error())
		return sum, nil
	}

	logCaseBreakdowns(p.Job, merged)

	if p.Storage.Kind != "" {
		rows := make([][]any, len(merged))
		for i, o := range merged {
			rows[i] = []any{o.Entity, o.Date.Format("2006-01-02"), o.Category, o.Value}
		}
		stored, err := store(ctx, p.Job, p.Storage, observationColumns, rows)
		if err != nil {
			return nil, err
		}
		sum.Stored = stored
	}
	return sum, nil
}

// logCaseBreakdowns ranks entities and extrapolates the confirmed-case trend.
func logCaseBreakdowns(job string, obs []reshape.Observation) {
	start := time.Now()
	top := aggregate.TopEntities(obs, schema.CategoryConfirmed, 10)
	byCategory := aggregate.SumBy(obs, aggregate.ByCategory)
	metrics.RecordStep(job, "aggregate", nil, time.Since(start))

	log.Printf("%s: top confirmed entities: %v", job, top)
	log.Printf("%s: observation totals by category: %v", job, byCategory)

	if fc := trendForecast(obs, schema.CategoryConfirmed); fc != nil {
		log.Printf("%s: confirmed trend, next %d days: %v", job, forecastHorizon, fc)
	}
}

// trendForecast fits a linear trend to the global daily totals of one
// category and extrapolates it. Returns nil when the series is too short or
// degenerate to fit.
func trendForecast(obs []reshape.Observation, category string) []float64 {
	daily := map[time.Time]int64{}
	for _, o := range obs {
		if o.Category == category {
			daily[o.Date] += o.Value
		}
	}
	if len(daily) < 2 {
		return nil
	}
	dates := make([]time.Time, 0, len(daily))
	for d := range daily {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	series := make([]float64, len(dates))
	for i, d := range dates {
		series[i] = float64(daily[d])
	}

	var trend model.LinearTrend
	if err := trend.Fit(series); err != nil {
		return nil
	}
	return trend.Forecast(forecastHorizon)
}

// observationColumns is the persisted shape of a long-format observation.
var observationColumns = []storage.Column{
	{Name: "entity", Type: storage.TypeText, NotNull: true},
	{Name: "date", Type: storage.TypeDate, NotNull: true},
	{Name: "category", Type: storage.TypeText, NotNull: true},
	{Name: "value", Type: storage.TypeInteger, NotNull: true},
}
