package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"casepipe/internal/aggregate"
	"casepipe/internal/config"
	"casepipe/internal/metrics"
	"casepipe/internal/model"
	"casepipe/internal/schema"
	"casepipe/internal/storage"
	"casepipe/internal/transformer/builtin"
	"casepipe/pkg/records"
)

// runShootings executes the incident-level pipeline: one snapshot in, cleaned
// incident rows out, with breakdown aggregations, optional persistence, and
// an optional fatality classifier.
func (r *Runner) runShootings(ctx context.Context, p config.Pipeline) (*Summary, error) {
	sum := &Summary{Job: p.Job, Dataset: p.Dataset}
	if len(p.Sources) != 1 {
		return nil, fmt.Errorf("shootings pipeline takes exactly one source, got %d", len(p.Sources))
	}

	data, location, fingerprint, err := r.fetch(ctx, p.Job, p.Sources[0])
	if err != nil {
		return nil, err
	}

	start := time.Now()
	recs, skipped, err := newParser(p.Parser).Parse(bytes.NewReader(data))
	metrics.RecordStep(p.Job, "parse", err, time.Since(start))
	if err != nil {
		return nil, err
	}
	metrics.RecordRows(p.Job, "parsed", int64(len(recs)))
	metrics.RecordRows(p.Job, "skipped", int64(skipped))
	sum.Sources = append(sum.Sources, SourceSummary{
		Location:    location,
		Fingerprint: fingerprint,
		Parsed:      len(recs),
		Skipped:     skipped,
	})

	cleaned, err := clean(p.Job, cleanChain(schema.Shootings()), recs)
	if err != nil {
		return nil, err
	}
	sum.Cleaned = len(cleaned)
	sum.Dropped = len(recs) - len(cleaned)
	if len(cleaned) == 0 {
		log.Printf("%s: warning: %v", p.Job, ErrEmptyAfterFiltering)
		sum.Warnings = append(sum.Warnings, ErrEmptyAfterFiltering.Error())
		return sum, nil
	}

	logIncidentBreakdowns(p.Job, cleaned)

	if p.Storage.Kind != "" {
		rows := make([][]any, len(cleaned))
		for i, rec := range cleaned {
			rows[i] = incidentRow(rec)
		}
		stored, err := store(ctx, p.Job, p.Storage, incidentColumns, rows)
		if err != nil {
			return nil, err
		}
		sum.Stored = stored
	}

	if p.Model.Enabled {
		start := time.Now()
		report, err := fitFatalityModel(p.Model, cleaned)
		metrics.RecordStep(p.Job, "model", err, time.Since(start))
		if err != nil {
			return nil, err
		}
		log.Printf("%s: fatality model: accuracy %.3f on %d held-out rows", p.Job, report.Accuracy, report.TestRows)
		sum.Model = report
	}
	return sum, nil
}

// logIncidentBreakdowns computes and logs the standard incident groupings.
func logIncidentBreakdowns(job string, recs []records.Record) {
	start := time.Now()
	byBoro := aggregate.CountBy(recs, aggregate.ByField(schema.ColBorough))
	byYear := aggregate.CountBy(recs, aggregate.ByYear(schema.ColOccurDate))
	byHour := aggregate.CountBy(recs, aggregate.ByHour(schema.ColOccurTime))
	byVicAge := aggregate.CountBy(recs, aggregate.ByField(schema.ColVicAgeGroup))
	metrics.RecordStep(job, "aggregate", nil, time.Since(start))

	log.Printf("%s: incidents by borough: %v", job, byBoro)
	log.Printf("%s: incidents by year: %v", job, byYear)
	log.Printf("%s: incidents by hour: %v", job, byHour)
	log.Printf("%s: incidents by victim age group: %v", job, byVicAge)
}

// incidentColumns is the persisted shape of a cleaned incident.
var incidentColumns = []storage.Column{
	{Name: "incident_key", Type: storage.TypeInteger, NotNull: true},
	{Name: "occur_date", Type: storage.TypeDate, NotNull: true},
	{Name: "occur_time", Type: storage.TypeText, NotNull: true},
	{Name: "boro", Type: storage.TypeText, NotNull: true},
	{Name: "precinct", Type: storage.TypeInteger},
	{Name: "jurisdiction_code", Type: storage.TypeInteger, NotNull: true},
	{Name: "statistical_murder_flag", Type: storage.TypeBool, NotNull: true},
	{Name: "perp_age_group", Type: storage.TypeText},
	{Name: "perp_sex", Type: storage.TypeText},
	{Name: "perp_race", Type: storage.TypeText},
	{Name: "vic_age_group", Type: storage.TypeText},
	{Name: "vic_sex", Type: storage.TypeText},
	{Name: "vic_race", Type: storage.TypeText},
	{Name: "latitude", Type: storage.TypeReal},
	{Name: "longitude", Type: storage.TypeReal},
}

// incidentRow flattens a cleaned record into the column order of
// incidentColumns. Dates and times-of-day become ISO-style strings so the
// same row shape loads into every backend.
func incidentRow(r records.Record) []any {
	var dateStr, timeStr any
	if t, ok := r.Time(schema.ColOccurDate); ok {
		dateStr = t.Format("2006-01-02")
	}
	if d, ok := r.Duration(schema.ColOccurTime); ok {
		timeStr = clockString(d)
	}
	return []any{
		r[schema.ColIncidentKey],
		dateStr,
		timeStr,
		r[schema.ColBorough],
		r[schema.ColPrecinct],
		r[schema.ColJurisdictionCode],
		r[schema.ColMurderFlag],
		r[schema.ColPerpAgeGroup],
		r[schema.ColPerpSex],
		r[schema.ColPerpRace],
		r[schema.ColVicAgeGroup],
		r[schema.ColVicSex],
		r[schema.ColVicRace],
		r[schema.ColLatitude],
		r[schema.ColLongitude],
	}
}

// clockString renders a duration since midnight as HH:MM:SS.
func clockString(d time.Duration) string {
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	s := (d % time.Minute) / time.Second
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// fatalityPredictors are the one-hot encoded inputs of the baseline
// classifier; the murder flag is the label.
var fatalityPredictors = []string{
	schema.ColVicAgeGroup,
	schema.ColVicSex,
	schema.ColVicRace,
	schema.ColBorough,
}

// fitFatalityModel trains the baseline logistic classifier on a deterministic
// train/test split and reports held-out accuracy. Rows incomplete for
// modeling are excluded up front; the design builder treats a missing cell as
// an error, not something to impute.
func fitFatalityModel(cfg config.Model, recs []records.Record) (*ModelReport, error) {
	needed := append([]string{schema.ColMurderFlag}, fatalityPredictors...)
	complete, err := builtin.Require{Fields: needed}.Apply(recs)
	if err != nil {
		return nil, err
	}
	if len(complete) == 0 {
		return nil, fmt.Errorf("model: no rows complete for modeling")
	}

	m, err := model.BuildDesign(complete, schema.ColMurderFlag, fatalityPredictors)
	if err != nil {
		return nil, err
	}
	ratio := cfg.TestRatio
	if ratio == 0 {
		ratio = 0.2
	}
	train, test, err := m.Split(ratio, cfg.Seed)
	if err != nil {
		return nil, err
	}

	clf := model.NewLogisticRegression()
	if err := clf.Fit(train); err != nil {
		return nil, err
	}
	preds := make([]float64, test.Rows())
	for i, x := range test.X {
		preds[i] = clf.Predict(x)
	}
	return &ModelReport{
		TrainRows: train.Rows(),
		TestRows:  test.Rows(),
		Accuracy:  model.Accuracy(preds, test.Y),
		Features:  m.FeatureNames,
	}, nil
}
