package config

import (
	"strings"
	"testing"
)

func validShootings() Pipeline {
	return Pipeline{
		Job:     "nypd",
		Dataset: DatasetShootings,
		Sources: []Source{{Kind: "http", URL: "https://example.com/shootings.csv"}},
	}
}

func validCases() Pipeline {
	return Pipeline{
		Job:     "covid",
		Dataset: DatasetCases,
		Sources: []Source{
			{Kind: "http", URL: "https://example.com/confirmed.csv", Category: "Confirmed"},
			{Kind: "file", Path: "/data/deaths.csv", Category: "Deaths"},
		},
	}
}

func TestValidatePipelineOK(t *testing.T) {
	for _, p := range []Pipeline{validShootings(), validCases()} {
		if issues := ValidatePipeline(p); len(issues) != 0 {
			t.Errorf("%s: unexpected issues: %v", p.Job, issues)
		}
	}
}

func TestValidatePipelineErrors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Pipeline)
		wantPath string
	}{
		{"missing job", func(p *Pipeline) { p.Job = " " }, "job"},
		{"missing dataset", func(p *Pipeline) { p.Dataset = "" }, "dataset"},
		{"unknown dataset", func(p *Pipeline) { p.Dataset = "weather" }, "dataset"},
		{"no sources", func(p *Pipeline) { p.Sources = nil }, "sources"},
		{"http without url", func(p *Pipeline) { p.Sources[0] = Source{Kind: "http"} }, "sources[0].url"},
		{"file without path", func(p *Pipeline) { p.Sources[0] = Source{Kind: "file"} }, "sources[0].path"},
		{"unknown source kind", func(p *Pipeline) { p.Sources[0].Kind = "ftp" }, "sources[0].kind"},
		{"storage without dsn", func(p *Pipeline) {
			p.Storage = Storage{Kind: "sqlite", DB: DBConfig{Table: "t"}}
		}, "storage.db.dsn"},
		{"storage without table", func(p *Pipeline) {
			p.Storage = Storage{Kind: "sqlite", DB: DBConfig{DSN: "x.db"}}
		}, "storage.db.table"},
		{"model out-of-range ratio", func(p *Pipeline) {
			p.Model = Model{Enabled: true, TestRatio: 1.5, Seed: 7}
		}, "model.test_ratio"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validShootings()
			tt.mutate(&p)
			if !hasError(ValidatePipeline(p), tt.wantPath) {
				t.Errorf("no error at %q: %v", tt.wantPath, ValidatePipeline(p))
			}
		})
	}
}

func TestValidateShootingsSingleSource(t *testing.T) {
	p := validShootings()
	p.Sources = append(p.Sources, Source{Kind: "http", URL: "https://example.com/again.csv"})
	if !hasError(ValidatePipeline(p), "sources") {
		t.Error("two sources for shootings should be an error")
	}
}

func TestValidateCasesCategory(t *testing.T) {
	p := validCases()
	p.Sources[0].Category = "Suspected"
	if !hasError(ValidatePipeline(p), "sources[0].category") {
		t.Error("unknown category should be an error")
	}
	p.Sources[0].Category = ""
	if !hasError(ValidatePipeline(p), "sources[0].category") {
		t.Error("empty category should be an error for cases")
	}
}

func TestValidateModelOnWrongDataset(t *testing.T) {
	p := validCases()
	p.Model = Model{Enabled: true, TestRatio: 0.2, Seed: 7}
	if !hasError(ValidatePipeline(p), "model.enabled") {
		t.Error("model on the cases dataset should be an error")
	}
}

func TestValidateModelZeroSeedWarns(t *testing.T) {
	p := validShootings()
	p.Model = Model{Enabled: true, TestRatio: 0.2}
	issues := ValidatePipeline(p)
	found := false
	for _, i := range issues {
		if i.Path == "model.seed" && i.Severity == SeverityWarning {
			found = true
		}
		if i.Severity == SeverityError {
			t.Errorf("unexpected error: %v", i)
		}
	}
	if !found {
		t.Errorf("no seed warning in %v", issues)
	}
}

func TestOptionsAccessors(t *testing.T) {
	o := Options{
		"comma":      ";",
		"trim_space": true,
		"header_map": map[string]any{"a": "b", "bad": 7},
	}
	if got := o.Rune("comma", ','); got != ';' {
		t.Errorf("Rune = %q", got)
	}
	if got := o.Rune("absent", ','); got != ',' {
		t.Errorf("Rune default = %q", got)
	}
	if !o.Bool("trim_space", false) {
		t.Error("Bool = false")
	}
	m := o.StringMap("header_map")
	if m["a"] != "b" {
		t.Errorf("StringMap = %v", m)
	}
	if _, ok := m["bad"]; ok {
		t.Error("non-string value kept in StringMap")
	}
	if got := o.String("comma", ""); got != ";" {
		t.Errorf("String = %q", got)
	}
}

func hasError(issues []Issue, path string) bool {
	for _, i := range issues {
		if i.Severity == SeverityError && strings.HasPrefix(i.Path, path) {
			return true
		}
	}
	return false
}
