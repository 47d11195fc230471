// This file adds a lightweight linter for Pipeline values: static checks over
// a decoded Pipeline returning a list of severity-tagged issues that callers
// can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"

	"casepipe/internal/schema"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates an issue worth surfacing that does not block.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding. Path is a dotted path into the
// config (e.g. "sources[1].category").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a single
// error where one is expected.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// ValidatePipeline performs static validation of a Pipeline without mutating
// it. Callers decide whether warnings are fatal.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{SeverityError, "job",
			"job must not be empty; it labels metrics and identifies runs"})
	}

	switch p.Dataset {
	case DatasetShootings, DatasetCases:
	case "":
		issues = append(issues, Issue{SeverityError, "dataset", "dataset is required"})
	default:
		issues = append(issues, Issue{SeverityError, "dataset",
			fmt.Sprintf("unknown dataset %q (want %q or %q)", p.Dataset, DatasetShootings, DatasetCases)})
	}

	if len(p.Sources) == 0 {
		issues = append(issues, Issue{SeverityError, "sources", "at least one source is required"})
	}
	if p.Dataset == DatasetShootings && len(p.Sources) > 1 {
		issues = append(issues, Issue{SeverityError, "sources",
			"the shootings dataset takes exactly one source"})
	}
	for i, s := range p.Sources {
		path := fmt.Sprintf("sources[%d]", i)
		switch s.Kind {
		case "http":
			if strings.TrimSpace(s.URL) == "" {
				issues = append(issues, Issue{SeverityError, path + ".url", "url is required for kind=http"})
			}
		case "file":
			if strings.TrimSpace(s.Path) == "" {
				issues = append(issues, Issue{SeverityError, path + ".path", "path is required for kind=file"})
			}
		case "":
			issues = append(issues, Issue{SeverityError, path + ".kind", "kind is required"})
		default:
			issues = append(issues, Issue{SeverityError, path + ".kind",
				fmt.Sprintf("unknown source kind %q", s.Kind)})
		}
		if p.Dataset == DatasetCases && !schema.ValidCategory(s.Category) {
			issues = append(issues, Issue{SeverityError, path + ".category",
				fmt.Sprintf("category %q is not one of %v", s.Category, schema.Categories)})
		}
	}

	if p.Storage.Kind != "" {
		if strings.TrimSpace(p.Storage.DB.DSN) == "" {
			issues = append(issues, Issue{SeverityError, "storage.db.dsn", "dsn is required when storage is configured"})
		}
		if strings.TrimSpace(p.Storage.DB.Table) == "" {
			issues = append(issues, Issue{SeverityError, "storage.db.table", "table is required when storage is configured"})
		}
	}

	if p.Model.Enabled {
		if p.Dataset != DatasetShootings {
			issues = append(issues, Issue{SeverityError, "model.enabled",
				"the fatality model applies only to the shootings dataset"})
		}
		if p.Model.TestRatio < 0 || p.Model.TestRatio >= 1 {
			issues = append(issues, Issue{SeverityError, "model.test_ratio",
				"test_ratio must be in [0, 1)"})
		}
		if p.Model.Seed == 0 {
			issues = append(issues, Issue{SeverityWarning, "model.seed",
				"seed is 0; the split is still deterministic but consider a named seed for reproducibility notes"})
		}
	}

	return issues
}
