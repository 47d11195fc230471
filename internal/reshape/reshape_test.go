package reshape

import (
	"errors"
	"testing"
	"time"

	"casepipe/internal/schema"
	"casepipe/pkg/records"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestReshapeCountryAndSubregion(t *testing.T) {
	in := []records.Record{
		{
			schema.ColCountryRegion: "France",
			"1/22/20":               "0",
			"1/23/20":               "1",
		},
		{
			schema.ColProvinceState: "French Guiana",
			schema.ColCountryRegion: "France",
			"1/22/20":               "2",
			"1/23/20":               "3",
		},
	}
	got, err := Reshaper{Category: schema.CategoryConfirmed}.Reshape(in)
	if err != nil {
		t.Fatalf("Reshape: %v", err)
	}
	want := []Observation{
		{Entity: "France", Date: date(2020, 1, 22), Category: schema.CategoryConfirmed, Value: 0},
		{Entity: "France", Date: date(2020, 1, 23), Category: schema.CategoryConfirmed, Value: 1},
		{Entity: "France - French Guiana", Date: date(2020, 1, 22), Category: schema.CategoryConfirmed, Value: 2},
		{Entity: "France - French Guiana", Date: date(2020, 1, 23), Category: schema.CategoryConfirmed, Value: 3},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d observations, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("obs[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

// A zero on one date and a nonzero on the next must produce two distinct
// tuples; zeroes are data, not gaps.
func TestReshapeKeepsZeroValues(t *testing.T) {
	in := []records.Record{{
		schema.ColCountryRegion: "Andorra",
		"3/1/20":                "0",
		"3/2/20":                "1",
	}}
	got, err := Reshaper{Category: schema.CategoryDeaths}.Reshape(in)
	if err != nil {
		t.Fatalf("Reshape: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d observations, want 2", len(got))
	}
	if got[0].Value != 0 || got[1].Value != 1 {
		t.Errorf("values = %d, %d; want 0, 1", got[0].Value, got[1].Value)
	}
}

func TestReshapeSumsDuplicateKeys(t *testing.T) {
	in := []records.Record{
		{schema.ColCountryRegion: "Australia", "1/22/20": "2"},
		{schema.ColCountryRegion: "Australia", "1/22/20": "3"},
	}
	got, err := Reshaper{Category: schema.CategoryConfirmed}.Reshape(in)
	if err != nil {
		t.Fatalf("Reshape: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d observations, want 1 merged", len(got))
	}
	if got[0].Value != 5 {
		t.Errorf("merged value = %d, want 5 (summed, not overwritten)", got[0].Value)
	}
}

func TestMergeSumAssociative(t *testing.T) {
	in := []records.Record{{schema.ColCountryRegion: "Chile", "1/22/20": "4", "1/23/20": "6"}}
	r := Reshaper{Category: schema.CategoryConfirmed}
	once, err := r.Reshape(in)
	if err != nil {
		t.Fatalf("Reshape: %v", err)
	}
	again, err := r.Reshape(in)
	if err != nil {
		t.Fatalf("Reshape: %v", err)
	}
	merged := MergeSum(append(append([]Observation{}, once...), again...))
	if len(merged) != len(once) {
		t.Fatalf("merged %d keys, want %d", len(merged), len(once))
	}
	for i := range merged {
		if merged[i].Value != 2*once[i].Value {
			t.Errorf("merged[%d].Value = %d, want %d", i, merged[i].Value, 2*once[i].Value)
		}
	}
}

func TestReshapeSkipsNonDateColumns(t *testing.T) {
	in := []records.Record{{
		schema.ColCountryRegion: "Japan",
		"Lat":                   "36.0",
		"WHO Region":            "Western Pacific",
		"13/1/20":               "999", // matches the pattern but is no real date
		"1/22/20":               "7",
	}}
	got, err := Reshaper{Category: schema.CategoryConfirmed}.Reshape(in)
	if err != nil {
		t.Fatalf("Reshape: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d observations, want 1 (metadata columns skipped)", len(got))
	}
	if got[0].Value != 7 {
		t.Errorf("value = %d, want 7", got[0].Value)
	}
}

func TestReshapeMalformedCell(t *testing.T) {
	in := []records.Record{{
		schema.ColCountryRegion: "Peru",
		"1/22/20":               "lots",
	}}
	_, err := Reshaper{Category: schema.CategoryConfirmed}.Reshape(in)
	var mf *schema.MalformedFieldError
	if !errors.As(err, &mf) {
		t.Fatalf("err = %v, want *schema.MalformedFieldError", err)
	}
	if mf.Column != "1/22/20" || mf.RowKey != "Peru" {
		t.Errorf("error = %+v, want column 1/22/20 for Peru", mf)
	}
}

func TestReshapeEmptyCellIsZero(t *testing.T) {
	in := []records.Record{{
		schema.ColCountryRegion: "Mongolia",
		"1/22/20":               nil,
	}}
	got, err := Reshaper{Category: schema.CategoryRecovered}.Reshape(in)
	if err != nil {
		t.Fatalf("Reshape: %v", err)
	}
	if len(got) != 1 || got[0].Value != 0 {
		t.Errorf("got %v, want one zero observation", got)
	}
}

func TestReshapeRejectsUnknownCategory(t *testing.T) {
	_, err := Reshaper{Category: "Suspected"}.Reshape(nil)
	if err == nil {
		t.Fatal("expected an error for an unknown category")
	}
}
