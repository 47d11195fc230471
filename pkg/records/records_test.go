package records

import (
	"testing"
	"time"
)

func TestIsMissing(t *testing.T) {
	r := Record{"a": "x", "b": "", "c": nil, "d": int64(0)}
	tests := []struct {
		field string
		want  bool
	}{
		{"a", false},
		{"b", true},
		{"c", true},
		{"d", false},
		{"absent", true},
	}
	for _, tt := range tests {
		if got := r.IsMissing(tt.field); got != tt.want {
			t.Errorf("IsMissing(%q) = %v, want %v", tt.field, got, tt.want)
		}
	}
}

func TestString(t *testing.T) {
	r := Record{
		"s":    "hello",
		"i":    int64(42),
		"f":    40.75,
		"b":    true,
		"t":    time.Date(2021, 8, 14, 0, 0, 0, 0, time.UTC),
		"none": nil,
	}
	tests := []struct {
		field string
		want  string
	}{
		{"s", "hello"},
		{"i", "42"},
		{"f", "40.75"},
		{"b", "true"},
		{"t", "2021-08-14"},
		{"none", ""},
		{"absent", ""},
	}
	for _, tt := range tests {
		if got := r.String(tt.field); got != tt.want {
			t.Errorf("String(%q) = %q, want %q", tt.field, got, tt.want)
		}
	}
}

func TestTypedAccessors(t *testing.T) {
	when := time.Date(2020, 1, 22, 0, 0, 0, 0, time.UTC)
	r := Record{
		"date": when,
		"dur":  22*time.Hour + 15*time.Minute,
		"n":    int64(7),
		"flag": true,
	}
	if got, ok := r.Time("date"); !ok || !got.Equal(when) {
		t.Errorf("Time = %v, %v", got, ok)
	}
	if got, ok := r.Duration("dur"); !ok || got != 22*time.Hour+15*time.Minute {
		t.Errorf("Duration = %v, %v", got, ok)
	}
	if got, ok := r.Int("n"); !ok || got != 7 {
		t.Errorf("Int = %v, %v", got, ok)
	}
	if got, ok := r.Bool("flag"); !ok || !got {
		t.Errorf("Bool = %v, %v", got, ok)
	}
	if _, ok := r.Time("dur"); ok {
		t.Error("Time on a duration field should report ok=false")
	}
}

func TestClone(t *testing.T) {
	orig := Record{"a": "1"}
	c := orig.Clone()
	c["a"] = "2"
	if orig.String("a") != "1" {
		t.Errorf("mutating the clone changed the original: %v", orig)
	}
}
