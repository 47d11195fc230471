package aggregate

import (
	"testing"
	"time"

	"casepipe/internal/reshape"
	"casepipe/internal/schema"
	"casepipe/pkg/records"
)

func day(d int) time.Time {
	return time.Date(2020, 3, d, 0, 0, 0, 0, time.UTC)
}

// Grouping must conserve rows: bucket values sum to the input count.
func TestCountByConservation(t *testing.T) {
	in := []records.Record{
		{"BORO": "BRONX"},
		{"BORO": "BRONX"},
		{"BORO": "QUEENS"},
		{"BORO": nil},
	}
	buckets := CountBy(in, ByField("BORO"))
	var total int64
	for _, b := range buckets {
		total += b.Value
	}
	if total != int64(len(in)) {
		t.Errorf("bucket total = %d, want %d", total, len(in))
	}
	if len(buckets) != 3 {
		t.Errorf("bucket count = %d, want 3 (BRONX, QUEENS, empty)", len(buckets))
	}
	// Sorted by key: "" < BRONX < QUEENS.
	if buckets[1].Key != "BRONX" || buckets[1].Value != 2 {
		t.Errorf("buckets[1] = %+v, want BRONX:2", buckets[1])
	}
}

func TestByYearAndByHour(t *testing.T) {
	in := []records.Record{
		{"d": time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC), "t": 3 * time.Hour},
		{"d": time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), "t": 23*time.Hour + 59*time.Minute},
	}
	years := CountBy(in, ByYear("d"))
	if len(years) != 2 || years[0].Key != "2019" || years[1].Key != "2020" {
		t.Errorf("years = %v", years)
	}
	hours := CountBy(in, ByHour("t"))
	if len(hours) != 2 || hours[0].Key != "03" || hours[1].Key != "23" {
		t.Errorf("hours = %v, want zero-padded 03 and 23", hours)
	}
}

func TestJoin(t *testing.T) {
	if got := Join("BRONX", "2020"); got != "BRONX|2020" {
		t.Errorf("Join = %q", got)
	}
	if got := Join("solo"); got != "solo" {
		t.Errorf("Join = %q", got)
	}
}

func TestSumBy(t *testing.T) {
	obs := []reshape.Observation{
		{Entity: "US", Date: day(1), Category: schema.CategoryConfirmed, Value: 10},
		{Entity: "US", Date: day(2), Category: schema.CategoryConfirmed, Value: 15},
		{Entity: "US", Date: day(1), Category: schema.CategoryDeaths, Value: 1},
	}
	buckets := SumBy(obs, ByCategory)
	if len(buckets) != 2 {
		t.Fatalf("buckets = %v", buckets)
	}
	if buckets[0].Key != schema.CategoryConfirmed || buckets[0].Value != 25 {
		t.Errorf("confirmed bucket = %+v", buckets[0])
	}
}

func TestTopEntities(t *testing.T) {
	obs := []reshape.Observation{
		{Entity: "US", Date: day(1), Category: schema.CategoryConfirmed, Value: 100},
		{Entity: "China", Date: day(1), Category: schema.CategoryConfirmed, Value: 90},
		{Entity: "US - New York", Date: day(1), Category: schema.CategoryConfirmed, Value: 100},
		{Entity: "Italy", Date: day(1), Category: schema.CategoryDeaths, Value: 500},
	}
	got := TopEntities(obs, schema.CategoryConfirmed, 2)
	if len(got) != 2 {
		t.Fatalf("got %d entities, want 2", len(got))
	}
	// Tie at 100 breaks lexically: "US" before "US - New York".
	if got[0].Entity != "US" || got[1].Entity != "US - New York" {
		t.Errorf("order = %v, %v; want US then US - New York", got[0].Entity, got[1].Entity)
	}
	// The Deaths row must not leak into the Confirmed ranking.
	for _, e := range got {
		if e.Entity == "Italy" {
			t.Error("other-category entity leaked into ranking")
		}
	}
}

// The ranking uses the running maximum of the series, not its last value, so
// a downward correction cannot demote an entity.
func TestTopEntitiesRunningMax(t *testing.T) {
	obs := []reshape.Observation{
		{Entity: "Spain", Date: day(1), Category: schema.CategoryConfirmed, Value: 50},
		{Entity: "Spain", Date: day(2), Category: schema.CategoryConfirmed, Value: 100},
		{Entity: "Spain", Date: day(3), Category: schema.CategoryConfirmed, Value: 80},
	}
	got := TopEntities(obs, schema.CategoryConfirmed, 1)
	if len(got) != 1 || got[0].MaxValue != 100 {
		t.Errorf("got %v, want Spain with running max 100", got)
	}
}

func TestTopEntitiesTruncation(t *testing.T) {
	obs := []reshape.Observation{
		{Entity: "A", Date: day(1), Category: schema.CategoryConfirmed, Value: 1},
		{Entity: "B", Date: day(1), Category: schema.CategoryConfirmed, Value: 2},
	}
	if got := TopEntities(obs, schema.CategoryConfirmed, 10); len(got) != 2 {
		t.Errorf("n beyond population should return all entities, got %d", len(got))
	}
	if got := TopEntities(obs, schema.CategoryConfirmed, 0); len(got) != 0 {
		t.Errorf("n=0 should return nothing, got %d", len(got))
	}
}
