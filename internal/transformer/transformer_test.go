package transformer

import (
	"errors"
	"testing"

	"casepipe/pkg/records"
)

type upper struct{ field string }

func (u upper) Apply(in []records.Record) ([]records.Record, error) {
	for _, r := range in {
		r[u.field] = "X" + r.String(u.field)
	}
	return in, nil
}

type failing struct{}

func (failing) Apply([]records.Record) ([]records.Record, error) {
	return nil, errors.New("stage failed")
}

type counting struct{ calls *int }

func (c counting) Apply(in []records.Record) ([]records.Record, error) {
	*c.calls++
	return in, nil
}

func TestChainAppliesInOrder(t *testing.T) {
	in := []records.Record{{"a": ""}}
	out, err := Chain{upper{"a"}, upper{"a"}}.Apply(in)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := out[0].String("a"); got != "XX" {
		t.Errorf("a = %q, want both stages applied in order", got)
	}
}

func TestChainAbortsOnError(t *testing.T) {
	calls := 0
	_, err := Chain{failing{}, counting{&calls}}.Apply([]records.Record{{}})
	if err == nil {
		t.Fatal("expected the stage error to propagate")
	}
	if calls != 0 {
		t.Error("stages after a failure must not run")
	}
}

func TestEmptyChain(t *testing.T) {
	in := []records.Record{{"a": "1"}}
	out, err := Chain{}.Apply(in)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(out) != 1 {
		t.Errorf("out = %v", out)
	}
}
