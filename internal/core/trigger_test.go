package core

import (
	"reflect"
	"testing"
)

func TestTriggerShapes(t *testing.T) {
	tests := []struct {
		src   string
		shape TriggerShape
		names []string
	}{
		{"name: x", TriggerAbsent, nil},
		{"on:", TriggerNull, nil},
		{"on: push", TriggerScalar, []string{"push"}},
		{"on: [push, pull_request]", TriggerSequence, []string{"push", "pull_request"}},
		{"on: {push: {}, release: {types: [published]}}", TriggerMapping, []string{"push", "release"}},
	}
	for _, tt := range tests {
		ts := parse(t, tt.src).Triggers()
		if ts.Shape != tt.shape {
			t.Errorf("%q: shape = %s, want %s", tt.src, ts.Shape, tt.shape)
		}
		if got := ts.Names(); !reflect.DeepEqual(got, tt.names) {
			t.Errorf("%q: names = %v, want %v", tt.src, got, tt.names)
		}
	}
}

// A YAML 1.1 loader turns an unquoted on key into boolean true; the trigger
// field has to be found under either key.
func TestTriggerLookupUnderBooleanKey(t *testing.T) {
	for _, src := range []string{"true: push", "True: [push]", "TRUE: {push: {}}"} {
		ts := parse(t, src).Triggers()
		if !ts.Present() || !ts.Aliased {
			t.Errorf("%q: present=%v aliased=%v", src, ts.Present(), ts.Aliased)
		}
	}

	ts := parse(t, "on: push").Triggers()
	if !ts.Present() || ts.Aliased {
		t.Errorf("literal on: present=%v aliased=%v", ts.Present(), ts.Aliased)
	}

	// a quoted "true" is a string, and false is not an alias
	for _, src := range []string{`"true": push`, "false: push"} {
		if parse(t, src).Triggers().Present() {
			t.Errorf("%q should not count as a trigger field", src)
		}
	}
}

func TestTriggerLiteralKeyWins(t *testing.T) {
	ts := parse(t, "true: {}\non: [push]").Triggers()
	if ts.Aliased || ts.Shape != TriggerSequence {
		t.Errorf("shape=%s aliased=%v", ts.Shape, ts.Aliased)
	}
	if ts.Empty() {
		t.Error("literal on field is not empty")
	}
}

func TestAliasedTriggerValidates(t *testing.T) {
	src := "name: CI\ntrue:\n  push: {}\njobs:\n  build:\n    runs-on: ubuntu\n    steps: [checkout]\n"
	report := mustValidate(t, src)
	if report.Errors() != 0 || report.Warnings() != 1 {
		t.Errorf("findings = %v", report.Findings())
	}
}

func TestTriggerConfigs(t *testing.T) {
	cs := parse(t, "on:\n  push:\n    branches: [main]\n  pull_request: []\n").Triggers().Configs()
	if len(cs) != 2 || cs[0].Name != "push" || cs[1].Name != "pull_request" {
		t.Fatalf("configs = %+v", cs)
	}
	if parse(t, "on: [push]").Triggers().Configs() != nil {
		t.Error("sequence triggers have no configs")
	}
}
