package core

import (
	"testing"
)

func parse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := ParseDocument([]byte(src))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestRulesOrder(t *testing.T) {
	want := []string{
		"name-present",
		"trigger-present",
		"trigger-not-empty",
		"trigger-config-not-empty",
		"jobs-present",
		"jobs-not-empty",
		"job-shape",
	}
	if len(Rules) != len(want) {
		t.Fatalf("got %d rules, want %d", len(Rules), len(want))
	}
	for i, r := range Rules {
		if r.ID != want[i] {
			t.Errorf("rule %d = %s, want %s", i, r.ID, want[i])
		}
	}
}

func TestCheckNamePresent(t *testing.T) {
	tests := []struct {
		src  string
		want int
	}{
		{"name: CI", 0},
		{"name:", 0}, // present, even though null
		{"title: CI", 1},
		{`"name": CI`, 0},
	}
	for _, tt := range tests {
		if got := len(checkNamePresent(parse(t, tt.src))); got != tt.want {
			t.Errorf("%q: %d findings, want %d", tt.src, got, tt.want)
		}
	}
}

func TestCheckTriggerPresentAndNotEmpty(t *testing.T) {
	tests := []struct {
		src     string
		present int
		empty   int
	}{
		{"on: push", 0, 0},
		{"on: [push, pull_request]", 0, 0},
		{"on: {push: {branches: [main]}}", 0, 0},
		{"true: push", 0, 0},
		{"name: CI", 1, 0},
		{"on: {}", 0, 1},
		{"on: []", 0, 1},
		{"on:", 0, 1},
		{`on: ""`, 0, 1},
		{"on: 0", 0, 1},
		{"true: {}", 0, 1},
	}
	for _, tt := range tests {
		doc := parse(t, tt.src)
		if got := len(checkTriggerPresent(doc)); got != tt.present {
			t.Errorf("%q: trigger-present = %d, want %d", tt.src, got, tt.present)
		}
		if got := len(checkTriggerNotEmpty(doc)); got != tt.empty {
			t.Errorf("%q: trigger-not-empty = %d, want %d", tt.src, got, tt.empty)
		}
	}
}

func TestCheckTriggerConfigs(t *testing.T) {
	doc := parse(t, `
on:
  push: {}
  pull_request: []
  workflow_dispatch:
  schedule:
    - cron: "0 0 * * *"
`)
	fs := checkTriggerConfigs(doc)
	if len(fs) != 2 {
		t.Fatalf("findings = %v", fs)
	}
	if fs[0].Message != "Empty push trigger configuration" || fs[0].Scope != "trigger:push" || fs[0].Line != 3 {
		t.Errorf("first = %+v", fs[0])
	}
	if fs[1].Message != "Empty pull_request trigger list" || fs[1].Severity != SeverityWarning {
		t.Errorf("second = %+v", fs[1])
	}

	for _, src := range []string{"on: [push]", "on: push", "name: x"} {
		if fs := checkTriggerConfigs(parse(t, src)); len(fs) != 0 {
			t.Errorf("%q: unexpected %v", src, fs)
		}
	}
}

func TestCheckJobs(t *testing.T) {
	tests := []struct {
		src      string
		present  int
		notEmpty string
	}{
		{"name: x", 1, ""},
		{"jobs: {}", 0, "Empty jobs field - no jobs defined"},
		{"jobs:", 0, "Empty jobs field - no jobs defined"},
		{"jobs: [a, b]", 0, "Jobs field is not a mapping"},
		{"jobs: build", 0, "Jobs field is not a mapping"},
		{"jobs: {a: {}}", 0, ""},
	}
	for _, tt := range tests {
		doc := parse(t, tt.src)
		if got := len(checkJobsPresent(doc)); got != tt.present {
			t.Errorf("%q: jobs-present = %d, want %d", tt.src, got, tt.present)
		}
		fs := checkJobsNotEmpty(doc)
		switch {
		case tt.notEmpty == "" && len(fs) != 0:
			t.Errorf("%q: unexpected %v", tt.src, fs)
		case tt.notEmpty != "" && (len(fs) != 1 || fs[0].Message != tt.notEmpty):
			t.Errorf("%q: got %v, want %q", tt.src, fs, tt.notEmpty)
		}
	}
}

func TestCheckJobShape(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"complete job", "jobs: {b: {runs-on: x, steps: [a]}}", nil},
		{"not a mapping", "jobs: {b: [1, 2]}", []string{"Job b is not a dictionary"}},
		{"null body", "jobs: {b: }", []string{"Job b is not a dictionary"}},
		{"missing both", "jobs: {b: {name: B}}", []string{"Job b missing runs-on field", "Job b missing steps field"}},
		{"null steps", "jobs: {b: {runs-on: x, steps: }}", []string{"Job b has empty steps"}},
		{"scalar steps", "jobs: {b: {runs-on: x, steps: make}}", []string{"Job b steps field is not a list"}},
		{"runs-on any type", "jobs: {b: {runs-on: [self-hosted, linux], steps: [a]}}", nil},
		{"jobs not a mapping", "jobs: [a]", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := checkJobShape(parse(t, tt.src))
			if len(fs) != len(tt.want) {
				t.Fatalf("findings = %v, want %q", fs, tt.want)
			}
			for i, f := range fs {
				if f.Message != tt.want[i] {
					t.Errorf("finding %d = %q, want %q", i, f.Message, tt.want[i])
				}
				if f.Scope != "job:b" || f.Severity != SeverityError {
					t.Errorf("finding %d = %+v", i, f)
				}
			}
		})
	}
}

func TestMergeKeysAreExpanded(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "merged job body",
			src: `name: CI
on: push
x-defaults: &defaults {runs-on: ubuntu-latest, steps: [checkout]}
jobs:
  build: {<<: *defaults}
`,
		},
		{
			name: "merged top level fields",
			src: `x-base: &base
  name: CI
  on: push
<<: *base
jobs:
  build: {runs-on: x, steps: [s]}
`,
		},
		{
			name: "sequence of merges",
			src: `name: CI
on: push
x-runner: &runner {runs-on: x}
x-steps: &steps {steps: [s]}
jobs:
  build:
    <<: [*runner, *steps]
`,
		},
		{
			name: "explicit key overrides merged",
			src: `name: CI
on: push
x-defaults: &defaults {runs-on: x, steps: [s]}
jobs:
  build:
    <<: *defaults
    steps: []
`,
			want: []string{"Job build has empty steps"},
		},
		{
			name: "earlier merge source wins",
			src: `name: CI
on: push
x-a: &a {runs-on: x, steps: [s]}
x-b: &b {steps: []}
jobs:
  build:
    <<: [*a, *b]
`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := messages(mustValidate(t, tt.src))
			if len(got) != len(tt.want) {
				t.Fatalf("messages = %q, want %q", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("message %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDuplicateKeyTakesLastValue(t *testing.T) {
	src := `name: CI
on: push
jobs:
  build:
    runs-on: x
    steps: []
    steps: [a]
  test:
    runs-on: x
    steps: [a]
    steps: []
`
	got := messages(mustValidate(t, src))
	if len(got) != 1 || got[0] != "Job test has empty steps" {
		t.Fatalf("messages = %q", got)
	}

	jobs, _ := parse(t, src).Jobs()
	if len(jobs) != 2 || jobs[0].Name != "build" || jobs[1].Name != "test" {
		t.Errorf("jobs = %+v", jobs)
	}
}

func TestDuplicateJobKeepsFirstPosition(t *testing.T) {
	doc := parse(t, "jobs:\n  a: 1\n  b: {runs-on: x, steps: [s]}\n  a: {runs-on: x}\n")
	jobs, ok := doc.Jobs()
	if !ok || len(jobs) != 2 {
		t.Fatalf("jobs = %+v", jobs)
	}
	if jobs[0].Name != "a" || !jobs[0].IsMapping() {
		t.Errorf("first job = %+v, want the last a body in first position", jobs[0])
	}
	if jobs[0].Key.Line != 4 {
		t.Errorf("a reported on line %d, want 4", jobs[0].Key.Line)
	}
}
