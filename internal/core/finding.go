package core

import (
	"fmt"
)

// Severity tells whether a finding invalidates the document
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Scope names the part of the document a finding is about
// ("document", "trigger:<name>" or "job:<name>")
type Scope string

const DocumentScope Scope = "document"

func JobScope(name string) Scope {
	return Scope("job:" + name)
}

func TriggerScope(name string) Scope {
	return Scope("trigger:" + name)
}

// Finding is one structural defect. Line and Column are 1-based, zero when
// the defect is the absence of something and has no node to point at.
type Finding struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Scope    Scope    `json:"scope"`
	Message  string   `json:"message"`
	Line     int      `json:"line,omitempty"`
	Column   int      `json:"column,omitempty"`
}

func (f Finding) String() string {
	if f.Line > 0 {
		return fmt.Sprintf("%d:%d: %s [%s] %s", f.Line, f.Column, f.Severity, f.Scope, f.Message)
	}
	return fmt.Sprintf("%s [%s] %s", f.Severity, f.Scope, f.Message)
}

// Report holds the findings of one document in discovery order.
// It is never mutated once built.
type Report struct {
	findings []Finding
}

// NewReport copies findings into a new report
func NewReport(findings []Finding) *Report {
	fs := make([]Finding, len(findings))
	copy(fs, findings)
	return &Report{findings: fs}
}

// Findings returns a copy of the report's findings
func (r *Report) Findings() []Finding {
	fs := make([]Finding, len(r.findings))
	copy(fs, r.findings)
	return fs
}

func (r *Report) Len() int {
	return len(r.findings)
}

func (r *Report) Errors() int {
	return r.count(SeverityError)
}

func (r *Report) Warnings() int {
	return r.count(SeverityWarning)
}

// Valid reports whether the document has no error findings.
// Warnings never make a document invalid.
func (r *Report) Valid() bool {
	return r.Errors() == 0
}

func (r *Report) count(sev Severity) int {
	n := 0
	for _, f := range r.findings {
		if f.Severity == sev {
			n++
		}
	}
	return n
}
