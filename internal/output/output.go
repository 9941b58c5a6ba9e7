// Package output renders validation results for people and for machines.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"wfcheck/internal/core"
)

// Printer writes a batch of results
type Printer interface {
	Print(results []core.Result) error
}

// New returns the printer for format ("text" or "json")
func New(format string, w io.Writer) (Printer, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return &TextPrinter{w: w}, nil
	case "json":
		return &JSONPrinter{w: w}, nil
	}
	return nil, fmt.Errorf("unknown output format %q", format)
}

// TextPrinter writes one line per finding, each prefixed with the file name
type TextPrinter struct {
	w io.Writer
}

func (p *TextPrinter) Print(results []core.Result) error {
	for _, r := range results {
		if err := p.printOne(r); err != nil {
			return err
		}
	}
	return nil
}

func (p *TextPrinter) printOne(r core.Result) error {
	switch {
	case r.ReadErr != nil:
		_, err := fmt.Fprintf(p.w, "❌ %s - Error: %v\n", r.File, r.ReadErr)
		return err
	case r.ParseErr != nil:
		_, err := fmt.Fprintf(p.w, "❌ %s - YAML Error: %v\n", r.File, r.ParseErr)
		return err
	case r.Report == nil:
		return nil
	}

	for _, f := range r.Report.Findings() {
		icon := "❌"
		if f.Severity == core.SeverityWarning {
			icon = "⚠️"
		}
		sep := " "
		if f.Line > 0 {
			sep = ""
		}
		if _, err := fmt.Fprintf(p.w, "%s %s:%s%s\n", icon, r.File, sep, f); err != nil {
			return err
		}
	}
	if r.Report.Valid() {
		_, err := fmt.Fprintf(p.w, "✅ %s - Valid\n", r.File)
		return err
	}
	return nil
}

// JSONPrinter writes the batch as one indented JSON array
type JSONPrinter struct {
	w io.Writer
}

func (p *JSONPrinter) Print(results []core.Result) error {
	out := make([]JSONResult, 0, len(results))
	for _, r := range results {
		out = append(out, ToJSON(r))
	}
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// JSONResult is the wire form of a core.Result, shared by the JSON printer,
// saved run summaries and the HTTP API.
type JSONResult struct {
	File       string          `json:"file"`
	Digest     string          `json:"digest,omitempty"`
	Valid      bool            `json:"valid"`
	Errors     int             `json:"errors"`
	Warnings   int             `json:"warnings"`
	Findings   []core.Finding  `json:"findings"`
	ParseError *JSONParseError `json:"parse_error,omitempty"`
	ReadError  string          `json:"read_error,omitempty"`
}

type JSONParseError struct {
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
	Message string `json:"message"`
}

func ToJSON(r core.Result) JSONResult {
	j := JSONResult{
		File:     r.File,
		Digest:   r.Digest,
		Valid:    !r.Failed(),
		Findings: []core.Finding{},
	}
	switch {
	case r.ReadErr != nil:
		j.ReadError = r.ReadErr.Error()
	case r.ParseErr != nil:
		j.ParseError = &JSONParseError{Line: r.ParseErr.Line, Column: r.ParseErr.Column, Message: r.ParseErr.Msg}
	case r.Report != nil:
		j.Errors = r.Report.Errors()
		j.Warnings = r.Report.Warnings()
		j.Findings = r.Report.Findings()
	}
	return j
}

// FromJSON rebuilds a result received over the wire
func FromJSON(j JSONResult) core.Result {
	r := core.Result{File: j.File, Digest: j.Digest}
	switch {
	case j.ReadError != "":
		r.ReadErr = errors.New(j.ReadError)
	case j.ParseError != nil:
		r.ParseErr = &core.ParseError{Line: j.ParseError.Line, Column: j.ParseError.Column, Msg: j.ParseError.Message}
	default:
		r.Report = core.NewReport(j.Findings)
	}
	return r
}
