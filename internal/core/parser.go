package core

import (
	"fmt"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ParseError means the bytes are not valid YAML. No report exists for such
// a document.
type ParseError struct {
	Line   int // 0 when the parser gave no position
	Column int
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	switch {
	case e.Line > 0 && e.Column > 0:
		return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Msg)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var yamlErrPattern = regexp.MustCompile(`^yaml: (?:line (\d+): )?(?:column (\d+): )?(.*)$`)

func newParseError(err error) *ParseError {
	pe := &ParseError{Msg: err.Error(), Err: err}
	m := yamlErrPattern.FindStringSubmatch(err.Error())
	if m == nil {
		return pe
	}
	pe.Line, _ = strconv.Atoi(m[1])
	pe.Column, _ = strconv.Atoi(m[2])
	pe.Msg = m[3]
	return pe
}

// ParseDocument parses YAML content into a Document
func ParseDocument(data []byte) (*Document, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, newParseError(err)
	}
	return newDocument(&node), nil
}
