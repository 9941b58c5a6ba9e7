package core

import (
	"gopkg.in/yaml.v3"
)

// TriggerShape tags which of the legal trigger layouts a document uses
type TriggerShape int

const (
	TriggerAbsent TriggerShape = iota
	TriggerNull
	TriggerScalar
	TriggerSequence
	TriggerMapping
)

func (s TriggerShape) String() string {
	switch s {
	case TriggerAbsent:
		return "absent"
	case TriggerNull:
		return "null"
	case TriggerScalar:
		return "scalar"
	case TriggerSequence:
		return "sequence"
	case TriggerMapping:
		return "mapping"
	}
	return "unknown"
}

// TriggerSet is the trigger field of a document in whichever shape it was written
type TriggerSet struct {
	Shape TriggerShape
	Key   *yaml.Node
	Value *yaml.Node
	// Aliased is set when the field was found under a boolean true key
	// rather than the literal "on".
	Aliased bool
}

// TriggerConfig is the configuration of one named trigger in a mapping-shaped set
type TriggerConfig struct {
	Name  string
	Key   *yaml.Node
	Value *yaml.Node
}

// Triggers locates the trigger field. YAML 1.1 loaders read an unquoted
// "on" key as boolean true, so a document may carry its triggers under a
// true key instead. The literal "on" key wins when both are present.
func (d *Document) Triggers() TriggerSet {
	if f, ok := d.Lookup("on"); ok {
		return newTriggerSet(f.Key, f.Value, false)
	}
	for _, f := range d.Fields() {
		if isTrue(f.Key) {
			return newTriggerSet(f.Key, f.Value, true)
		}
	}
	return TriggerSet{Shape: TriggerAbsent}
}

func newTriggerSet(key, value *yaml.Node, aliased bool) TriggerSet {
	t := TriggerSet{Key: key, Value: value, Aliased: aliased}
	switch {
	case isNull(value):
		t.Shape = TriggerNull
	case value.Kind == yaml.MappingNode:
		t.Shape = TriggerMapping
	case value.Kind == yaml.SequenceNode:
		t.Shape = TriggerSequence
	default:
		t.Shape = TriggerScalar
	}
	return t
}

func (t TriggerSet) Present() bool {
	return t.Shape != TriggerAbsent
}

// Empty reports a present trigger field with a falsy value
func (t TriggerSet) Empty() bool {
	return t.Present() && isFalsy(t.Value)
}

// Configs returns the per-trigger configurations of a mapping-shaped set
func (t TriggerSet) Configs() []TriggerConfig {
	if t.Shape != TriggerMapping {
		return nil
	}
	var out []TriggerConfig
	for _, f := range fields(t.Value) {
		out = append(out, TriggerConfig{Name: f.Name, Key: f.Key, Value: f.Value})
	}
	return out
}

// Names lists trigger names for mapping, sequence and scalar shapes
func (t TriggerSet) Names() []string {
	switch t.Shape {
	case TriggerMapping:
		var names []string
		for _, c := range t.Configs() {
			names = append(names, c.Name)
		}
		return names
	case TriggerSequence:
		var names []string
		for _, n := range t.Value.Content {
			if n = resolve(n); n.Kind == yaml.ScalarNode {
				names = append(names, n.Value)
			}
		}
		return names
	case TriggerScalar:
		if t.Value.Value != "" {
			return []string{t.Value.Value}
		}
	}
	return nil
}
