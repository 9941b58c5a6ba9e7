package core

import (
	"gopkg.in/yaml.v3"
)

// Document is a parsed pipeline definition. It is read-only after parsing.
type Document struct {
	root *yaml.Node // top-level mapping, nil when the document is not a mapping
}

// Field is a key/value pair of a mapping, in document order
type Field struct {
	Name  string
	Key   *yaml.Node
	Value *yaml.Node
}

// newDocument unwraps the document node. A root that is not a mapping
// (empty file, bare scalar, sequence) is treated as an empty mapping.
func newDocument(n *yaml.Node) *Document {
	n = resolve(n)
	if n != nil && n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return &Document{}
		}
		n = resolve(n.Content[0])
	}
	if n == nil || n.Kind != yaml.MappingNode {
		return &Document{}
	}
	return &Document{root: n}
}

// Lookup finds a top-level key by its literal name
func (d *Document) Lookup(key string) (Field, bool) {
	return lookup(d.root, key)
}

// Fields returns the top-level entries in document order
func (d *Document) Fields() []Field {
	return fields(d.root)
}

// Name returns the pipeline name, if the document declares one as a scalar
func (d *Document) Name() (string, bool) {
	f, ok := d.Lookup("name")
	if !ok || f.Value.Kind != yaml.ScalarNode {
		return "", false
	}
	return f.Value.Value, true
}

// Jobs returns the job entries of a mapping-shaped jobs field in
// declaration order. ok is false when jobs is absent or not a mapping.
func (d *Document) Jobs() (jobs []JobDefinition, ok bool) {
	f, found := d.Lookup("jobs")
	if !found || f.Value.Kind != yaml.MappingNode {
		return nil, false
	}
	for _, e := range fields(f.Value) {
		jobs = append(jobs, JobDefinition{Name: e.Name, Key: e.Key, Value: e.Value})
	}
	return jobs, true
}

// JobDefinition is one entry of the jobs mapping
type JobDefinition struct {
	Name  string
	Key   *yaml.Node
	Value *yaml.Node
}

// IsMapping reports whether the job body can be inspected further
func (j JobDefinition) IsMapping() bool {
	return j.Value.Kind == yaml.MappingNode
}

func (j JobDefinition) RunsOn() (Field, bool) {
	return lookup(j.Value, "runs-on")
}

func (j JobDefinition) Steps() (Field, bool) {
	return lookup(j.Value, "steps")
}

func lookup(m *yaml.Node, key string) (Field, bool) {
	for _, f := range fields(m) {
		if f.Name == key && f.Key.ShortTag() == "!!str" {
			return f, true
		}
	}
	return Field{}, false
}

// fields returns the effective entries of a mapping the way a decoder sees
// them: "<<" merge keys are expanded, explicit keys override merged ones and
// a repeated key keeps its first position but takes its last value.
func fields(m *yaml.Node) []Field {
	return mergedFields(m, 0)
}

const maxMergeDepth = 32

func mergedFields(m *yaml.Node, depth int) []Field {
	m = resolve(m)
	if m == nil || m.Kind != yaml.MappingNode || depth > maxMergeDepth {
		return nil
	}

	var merged, explicit []Field
	for i := 0; i+1 < len(m.Content); i += 2 {
		k, v := resolve(m.Content[i]), resolve(m.Content[i+1])
		if k.Kind == yaml.ScalarNode && k.ShortTag() == "!!merge" {
			merged = append(merged, mergeSources(v, depth)...)
			continue
		}
		explicit = append(explicit, Field{Name: k.Value, Key: k, Value: v})
	}

	out := make([]Field, 0, len(merged)+len(explicit))
	index := make(map[string]int)
	put := func(f Field, override bool) {
		if f.Key.Kind != yaml.ScalarNode {
			out = append(out, f)
			return
		}
		id := f.Key.ShortTag() + ":" + f.Name
		i, seen := index[id]
		switch {
		case !seen:
			index[id] = len(out)
			out = append(out, f)
		case override:
			out[i] = f
		}
	}
	for _, f := range merged {
		put(f, false)
	}
	for _, f := range explicit {
		put(f, true)
	}
	return out
}

// mergeSources lists the entries a merge value contributes. In a sequence
// of mappings the earlier mapping wins.
func mergeSources(v *yaml.Node, depth int) []Field {
	switch v.Kind {
	case yaml.MappingNode:
		return mergedFields(v, depth+1)
	case yaml.SequenceNode:
		var out []Field
		for _, n := range v.Content {
			out = append(out, mergedFields(n, depth+1)...)
		}
		return out
	}
	return nil
}

// resolve follows alias nodes to their anchors
func resolve(n *yaml.Node) *yaml.Node {
	for seen := 0; n != nil && n.Kind == yaml.AliasNode && n.Alias != nil && seen < 64; seen++ {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n == nil || (n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null")
}

// isEmptyCollection reports an empty mapping or empty sequence
func isEmptyCollection(n *yaml.Node) bool {
	return (n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode) && len(n.Content) == 0
}

// isFalsy mirrors the truthiness of the decoded value: null, false, zero,
// the empty string and empty collections are all falsy.
func isFalsy(n *yaml.Node) bool {
	if isNull(n) {
		return true
	}
	switch n.Kind {
	case yaml.MappingNode, yaml.SequenceNode:
		return len(n.Content) == 0
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!str":
			return n.Value == ""
		case "!!bool":
			var b bool
			return n.Decode(&b) == nil && !b
		case "!!int", "!!float":
			var f float64
			return n.Decode(&f) == nil && f == 0
		}
	}
	return false
}

func isTrue(n *yaml.Node) bool {
	if n.Kind != yaml.ScalarNode || n.ShortTag() != "!!bool" {
		return false
	}
	var b bool
	return n.Decode(&b) == nil && b
}
