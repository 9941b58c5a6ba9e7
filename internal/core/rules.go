package core

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Rule is one structural check. Check inspects the document and returns
// its findings; rules never look at each other's output.
type Rule struct {
	ID    string
	Check func(doc *Document) []Finding
}

// Rules is the fixed evaluation order
var Rules = []Rule{
	{ID: "name-present", Check: checkNamePresent},
	{ID: "trigger-present", Check: checkTriggerPresent},
	{ID: "trigger-not-empty", Check: checkTriggerNotEmpty},
	{ID: "trigger-config-not-empty", Check: checkTriggerConfigs},
	{ID: "jobs-present", Check: checkJobsPresent},
	{ID: "jobs-not-empty", Check: checkJobsNotEmpty},
	{ID: "job-shape", Check: checkJobShape},
}

func checkNamePresent(doc *Document) []Finding {
	if _, ok := doc.Lookup("name"); ok {
		return nil
	}
	return []Finding{newFinding(SeverityError, DocumentScope, nil, "Missing required field: name")}
}

func checkTriggerPresent(doc *Document) []Finding {
	if doc.Triggers().Present() {
		return nil
	}
	return []Finding{newFinding(SeverityError, DocumentScope, nil, "Missing required field: on (triggers)")}
}

func checkTriggerNotEmpty(doc *Document) []Finding {
	t := doc.Triggers()
	if !t.Empty() {
		return nil
	}
	return []Finding{newFinding(SeverityError, DocumentScope, t.Key, "Empty on field - no triggers defined")}
}

func checkTriggerConfigs(doc *Document) []Finding {
	var out []Finding
	for _, c := range doc.Triggers().Configs() {
		if !isEmptyCollection(c.Value) {
			continue
		}
		msg := fmt.Sprintf("Empty %s trigger configuration", c.Name)
		if c.Value.Kind == yaml.SequenceNode {
			msg = fmt.Sprintf("Empty %s trigger list", c.Name)
		}
		out = append(out, newFinding(SeverityWarning, TriggerScope(c.Name), c.Key, msg))
	}
	return out
}

func checkJobsPresent(doc *Document) []Finding {
	if _, ok := doc.Lookup("jobs"); ok {
		return nil
	}
	return []Finding{newFinding(SeverityError, DocumentScope, nil, "Missing required field: jobs")}
}

func checkJobsNotEmpty(doc *Document) []Finding {
	f, ok := doc.Lookup("jobs")
	if !ok {
		return nil
	}
	if isFalsy(f.Value) {
		return []Finding{newFinding(SeverityError, DocumentScope, f.Key, "Empty jobs field - no jobs defined")}
	}
	if f.Value.Kind != yaml.MappingNode {
		return []Finding{newFinding(SeverityError, DocumentScope, f.Key, "Jobs field is not a mapping")}
	}
	return nil
}

func checkJobShape(doc *Document) []Finding {
	jobs, ok := doc.Jobs()
	if !ok {
		return nil
	}
	var out []Finding
	for _, j := range jobs {
		scope := JobScope(j.Name)
		if !j.IsMapping() {
			out = append(out, newFinding(SeverityError, scope, j.Key, fmt.Sprintf("Job %s is not a dictionary", j.Name)))
			continue
		}
		if _, ok := j.RunsOn(); !ok {
			out = append(out, newFinding(SeverityError, scope, j.Key, fmt.Sprintf("Job %s missing runs-on field", j.Name)))
		}
		steps, ok := j.Steps()
		switch {
		case !ok:
			out = append(out, newFinding(SeverityError, scope, j.Key, fmt.Sprintf("Job %s missing steps field", j.Name)))
		case isFalsy(steps.Value):
			out = append(out, newFinding(SeverityError, scope, steps.Key, fmt.Sprintf("Job %s has empty steps", j.Name)))
		case steps.Value.Kind != yaml.SequenceNode:
			out = append(out, newFinding(SeverityError, scope, steps.Key, fmt.Sprintf("Job %s steps field is not a list", j.Name)))
		}
	}
	return out
}

// newFinding positions the finding at node when there is one
func newFinding(sev Severity, scope Scope, node *yaml.Node, msg string) Finding {
	f := Finding{Severity: sev, Scope: scope, Message: msg}
	if node != nil {
		f.Line, f.Column = node.Line, node.Column
	}
	return f
}
