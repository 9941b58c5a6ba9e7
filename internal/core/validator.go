package core

// Validate parses raw and runs every rule over it. A non-nil error is always
// a *ParseError and comes with a nil report; structural problems are only
// ever reported as findings.
func Validate(raw []byte) (*Report, error) {
	doc, err := ParseDocument(raw)
	if err != nil {
		return nil, err
	}
	return ValidateDocument(doc), nil
}

// ValidateDocument applies Rules in order and collects every finding
func ValidateDocument(doc *Document) *Report {
	var findings []Finding
	for _, rule := range Rules {
		for _, f := range rule.Check(doc) {
			f.Rule = rule.ID
			findings = append(findings, f)
		}
	}
	return NewReport(findings)
}
