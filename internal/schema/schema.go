// Package schema maps a document kind and schema_version to the rule set the
// document must satisfy: required frontmatter fields, required body sections,
// and identifier numbering rules. Versions are additive: the rule set for
// version N contains everything required by versions 1..N.
package schema

import "fmt"

// Kind identifies a document kind.
type Kind string

const (
	// KindSpec is a specification document under specs/<domain>/<capability>/.
	KindSpec Kind = "spec"
	// KindChange is a change proposal under tasks/<id>/change.md.
	KindChange Kind = "change"
	// KindPlan is the execution plan paired with a change.
	KindPlan Kind = "plan"
	// KindRun is one verification attempt under tasks/<id>/runs/.
	KindRun Kind = "run"
)

// FieldType is the expected YAML type of a frontmatter field.
type FieldType string

const (
	FieldTypeString FieldType = "string"
	FieldTypeInt    FieldType = "int"
	FieldTypeList   FieldType = "list"
)

// Field defines one required or optional frontmatter field.
type Field struct {
	Name     string
	Type     FieldType
	Required bool
	Enum     []string // valid values, when restricted
	Pattern  string   // regex the value must match, when formatted
	Min      int      // minimum for int fields (inclusive)
	Max      int      // maximum for int fields (inclusive, 0 = unbounded)
}

// Numbering defines an identifier series that must appear in a body section:
// zero-padded three-digit ids with a fixed prefix, unique and ascending.
type Numbering struct {
	Prefix  string // e.g. "AC" for AC-001 style identifiers
	Section string // section heading the series lives under
}

// RuleSet is the full requirement set for one (kind, version) pair.
type RuleSet struct {
	Kind         Kind
	Version      int
	Fields       []Field
	Sections     []string    // required body section headings
	RiskSections []string    // sections additionally required for high/critical risk
	Numbering    []Numbering // identifier series rules
}

// UnknownSchemaError indicates an unsupported schema_version for a kind.
// Unknown versions never silently pass validation.
type UnknownSchemaError struct {
	Kind    Kind
	Version int
}

func (e *UnknownSchemaError) Error() string {
	return fmt.Sprintf("unknown schema version %d for kind %s (supported: 1-%d)",
		e.Version, e.Kind, LatestVersion(e.Kind))
}

// Lookup returns the merged rule set for the given kind and version. Rule
// sets are additive, so the result contains the requirements of every
// version up to and including the requested one.
func Lookup(kind Kind, version int) (*RuleSet, error) {
	increments, ok := rules[kind]
	if !ok {
		return nil, fmt.Errorf("unknown document kind: %s", kind)
	}
	if version < 1 || version > len(increments) {
		return nil, &UnknownSchemaError{Kind: kind, Version: version}
	}

	merged := &RuleSet{Kind: kind, Version: version}
	for _, inc := range increments[:version] {
		merged.Fields = append(merged.Fields, inc.Fields...)
		merged.Sections = append(merged.Sections, inc.Sections...)
		merged.RiskSections = append(merged.RiskSections, inc.RiskSections...)
		merged.Numbering = append(merged.Numbering, inc.Numbering...)
	}
	return merged, nil
}

// LatestVersion returns the highest registered schema version for a kind,
// or 0 for an unknown kind.
func LatestVersion(kind Kind) int {
	return len(rules[kind])
}

// Kinds returns all registered document kinds in stable order.
func Kinds() []Kind {
	return []Kind{KindSpec, KindChange, KindPlan, KindRun}
}
