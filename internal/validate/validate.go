// Package validate applies the schema rule set to parsed documents. All
// checks collect issues per document and across the tree in one pass; the
// package never fails fast and never touches the filesystem.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/specgate/specgate/internal/document"
	"github.com/specgate/specgate/internal/issue"
	"github.com/specgate/specgate/internal/schema"
)

// All validates every document in the tree and returns the combined report,
// including parse issues recorded while loading.
func All(tree *document.Tree) *issue.Report {
	report := &issue.Report{}
	report.Add(tree.Issues...)
	for _, doc := range tree.Documents() {
		report.Merge(Document(doc))
	}
	return report
}

// Document validates a single document against its schema rule set.
func Document(doc *document.Document) *issue.Report {
	report := &issue.Report{}

	if _, ok := doc.Front.GetInt("schema_version"); !ok {
		report.Add(&issue.Issue{
			Code:    issue.CodeMissingField,
			Doc:     doc.Path,
			Field:   "schema_version",
			Message: "required field is missing",
			Hint:    fmt.Sprintf("add schema_version (latest for %s is %d)", doc.Kind, schema.LatestVersion(doc.Kind)),
		})
		return report
	}

	rs, err := schema.Lookup(doc.Kind, doc.SchemaVersion)
	if err != nil {
		report.Add(&issue.Issue{
			Code:    issue.CodeUnknownSchema,
			Doc:     doc.Path,
			Field:   "schema_version",
			Line:    doc.Front.FieldLine("schema_version"),
			Message: err.Error(),
			Hint:    "unknown schema versions never pass validation; run migrate to upgrade",
		})
		return report
	}

	checkFields(doc, rs, report)
	checkSections(doc, rs, report)
	checkNumbering(doc, rs, report)
	return report
}

func checkFields(doc *document.Document, rs *schema.RuleSet, report *issue.Report) {
	for _, field := range rs.Fields {
		value, present := doc.Front.Fields[field.Name]
		if !present {
			if field.Required {
				report.Add(&issue.Issue{
					Code:    issue.CodeMissingField,
					Doc:     doc.Path,
					Field:   field.Name,
					Message: "required field is missing",
				})
			}
			continue
		}
		checkFieldValue(doc, field, value, report)
	}
}

func checkFieldValue(doc *document.Document, field schema.Field, value any, report *issue.Report) {
	line := doc.Front.FieldLine(field.Name)

	switch field.Type {
	case schema.FieldTypeString:
		s, ok := value.(string)
		if !ok {
			report.Add(typeIssue(doc, field, line, "string", value))
			return
		}
		if field.Required && strings.TrimSpace(s) == "" {
			report.Add(&issue.Issue{
				Code: issue.CodeMissingField, Doc: doc.Path, Field: field.Name, Line: line,
				Message: "required field is empty",
			})
			return
		}
		if len(field.Enum) > 0 && !contains(field.Enum, s) {
			report.Add(&issue.Issue{
				Code: issue.CodeEnum, Doc: doc.Path, Field: field.Name, Line: line,
				Message: fmt.Sprintf("invalid value %q", s),
				Hint:    fmt.Sprintf("use one of: %s", strings.Join(field.Enum, ", ")),
			})
		}
		if field.Pattern != "" && s != "" {
			if !regexp.MustCompile(field.Pattern).MatchString(s) {
				report.Add(&issue.Issue{
					Code: issue.CodePattern, Doc: doc.Path, Field: field.Name, Line: line,
					Message: fmt.Sprintf("value %q does not match required format", s),
				})
			}
		}

	case schema.FieldTypeInt:
		n, ok := asInt(value)
		if !ok {
			report.Add(typeIssue(doc, field, line, "integer", value))
			return
		}
		if n < field.Min || (field.Max > 0 && n > field.Max) {
			upper := ""
			if field.Max > 0 {
				upper = fmt.Sprintf("-%d", field.Max)
			}
			report.Add(&issue.Issue{
				Code: issue.CodePattern, Doc: doc.Path, Field: field.Name, Line: line,
				Message: fmt.Sprintf("value %d is outside the allowed range %d%s", n, field.Min, upper),
			})
		}

	case schema.FieldTypeList:
		if _, ok := value.([]any); !ok && value != nil {
			report.Add(typeIssue(doc, field, line, "list", value))
		}
	}
}

func typeIssue(doc *document.Document, field schema.Field, line int, want string, got any) *issue.Issue {
	return &issue.Issue{
		Code: issue.CodeType, Doc: doc.Path, Field: field.Name, Line: line,
		Message: fmt.Sprintf("expected %s, got %T", want, got),
	}
}

func checkSections(doc *document.Document, rs *schema.RuleSet, report *issue.Report) {
	required := append([]string{}, rs.Sections...)
	if riskElevated(doc) {
		required = append(required, rs.RiskSections...)
	}
	for _, name := range required {
		if _, ok := doc.Sections[name]; !ok {
			report.Add(&issue.Issue{
				Code: issue.CodeSection, Doc: doc.Path, Field: name,
				Message: "required section heading is missing",
				Hint:    fmt.Sprintf("add a '## %s' section to the document body", name),
			})
		}
	}
}

// riskElevated reports whether the document declares high or critical risk.
func riskElevated(doc *document.Document) bool {
	risk, _ := doc.Front.GetString("risk_level")
	return document.RiskLevel(risk).RequiresEvidence()
}

// idPattern extracts list-item identifiers like "- AC-001:" from a section.
func idPattern(prefix string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^\s*[-*]\s+(` + prefix + `-\d+)\b`)
}

// wellFormedID matches the canonical zero-padded three-digit identifier.
var wellFormedID = regexp.MustCompile(`^[A-Z]+-\d{3}$`)

func checkNumbering(doc *document.Document, rs *schema.RuleSet, report *issue.Report) {
	for _, rule := range rs.Numbering {
		content, ok := doc.Sections[rule.Section]
		if !ok {
			continue // missing section already reported
		}
		ids := []string{}
		for _, m := range idPattern(rule.Prefix).FindAllStringSubmatch(content, -1) {
			ids = append(ids, m[1])
		}

		seen := make(map[string]bool)
		prev := ""
		for _, id := range ids {
			if !wellFormedID.MatchString(id) {
				report.Add(&issue.Issue{
					Code: issue.CodeNumbering, Doc: doc.Path, Field: rule.Section,
					Message: fmt.Sprintf("identifier %s is not zero-padded to three digits", id),
					Hint:    fmt.Sprintf("use the form %s-001", rule.Prefix),
				})
				continue
			}
			if seen[id] {
				report.Add(&issue.Issue{
					Code: issue.CodeNumbering, Doc: doc.Path, Field: rule.Section,
					Message: fmt.Sprintf("duplicate identifier %s", id),
				})
				continue
			}
			seen[id] = true
			if prev != "" && id <= prev {
				report.Add(&issue.Issue{
					Code: issue.CodeNumbering, Doc: doc.Path, Field: rule.Section,
					Message: fmt.Sprintf("identifier %s is out of order (follows %s)", id, prev),
				})
			}
			prev = id
		}
	}
}

// NumberedIDs returns the identifiers found for a numbering rule in a
// document, in source order. Used by the gate to enforce the non-empty
// requirement when a spec goes active.
func NumberedIDs(doc *document.Document, rule schema.Numbering) []string {
	content, ok := doc.Sections[rule.Section]
	if !ok {
		return nil
	}
	var ids []string
	for _, m := range idPattern(rule.Prefix).FindAllStringSubmatch(content, -1) {
		ids = append(ids, m[1])
	}
	return ids
}

func asInt(value any) (int, bool) {
	switch n := value.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
