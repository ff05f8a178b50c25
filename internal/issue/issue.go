// Package issue defines the structured findings reported by frontmatter
// parsing, schema validation, reference resolution, gate evaluation, and
// staleness checks. All checks collect issues rather than failing fast so a
// single run reports every problem in the tree.
package issue

import (
	"fmt"
	"sort"
	"strings"
)

// Code classifies an issue. Codes are stable strings so downstream tooling
// can filter on them.
type Code string

const (
	// CodeParse indicates malformed or missing frontmatter.
	CodeParse Code = "parse"
	// CodeUnknownSchema indicates an unsupported schema_version.
	CodeUnknownSchema Code = "unknown-schema"
	// CodeMissingField indicates a required frontmatter field is absent or empty.
	CodeMissingField Code = "missing-field"
	// CodeType indicates a field value has the wrong type.
	CodeType Code = "type"
	// CodeEnum indicates a field value is outside its allowed set.
	CodeEnum Code = "enum"
	// CodePattern indicates a field value does not match its required format.
	CodePattern Code = "pattern"
	// CodeSection indicates a required body section is missing or empty.
	CodeSection Code = "section"
	// CodeNumbering indicates duplicate, malformed, or out-of-order
	// AC/FR/NFR identifiers.
	CodeNumbering Code = "numbering"
	// CodeDanglingRef indicates a spec_refs entry that resolves to nothing.
	CodeDanglingRef Code = "dangling-ref"
	// CodeGate indicates a blocked status transition or an unsatisfied
	// requirement of the document's current status.
	CodeGate Code = "gate"
	// CodeStaleArtifact indicates a generated artifact is out of sync with
	// the source documents.
	CodeStaleArtifact Code = "stale-artifact"
)

// Issue is a single finding against one document.
type Issue struct {
	Code    Code
	Doc     string // document path relative to the workspace root
	Field   string // frontmatter field or section name, if applicable
	Line    int    // 1-based line in the source file, 0 if unknown
	Message string
	Hint    string // suggestion for fixing the issue
}

// Error implements the error interface.
func (i *Issue) Error() string {
	var sb strings.Builder
	if i.Doc != "" {
		sb.WriteString(i.Doc)
		if i.Line > 0 {
			sb.WriteString(fmt.Sprintf(":%d", i.Line))
		}
		sb.WriteString(": ")
	}
	sb.WriteString(fmt.Sprintf("[%s] ", i.Code))
	if i.Field != "" {
		sb.WriteString(fmt.Sprintf("%s: ", i.Field))
	}
	sb.WriteString(i.Message)
	return sb.String()
}

// Report accumulates issues across documents.
type Report struct {
	Issues []*Issue
}

// Add appends issues to the report.
func (r *Report) Add(issues ...*Issue) {
	r.Issues = append(r.Issues, issues...)
}

// Merge appends all issues from another report.
func (r *Report) Merge(other *Report) {
	if other != nil {
		r.Issues = append(r.Issues, other.Issues...)
	}
}

// HasIssues reports whether any issue was collected.
func (r *Report) HasIssues() bool {
	return len(r.Issues) > 0
}

// HasCode reports whether any issue carries the given code.
func (r *Report) HasCode(code Code) bool {
	for _, i := range r.Issues {
		if i.Code == code {
			return true
		}
	}
	return false
}

// ByDocument returns the issues grouped by document path. Document order and
// issue order within a document are deterministic.
func (r *Report) ByDocument() ([]string, map[string][]*Issue) {
	grouped := make(map[string][]*Issue)
	for _, i := range r.Issues {
		grouped[i.Doc] = append(grouped[i.Doc], i)
	}
	docs := make([]string, 0, len(grouped))
	for doc := range grouped {
		docs = append(docs, doc)
	}
	sort.Strings(docs)
	for _, issues := range grouped {
		sort.SliceStable(issues, func(a, b int) bool {
			if issues[a].Line != issues[b].Line {
				return issues[a].Line < issues[b].Line
			}
			return issues[a].Field < issues[b].Field
		})
	}
	return docs, grouped
}

// Format renders the report as plain text grouped by document.
func (r *Report) Format() string {
	if !r.HasIssues() {
		return ""
	}
	var sb strings.Builder
	docs, grouped := r.ByDocument()
	for _, doc := range docs {
		name := doc
		if name == "" {
			name = "(workspace)"
		}
		sb.WriteString(name)
		sb.WriteString("\n")
		for _, i := range grouped[doc] {
			sb.WriteString(fmt.Sprintf("  [%s] ", i.Code))
			if i.Field != "" {
				sb.WriteString(fmt.Sprintf("%s: ", i.Field))
			}
			sb.WriteString(i.Message)
			sb.WriteString("\n")
			if i.Hint != "" {
				sb.WriteString(fmt.Sprintf("    hint: %s\n", i.Hint))
			}
		}
	}
	return sb.String()
}
