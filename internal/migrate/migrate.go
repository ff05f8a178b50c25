// Package migrate upgrades documents to the latest schema version of their
// kind. Missing required fields are backfilled with inert placeholders and
// missing required sections get empty headings, so a migrated document is
// structurally current but scores nothing on assessment until an author
// fills the placeholders in.
package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/specgate/specgate/internal/document"
	"github.com/specgate/specgate/internal/schema"
)

// Placeholder is the value backfilled into required string fields.
const Placeholder = "TBD"

// Result describes what migrating one document did, or would do.
type Result struct {
	Doc           string
	Kind          schema.Kind
	FromVersion   int
	ToVersion     int
	AddedFields   []string
	AddedSections []string
}

// Changed reports whether the migration modifies the document.
func (r *Result) Changed() bool {
	return r.FromVersion != r.ToVersion || len(r.AddedFields) > 0 || len(r.AddedSections) > 0
}

// Tree migrates every parseable document in the tree. With apply false this
// is a dry run: results describe the pending changes and nothing is written.
func Tree(tree *document.Tree, apply bool) ([]*Result, error) {
	var results []*Result
	for _, doc := range tree.Documents() {
		result, err := File(tree.Root, doc, apply)
		if err != nil {
			return results, err
		}
		if result.Changed() {
			results = append(results, result)
		}
	}
	return results, nil
}

// File migrates a single loaded document to the latest version of its kind.
func File(root string, doc *document.Document, apply bool) (*Result, error) {
	latest := schema.LatestVersion(doc.Kind)
	result := &Result{
		Doc:         doc.Path,
		Kind:        doc.Kind,
		FromVersion: doc.SchemaVersion,
		ToVersion:   latest,
	}

	rs, err := schema.Lookup(doc.Kind, latest)
	if err != nil {
		return nil, fmt.Errorf("looking up rules for %s: %w", doc.Kind, err)
	}

	front := doc.Front
	for _, field := range rs.Fields {
		if !field.Required {
			continue
		}
		if _, ok := front.Fields[field.Name]; ok {
			continue
		}
		result.AddedFields = append(result.AddedFields, field.Name)
	}

	requiredSections := append([]string{}, rs.Sections...)
	if risk, _ := doc.Front.GetString("risk_level"); document.RiskLevel(risk).RequiresEvidence() {
		requiredSections = append(requiredSections, rs.RiskSections...)
	}

	body := doc.Front.Body
	for _, name := range requiredSections {
		if _, ok := doc.Sections[name]; !ok {
			result.AddedSections = append(result.AddedSections, name)
		}
	}

	if !result.Changed() || !apply {
		return result, nil
	}

	if result.FromVersion != latest {
		if err := front.SetField("schema_version", latest); err != nil {
			return nil, fmt.Errorf("migrating %s: %w", doc.Path, err)
		}
	}
	for _, name := range result.AddedFields {
		if err := front.SetField(name, placeholderValue(rs, name)); err != nil {
			return nil, fmt.Errorf("migrating %s: %w", doc.Path, err)
		}
	}
	if len(result.AddedSections) > 0 {
		var sb strings.Builder
		sb.WriteString(strings.TrimRight(body, "\n"))
		for _, name := range result.AddedSections {
			sb.WriteString(fmt.Sprintf("\n\n## %s\n", name))
		}
		front.Body = sb.String() + "\n"
	}

	out, err := front.Serialize()
	if err != nil {
		return nil, fmt.Errorf("serializing %s: %w", doc.Path, err)
	}
	full := filepath.Join(root, filepath.FromSlash(doc.Path))
	if err := os.WriteFile(full, []byte(out), 0644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", doc.Path, err)
	}
	return result, nil
}

// placeholderValue picks the inert backfill value for a field by type.
func placeholderValue(rs *schema.RuleSet, name string) any {
	for _, field := range rs.Fields {
		if field.Name != name {
			continue
		}
		switch field.Type {
		case schema.FieldTypeInt:
			return 0
		case schema.FieldTypeList:
			return []string{}
		default:
			return Placeholder
		}
	}
	return Placeholder
}
