// Package refs checks cross-document referential integrity: spec_refs
// entries must resolve to loaded specs, and successful runs must point at
// the work they verified. All checks collect every dangling reference in a
// single pass.
package refs

import (
	"fmt"
	"path"
	"regexp"

	"github.com/specgate/specgate/internal/document"
	"github.com/specgate/specgate/internal/issue"
)

// specRefPattern matches domain/capability references.
var specRefPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*/[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Resolver resolves references against one tree snapshot.
type Resolver struct {
	tree *document.Tree
}

// NewResolver creates a resolver over the given tree.
func NewResolver(tree *document.Tree) *Resolver {
	return &Resolver{tree: tree}
}

// SpecRefs verifies that every spec_refs entry resolves to an existing spec
// document. Unresolved entries are reported individually so one pass names
// every missing reference.
func (r *Resolver) SpecRefs(docPath string, specRefs []string) []*issue.Issue {
	var issues []*issue.Issue
	for _, ref := range specRefs {
		if !specRefPattern.MatchString(ref) {
			issues = append(issues, &issue.Issue{
				Code:    issue.CodePattern,
				Doc:     docPath,
				Field:   "spec_refs",
				Message: fmt.Sprintf("reference %q is not of the form domain/capability", ref),
			})
			continue
		}
		if !r.tree.HasSpec(ref) {
			issues = append(issues, &issue.Issue{
				Code:    issue.CodeDanglingRef,
				Doc:     docPath,
				Field:   "spec_refs",
				Message: fmt.Sprintf("reference %q does not resolve to a spec document", ref),
				Hint:    fmt.Sprintf("expected a document at %s", path.Join("specs", ref, "spec.md")),
			})
		}
	}
	return issues
}

// RunTarget verifies that a run points at what it verified: at least one of
// revision and code_refs must be populated. Required for successful runs.
func (r *Resolver) RunTarget(run *document.Run) []*issue.Issue {
	if run.Revision != "" || len(run.CodeRefs) > 0 {
		return nil
	}
	return []*issue.Issue{{
		Code:    issue.CodeMissingField,
		Doc:     run.Path,
		Field:   "revision",
		Message: "successful run must populate revision or code_refs",
		Hint:    "record the revision that was verified, or list the code references touched",
	}}
}

// All resolves every reference in the tree: spec_refs on changes and plans,
// and run targets for successful runs.
func (r *Resolver) All() *issue.Report {
	report := &issue.Report{}
	for _, id := range r.tree.TaskIDs() {
		task := r.tree.Tasks[id]
		if task.Change != nil {
			report.Add(r.SpecRefs(task.Change.Path, task.Change.SpecRefs)...)
		}
		if task.Plan != nil {
			report.Add(r.SpecRefs(task.Plan.Path, task.Plan.SpecRefs)...)
		}
		for _, run := range task.Runs {
			if run.Status == document.StatusSuccess {
				report.Add(r.RunTarget(run)...)
			}
		}
	}
	return report
}
