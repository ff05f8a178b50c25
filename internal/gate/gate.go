// Package gate decides whether status transitions are permitted. A decision
// is ALLOW or DENY with the complete list of violated rules, so a caller can
// fix everything in one corrective pass; transitions are never retried
// automatically.
//
// Scores and risk levels are hard gates, never advisory: the assess command
// suggests scores, the gate enforces them.
package gate

import (
	"fmt"
	"strings"

	"github.com/specgate/specgate/internal/document"
	"github.com/specgate/specgate/internal/issue"
	"github.com/specgate/specgate/internal/refs"
	"github.com/specgate/specgate/internal/schema"
	"github.com/specgate/specgate/internal/validate"
)

// ScoreThreshold is the minimum clarity/readiness score for a change to be
// approved or a plan to start.
const ScoreThreshold = 7

// Decision is the outcome of evaluating one transition.
type Decision struct {
	Allowed    bool
	Violations []*issue.Issue
}

func deny(d *Decision, violations ...*issue.Issue) {
	d.Allowed = false
	d.Violations = append(d.Violations, violations...)
}

// EvaluateSpec evaluates a spec transition to the target status.
func EvaluateSpec(spec *document.Spec, target string) Decision {
	d := Decision{Allowed: true}
	checkTransition(&d, &spec.Document, target)
	if target == document.StatusActive {
		deny(&d, specActiveRequirements(spec)...)
		d.Allowed = len(d.Violations) == 0
	}
	return d
}

// EvaluateChange evaluates a change transition to the target status.
// Approval requires the tree to resolve spec_refs.
func EvaluateChange(tree *document.Tree, change *document.Change, target string) Decision {
	d := Decision{Allowed: true}
	checkTransition(&d, &change.Document, target)
	if target == document.StatusApproved {
		deny(&d, changeApprovedRequirements(tree, change)...)
		d.Allowed = len(d.Violations) == 0
	}
	return d
}

// EvaluatePlan evaluates a plan transition to the target status. The done
// gate reads the plan's runs from the tree snapshot.
func EvaluatePlan(tree *document.Tree, plan *document.Plan, target string) Decision {
	d := Decision{Allowed: true}
	checkTransition(&d, &plan.Document, target)
	switch target {
	case document.StatusInProgress:
		deny(&d, planReadinessRequirements(plan)...)
	case document.StatusDone:
		deny(&d, planDoneRequirements(tree, plan)...)
	}
	d.Allowed = len(d.Violations) == 0
	return d
}

// EvaluateRun evaluates a run record update to the target status.
func EvaluateRun(run *document.Run, target string) Decision {
	d := Decision{Allowed: true}
	checkTransition(&d, &run.Document, target)
	if target == document.StatusSuccess {
		deny(&d, runSuccessRequirements(run)...)
		d.Allowed = len(d.Violations) == 0
	}
	return d
}

func checkTransition(d *Decision, doc *document.Document, target string) {
	if !allowedTransition(doc.Kind, doc.Status, target) {
		deny(d, &issue.Issue{
			Code:    issue.CodeGate,
			Doc:     doc.Path,
			Field:   "status",
			Message: fmt.Sprintf("transition %s -> %s is not permitted for %s documents", doc.Status, target, doc.Kind),
		})
	}
}

// Check verifies that every document satisfies the entry requirements of the
// status it already declares, across the whole tree.
func Check(tree *document.Tree) *issue.Report {
	report := &issue.Report{}

	for _, id := range tree.SpecIDs() {
		spec := tree.Specs[id]
		if spec.Status == document.StatusActive {
			report.Add(specActiveRequirements(spec)...)
		}
	}

	for _, id := range tree.TaskIDs() {
		task := tree.Tasks[id]
		if c := task.Change; c != nil {
			switch c.Status {
			case document.StatusApproved, document.StatusInProgress, document.StatusDone:
				report.Add(changeApprovedRequirements(tree, c)...)
			}
		}
		if p := task.Plan; p != nil {
			switch p.Status {
			case document.StatusInProgress:
				report.Add(planReadinessRequirements(p)...)
			case document.StatusDone:
				report.Add(planReadinessRequirements(p)...)
				report.Add(planDoneRequirements(tree, p)...)
			}
		}
		for _, run := range task.Runs {
			if run.Status == document.StatusSuccess {
				report.Add(runSuccessRequirements(run)...)
			}
		}
	}
	return report
}

// specActiveRequirements enforces the numbering invariants for active specs:
// every identifier series present and duplicate-free.
func specActiveRequirements(spec *document.Spec) []*issue.Issue {
	var violations []*issue.Issue

	rs, err := schema.Lookup(schema.KindSpec, spec.SchemaVersion)
	if err != nil {
		// Unknown versions are reported by validate; the gate simply denies.
		return []*issue.Issue{{
			Code:    issue.CodeGate,
			Doc:     spec.Path,
			Field:   "schema_version",
			Message: "cannot activate a spec with an unknown schema version",
		}}
	}

	for _, rule := range rs.Numbering {
		ids := validate.NumberedIDs(&spec.Document, rule)
		if len(ids) == 0 {
			violations = append(violations, &issue.Issue{
				Code:    issue.CodeGate,
				Doc:     spec.Path,
				Field:   rule.Section,
				Message: fmt.Sprintf("active spec requires at least one %s-NNN entry", rule.Prefix),
			})
			continue
		}
		seen := make(map[string]bool)
		for _, id := range ids {
			if seen[id] {
				violations = append(violations, &issue.Issue{
					Code:    issue.CodeNumbering,
					Doc:     spec.Path,
					Field:   rule.Section,
					Message: fmt.Sprintf("duplicate identifier %s", id),
				})
			}
			seen[id] = true
		}
	}
	return violations
}

// changeApprovedRequirements enforces the approval gate: clarity score,
// resolvable spec_refs, populated key sections, and release/migration
// coverage at elevated risk.
func changeApprovedRequirements(tree *document.Tree, change *document.Change) []*issue.Issue {
	var violations []*issue.Issue

	if change.ClarityScore < ScoreThreshold {
		violations = append(violations, &issue.Issue{
			Code:    issue.CodeGate,
			Doc:     change.Path,
			Field:   "clarity_score",
			Message: fmt.Sprintf("clarity_score %d is below the approval threshold %d", change.ClarityScore, ScoreThreshold),
			Hint:    "run assess to see what is lowering the score",
		})
	}

	if len(change.SpecRefs) == 0 {
		violations = append(violations, &issue.Issue{
			Code:    issue.CodeGate,
			Doc:     change.Path,
			Field:   "spec_refs",
			Message: "approval requires at least one spec reference",
		})
	} else {
		violations = append(violations, refs.NewResolver(tree).SpecRefs(change.Path, change.SpecRefs)...)
	}

	rs, err := schema.Lookup(schema.KindChange, change.SchemaVersion)
	if err != nil {
		return violations
	}
	for _, name := range rs.Sections {
		if !populated(change.Sections[name]) {
			violations = append(violations, &issue.Issue{
				Code:    issue.CodeGate,
				Doc:     change.Path,
				Field:   name,
				Message: fmt.Sprintf("approval requires a populated %s section", name),
			})
		}
	}
	if change.RiskLevel.RequiresEvidence() {
		for _, name := range rs.RiskSections {
			if err := riskSectionSatisfied(change.Sections[name]); err != "" {
				violations = append(violations, &issue.Issue{
					Code:    issue.CodeGate,
					Doc:     change.Path,
					Field:   name,
					Message: err,
					Hint:    "populate the section, or mark it 'N/A — <justification>'",
				})
			}
		}
	}
	return violations
}

func planReadinessRequirements(plan *document.Plan) []*issue.Issue {
	if plan.ReadinessScore >= ScoreThreshold {
		return nil
	}
	return []*issue.Issue{{
		Code:    issue.CodeGate,
		Doc:     plan.Path,
		Field:   "readiness_score",
		Message: fmt.Sprintf("readiness_score %d is below the execution threshold %d", plan.ReadinessScore, ScoreThreshold),
	}}
}

// planDoneRequirements requires at least one successful run with recorded
// evidence. Runs come from the tree snapshot, not the filesystem.
func planDoneRequirements(tree *document.Tree, plan *document.Plan) []*issue.Issue {
	task := tree.Tasks[plan.TaskID]
	if task != nil {
		for _, run := range task.Runs {
			if run.Status != document.StatusSuccess {
				continue
			}
			if run.Evidence != "" || run.Revision != "" || len(run.CodeRefs) > 0 {
				return nil
			}
		}
	}
	return []*issue.Issue{{
		Code:    issue.CodeGate,
		Doc:     plan.Path,
		Field:   "status",
		Message: "completion requires at least one successful run with recorded evidence",
		Hint:    "add a run under runs/ with status success and an Evidence section",
	}}
}

func runSuccessRequirements(run *document.Run) []*issue.Issue {
	var violations []*issue.Issue

	if run.Revision == "" && len(run.CodeRefs) == 0 {
		violations = append(violations, &issue.Issue{
			Code:    issue.CodeMissingField,
			Doc:     run.Path,
			Field:   "revision",
			Message: "successful run must populate revision or code_refs",
		})
	}
	if run.RiskLevel.RequiresEvidence() && strings.TrimSpace(run.Evidence) == "" {
		violations = append(violations, &issue.Issue{
			Code:    issue.CodeGate,
			Doc:     run.Path,
			Field:   "Evidence",
			Message: fmt.Sprintf("successful runs at %s risk require evidence text", run.RiskLevel),
		})
	}
	return violations
}

func populated(content string) bool {
	return strings.TrimSpace(content) != ""
}

// riskSectionSatisfied accepts a populated section, or one explicitly marked
// not-applicable with a justification. Returns a violation message, or ""
// when satisfied.
func riskSectionSatisfied(content string) string {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return "section required at this risk level is empty"
	}
	upper := strings.ToUpper(trimmed)
	if strings.HasPrefix(upper, "N/A") {
		rest := strings.TrimLeft(trimmed[3:], " \t-—–:.")
		if rest == "" {
			return "section marked not-applicable without justification"
		}
	}
	return ""
}
