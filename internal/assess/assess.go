// Package assess computes suggested clarity and readiness scores from
// document content. Suggestions are advisory input for the author; the
// declared score in frontmatter is what the gate enforces.
package assess

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/specgate/specgate/internal/document"
	"github.com/specgate/specgate/internal/refs"
	"github.com/specgate/specgate/internal/schema"
)

// MaxScore is the top of the scoring scale.
const MaxScore = 10

// Assessment is the suggested score for one document plus the gaps that
// lowered it. Deterministic: the same document always yields the same
// suggestion and gap order.
type Assessment struct {
	Doc       string   // document path relative to the workspace root
	Field     string   // score field being assessed
	Declared  int      // score currently declared in frontmatter
	Suggested int
	Gaps      []string
}

// stepPattern matches one numbered or bulleted entry in a Steps section.
var stepPattern = regexp.MustCompile(`(?m)^\s*(?:\d+\.|[-*])\s+\S`)

// Change scores a change document against the approval rubric.
func Change(tree *document.Tree, change *document.Change) Assessment {
	a := Assessment{
		Doc:       change.Path,
		Field:     "clarity_score",
		Declared:  change.ClarityScore,
		Suggested: MaxScore,
	}

	rs, err := schema.Lookup(schema.KindChange, change.SchemaVersion)
	if err != nil {
		a.Suggested = 0
		a.Gaps = append(a.Gaps, "unknown schema version, cannot assess")
		return a
	}

	for _, name := range rs.Sections {
		if empty(change.Sections[name]) {
			a.deduct(2, fmt.Sprintf("%s section is empty", name))
		}
	}

	if len(change.SpecRefs) == 0 {
		a.deduct(2, "no spec_refs, the change is not anchored to any capability")
	} else {
		resolver := refs.NewResolver(tree)
		for _, v := range resolver.SpecRefs(change.Path, change.SpecRefs) {
			a.deduct(1, v.Message)
		}
	}

	if change.RiskLevel.RequiresEvidence() {
		for _, name := range rs.RiskSections {
			if empty(change.Sections[name]) {
				a.deduct(2, fmt.Sprintf("%s section is required at %s risk and is empty", name, change.RiskLevel))
			}
		}
	}
	return a
}

// Plan scores a plan document against the execution-readiness rubric.
func Plan(tree *document.Tree, plan *document.Plan) Assessment {
	a := Assessment{
		Doc:       plan.Path,
		Field:     "readiness_score",
		Declared:  plan.ReadinessScore,
		Suggested: MaxScore,
	}

	rs, err := schema.Lookup(schema.KindPlan, plan.SchemaVersion)
	if err != nil {
		a.Suggested = 0
		a.Gaps = append(a.Gaps, "unknown schema version, cannot assess")
		return a
	}

	for _, name := range rs.Sections {
		if empty(plan.Sections[name]) {
			a.deduct(3, fmt.Sprintf("%s section is empty", name))
		}
	}

	if steps := plan.Sections["Steps"]; !empty(steps) && len(stepPattern.FindAllString(steps, -1)) < 2 {
		a.deduct(2, "Steps section has fewer than two enumerated steps")
	}

	if len(plan.SpecRefs) == 0 {
		a.deduct(2, "no spec_refs, the plan is not anchored to any capability")
	} else {
		resolver := refs.NewResolver(tree)
		for _, v := range resolver.SpecRefs(plan.Path, plan.SpecRefs) {
			a.deduct(1, v.Message)
		}
	}
	return a
}

// All assesses every change and plan in the tree in deterministic order.
func All(tree *document.Tree) []Assessment {
	var out []Assessment
	for _, id := range tree.TaskIDs() {
		task := tree.Tasks[id]
		if task.Change != nil {
			out = append(out, Change(tree, task.Change))
		}
		if task.Plan != nil {
			out = append(out, Plan(tree, task.Plan))
		}
	}
	return out
}

func (a *Assessment) deduct(points int, gap string) {
	a.Suggested -= points
	if a.Suggested < 0 {
		a.Suggested = 0
	}
	a.Gaps = append(a.Gaps, gap)
}

func empty(content string) bool {
	return strings.TrimSpace(content) == ""
}
