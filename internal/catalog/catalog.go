// Package catalog compiles derived artifacts from the document tree: a
// human-readable index per area and one machine-readable JSON snapshot.
// Compilation is deterministic: an identical input tree produces byte
// identical output, so staleness is detected by byte comparison.
package catalog

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/specgate/specgate/internal/document"
)

// Snapshot is the machine-readable view of the whole tree, keyed by
// identifier. It is regenerable from source documents and never hand-edited.
type Snapshot struct {
	// SnapshotID is derived from the snapshot content, not the clock, so
	// recompiling an unchanged tree yields identical bytes.
	SnapshotID string               `json:"snapshot_id"`
	Specs      map[string]SpecEntry `json:"specs"`
	Tasks      map[string]TaskEntry `json:"tasks"`
}

// SpecEntry summarizes one spec document.
type SpecEntry struct {
	Path          string `json:"path"`
	Title         string `json:"title"`
	Status        string `json:"status"`
	SchemaVersion int    `json:"schema_version"`
}

// ChangeEntry summarizes a change document.
type ChangeEntry struct {
	Status       string   `json:"status"`
	Title        string   `json:"title"`
	RiskLevel    string   `json:"risk_level"`
	ClarityScore int      `json:"clarity_score"`
	SpecRefs     []string `json:"spec_refs"`
}

// PlanEntry summarizes a plan document.
type PlanEntry struct {
	Status         string   `json:"status"`
	ReadinessScore int      `json:"readiness_score"`
	SpecRefs       []string `json:"spec_refs"`
}

// RunEntry summarizes a run record.
type RunEntry struct {
	Status      string   `json:"status"`
	Revision    string   `json:"revision,omitempty"`
	CodeRefs    []string `json:"code_refs,omitempty"`
	HasEvidence bool     `json:"has_evidence"`
}

// TaskEntry groups the change, plan, and runs of one task directory.
type TaskEntry struct {
	Seq    int                 `json:"seq"`
	Type   string              `json:"type"`
	Slug   string              `json:"slug"`
	Change *ChangeEntry        `json:"change,omitempty"`
	Plan   *PlanEntry          `json:"plan,omitempty"`
	Runs   map[string]RunEntry `json:"runs,omitempty"`
}

// Build constructs the snapshot view of a tree.
func Build(tree *document.Tree) *Snapshot {
	snap := &Snapshot{
		Specs: make(map[string]SpecEntry),
		Tasks: make(map[string]TaskEntry),
	}

	for id, spec := range tree.Specs {
		snap.Specs[id] = SpecEntry{
			Path:          spec.Path,
			Title:         spec.Title,
			Status:        spec.Status,
			SchemaVersion: spec.SchemaVersion,
		}
	}

	for id, task := range tree.Tasks {
		entry := TaskEntry{Seq: task.Seq, Type: task.Type, Slug: task.Slug}
		if c := task.Change; c != nil {
			entry.Change = &ChangeEntry{
				Status:       c.Status,
				Title:        c.Title,
				RiskLevel:    string(c.RiskLevel),
				ClarityScore: c.ClarityScore,
				SpecRefs:     sortedCopy(c.SpecRefs),
			}
		}
		if p := task.Plan; p != nil {
			entry.Plan = &PlanEntry{
				Status:         p.Status,
				ReadinessScore: p.ReadinessScore,
				SpecRefs:       sortedCopy(p.SpecRefs),
			}
		}
		if len(task.Runs) > 0 {
			entry.Runs = make(map[string]RunEntry, len(task.Runs))
			for _, run := range task.Runs {
				entry.Runs[run.Name] = RunEntry{
					Status:      run.Status,
					Revision:    run.Revision,
					CodeRefs:    sortedCopy(run.CodeRefs),
					HasEvidence: strings.TrimSpace(run.Evidence) != "",
				}
			}
		}
		snap.Tasks[id] = entry
	}
	return snap
}

// CompileJSON renders the snapshot deterministically. The snapshot id is a
// SHA1-derived UUID over the body, computed before the id field is filled.
func CompileJSON(tree *document.Tree) ([]byte, error) {
	snap := Build(tree)

	body, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshaling snapshot: %w", err)
	}
	snap.SnapshotID = uuid.NewSHA1(uuid.NameSpaceURL, body).String()

	out, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling snapshot: %w", err)
	}
	return append(out, '\n'), nil
}

// SpecsIndex renders the human-readable spec index grouped by domain.
func SpecsIndex(tree *document.Tree) []byte {
	var sb strings.Builder
	sb.WriteString("# Spec Index\n\n")
	sb.WriteString(generatedNotice)

	byDomain := make(map[string][]*document.Spec)
	for _, id := range tree.SpecIDs() {
		spec := tree.Specs[id]
		byDomain[spec.Domain] = append(byDomain[spec.Domain], spec)
	}
	domains := make([]string, 0, len(byDomain))
	for d := range byDomain {
		domains = append(domains, d)
	}
	sort.Strings(domains)

	for _, domain := range domains {
		sb.WriteString(fmt.Sprintf("## %s\n\n", domain))
		sb.WriteString("| Capability | Status | Title |\n")
		sb.WriteString("|------------|--------|-------|\n")
		for _, spec := range byDomain[domain] {
			sb.WriteString(fmt.Sprintf("| [%s](%s/spec.md) | %s | %s |\n",
				spec.Capability, spec.Capability, spec.Status, spec.Title))
		}
		sb.WriteString("\n")
	}
	return []byte(sb.String())
}

// taskStatusOrder fixes the grouping order of the task index.
var taskStatusOrder = []string{
	"draft", "review", "approved", "in_progress", "done", "rejected", "canceled", "unknown",
}

// TasksIndex renders the human-readable task index grouped by change status.
func TasksIndex(tree *document.Tree) []byte {
	var sb strings.Builder
	sb.WriteString("# Task Index\n\n")
	sb.WriteString(generatedNotice)

	byStatus := make(map[string][]*document.Task)
	for _, id := range tree.TaskIDs() {
		task := tree.Tasks[id]
		status := "unknown"
		if task.Change != nil && task.Change.Status != "" {
			status = task.Change.Status
		}
		byStatus[status] = append(byStatus[status], task)
	}

	for _, status := range taskStatusOrder {
		tasks, ok := byStatus[status]
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("## %s\n\n", status))
		sb.WriteString("| Task | Type | Risk | Clarity | Plan | Runs |\n")
		sb.WriteString("|------|------|------|---------|------|------|\n")
		for _, task := range tasks {
			risk, clarity := "-", "-"
			if task.Change != nil {
				risk = string(task.Change.RiskLevel)
				clarity = fmt.Sprintf("%d", task.Change.ClarityScore)
			}
			planStatus := "-"
			if task.Plan != nil {
				planStatus = task.Plan.Status
			}
			sb.WriteString(fmt.Sprintf("| [%s](%s/change.md) | %s | %s | %s | %s | %d |\n",
				task.ID, task.ID, task.Type, risk, clarity, planStatus, len(task.Runs)))
		}
		sb.WriteString("\n")
	}
	return []byte(sb.String())
}

const generatedNotice = "Generated by specgate. Do not edit by hand; run `specgate index` to refresh.\n\n"

func sortedCopy(list []string) []string {
	if len(list) == 0 {
		return nil
	}
	out := append([]string{}, list...)
	sort.Strings(out)
	return out
}
