// Package document defines the data model for the governed document tree:
// specs identified by domain/capability, and tasks pairing a change proposal
// with its execution plan and run records. The loader builds one full
// in-memory snapshot per invocation; nothing here touches the filesystem
// after Load returns.
package document

import (
	"regexp"
	"sort"
	"strings"

	"github.com/specgate/specgate/internal/frontmatter"
	"github.com/specgate/specgate/internal/issue"
	"github.com/specgate/specgate/internal/schema"
)

// Status values shared across kinds. Which values are legal for which kind
// is defined by the schema tables; which transitions are legal is defined by
// the gate package.
const (
	StatusDraft      = "draft"
	StatusActive     = "active"
	StatusDeprecated = "deprecated"
	StatusReview     = "review"
	StatusApproved   = "approved"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
	StatusRejected   = "rejected"
	StatusCanceled   = "canceled"
	StatusPlanned    = "planned"
	StatusBlocked    = "blocked"
	StatusSuccess    = "success"
	StatusPartial    = "partial"
	StatusFailure    = "failure"
)

// RiskLevel classifies a change and drives evidence requirements.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// RequiresEvidence reports whether successful runs at this risk level must
// carry evidence text.
func (r RiskLevel) RequiresEvidence() bool {
	return r == RiskHigh || r == RiskCritical
}

// Document holds the fields common to every parsed document.
type Document struct {
	Path          string // path relative to the workspace root
	Kind          schema.Kind
	Front         *frontmatter.Document
	SchemaVersion int
	Status        string
	Title         string
	Created       string
	Sections      map[string]string // H2 heading -> trimmed section content
}

// Spec is a specification document identified by domain/capability.
type Spec struct {
	Document
	Domain     string
	Capability string
}

// ID returns the spec identifier used by spec_refs.
func (s *Spec) ID() string {
	return s.Domain + "/" + s.Capability
}

// Change is a change proposal owned by a task directory.
type Change struct {
	Document
	TaskID       string
	ClarityScore int
	RiskLevel    RiskLevel
	SpecRefs     []string
}

// Plan is the execution plan paired one-to-one with a change by task name.
type Plan struct {
	Document
	TaskID         string
	ReadinessScore int
	SpecRefs       []string
}

// Run records one verification attempt for a plan.
type Run struct {
	Document
	TaskID    string
	Name      string // file stem under runs/
	Revision  string
	CodeRefs  []string
	RiskLevel RiskLevel
	Evidence  string // content of the Evidence section
}

// Task groups the change, plan, and runs sharing one task directory.
type Task struct {
	ID     string // NNNNNN_type_slug
	Seq    int
	Type   string
	Slug   string
	Dir    string // directory relative to the workspace root
	Change *Change
	Plan   *Plan
	Runs   []*Run
}

// taskDirPattern matches task directory names like 000042_feature_dark-mode.
var taskDirPattern = regexp.MustCompile(`^(\d{6})_(feature|fix|refactor|chore|docs)_([a-z0-9]+(?:-[a-z0-9]+)*)$`)

// ParseTaskDirName splits a task directory name into its sequence, type, and
// slug. The boolean is false when the name does not follow the convention.
func ParseTaskDirName(name string) (seq int, typ, slug string, ok bool) {
	m := taskDirPattern.FindStringSubmatch(name)
	if m == nil {
		return 0, "", "", false
	}
	for _, c := range m[1] {
		seq = seq*10 + int(c-'0')
	}
	return seq, m[2], m[3], true
}

// sectionPattern matches H2 headings that open a body section.
var sectionPattern = regexp.MustCompile(`(?m)^## +(.+?) *$`)

// SplitSections parses the Markdown body into a map of H2 heading to the
// trimmed content that follows it, up to the next H2 heading.
func SplitSections(body string) map[string]string {
	sections := make(map[string]string)
	matches := sectionPattern.FindAllStringSubmatchIndex(body, -1)
	for i, m := range matches {
		heading := body[m[2]:m[3]]
		start := m[1]
		end := len(body)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		sections[heading] = strings.TrimSpace(body[start:end])
	}
	return sections
}

// Tree is the full in-memory snapshot of one workspace scan.
type Tree struct {
	Root  string
	Specs map[string]*Spec // keyed by domain/capability
	Tasks map[string]*Task // keyed by task directory name

	// Issues collects parse and layout problems found while loading, so a
	// single scan still reports documents that could not be modeled.
	Issues []*issue.Issue
}

// SpecIDs returns the spec identifiers in sorted order.
func (t *Tree) SpecIDs() []string {
	ids := make([]string, 0, len(t.Specs))
	for id := range t.Specs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// TaskIDs returns the task identifiers in sorted order.
func (t *Tree) TaskIDs() []string {
	ids := make([]string, 0, len(t.Tasks))
	for id := range t.Tasks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// HasSpec reports whether a spec_refs value resolves to a loaded spec.
func (t *Tree) HasSpec(ref string) bool {
	_, ok := t.Specs[ref]
	return ok
}

// Documents returns every document in the tree in deterministic order:
// specs first, then per task its change, plan, and runs.
func (t *Tree) Documents() []*Document {
	var docs []*Document
	for _, id := range t.SpecIDs() {
		docs = append(docs, &t.Specs[id].Document)
	}
	for _, id := range t.TaskIDs() {
		task := t.Tasks[id]
		if task.Change != nil {
			docs = append(docs, &task.Change.Document)
		}
		if task.Plan != nil {
			docs = append(docs, &task.Plan.Document)
		}
		for _, run := range task.Runs {
			docs = append(docs, &run.Document)
		}
	}
	return docs
}
