package document

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/specgate/specgate/internal/frontmatter"
	"github.com/specgate/specgate/internal/issue"
	"github.com/specgate/specgate/internal/schema"
)

// Load performs one full scan of the workspace and returns the tree
// snapshot. Documents with malformed frontmatter are recorded as parse
// issues on the tree rather than aborting the scan; only I/O failures are
// fatal, and they name the failing path.
func Load(root, specsDir, tasksDir string) (*Tree, error) {
	tree := &Tree{
		Root:  root,
		Specs: make(map[string]*Spec),
		Tasks: make(map[string]*Task),
	}

	fsys := os.DirFS(root)

	if err := loadSpecs(fsys, tree, specsDir); err != nil {
		return nil, err
	}
	if err := loadTasks(fsys, tree, tasksDir); err != nil {
		return nil, err
	}
	return tree, nil
}

func loadSpecs(fsys fs.FS, tree *Tree, specsDir string) error {
	matches, err := doublestar.Glob(fsys, path.Join(specsDir, "*", "*", "spec.md"))
	if err != nil {
		return fmt.Errorf("scanning %s: %w", specsDir, err)
	}

	for _, rel := range matches {
		front, ok, err := parseFile(fsys, rel, tree)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		parts := strings.Split(rel, "/")
		// specs/<domain>/<capability>/spec.md
		domain := parts[len(parts)-3]
		capability := parts[len(parts)-2]

		spec := &Spec{
			Document:   buildDocument(rel, schema.KindSpec, front),
			Domain:     domain,
			Capability: capability,
		}
		tree.Specs[spec.ID()] = spec
	}
	return nil
}

func loadTasks(fsys fs.FS, tree *Tree, tasksDir string) error {
	entries, err := fs.ReadDir(fsys, tasksDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil // no tasks yet
		}
		return fmt.Errorf("scanning %s: %w", tasksDir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		seq, typ, slug, ok := ParseTaskDirName(name)
		if !ok {
			tree.Issues = append(tree.Issues, &issue.Issue{
				Code:    issue.CodePattern,
				Doc:     path.Join(tasksDir, name),
				Message: "task directory name does not match NNNNNN_type_slug",
				Hint:    "expected a zero-padded 6-digit sequence, a type (feature/fix/refactor/chore/docs), and a kebab-case slug",
			})
			continue
		}

		task := &Task{
			ID:   name,
			Seq:  seq,
			Type: typ,
			Slug: slug,
			Dir:  path.Join(tasksDir, name),
		}
		tree.Tasks[name] = task

		changePath := path.Join(task.Dir, "change.md")
		front, ok, err := parseExpectedFile(fsys, changePath, tree)
		if err != nil {
			return err
		}
		if ok {
			task.Change = buildChange(changePath, name, front)
		}

		planPath := path.Join(task.Dir, "plan.md")
		front, ok, err = parseExpectedFile(fsys, planPath, tree)
		if err != nil {
			return err
		}
		if ok {
			task.Plan = buildPlan(planPath, name, front)
		}

		if err := loadRuns(fsys, tree, task); err != nil {
			return err
		}
	}
	return nil
}

func loadRuns(fsys fs.FS, tree *Tree, task *Task) error {
	runsDir := path.Join(task.Dir, "runs")
	matches, err := doublestar.Glob(fsys, path.Join(runsDir, "*.md"))
	if err != nil {
		return fmt.Errorf("scanning %s: %w", runsDir, err)
	}

	for _, rel := range matches {
		front, ok, err := parseFile(fsys, rel, tree)
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		run := buildRun(rel, task.ID, front)
		task.Runs = append(task.Runs, run)
	}
	return nil
}

// parseFile reads and parses a document, recording a parse issue on the
// tree when the frontmatter is malformed. The boolean is false when the
// document could not be parsed; a non-nil error is a fatal I/O failure.
func parseFile(fsys fs.FS, rel string, tree *Tree) (*frontmatter.Document, bool, error) {
	data, err := fs.ReadFile(fsys, rel)
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", rel, err)
	}
	front, err := frontmatter.Parse(string(data))
	if err != nil {
		var parseErr *frontmatter.ParseError
		line := 0
		msg := err.Error()
		if errors.As(err, &parseErr) {
			line = parseErr.Line
			msg = parseErr.Message
		}
		tree.Issues = append(tree.Issues, &issue.Issue{
			Code:    issue.CodeParse,
			Doc:     rel,
			Line:    line,
			Message: msg,
			Hint:    "documents must begin with a --- delimited YAML frontmatter block",
		})
		return nil, false, nil
	}
	return front, true, nil
}

// parseExpectedFile is parseFile for documents whose absence is reported as
// a layout issue instead of a fatal I/O failure.
func parseExpectedFile(fsys fs.FS, rel string, tree *Tree) (*frontmatter.Document, bool, error) {
	if _, err := fs.Stat(fsys, rel); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			tree.Issues = append(tree.Issues, &issue.Issue{
				Code:    issue.CodeParse,
				Doc:     rel,
				Message: "required document is missing",
				Hint:    fmt.Sprintf("every task directory must contain %s", filepath.Base(rel)),
			})
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading %s: %w", rel, err)
	}
	return parseFile(fsys, rel, tree)
}

func buildDocument(rel string, kind schema.Kind, front *frontmatter.Document) Document {
	doc := Document{
		Path:     rel,
		Kind:     kind,
		Front:    front,
		Sections: SplitSections(front.Body),
	}
	doc.SchemaVersion, _ = front.GetInt("schema_version")
	doc.Status, _ = front.GetString("status")
	doc.Title, _ = front.GetString("title")
	doc.Created, _ = front.GetString("created")
	return doc
}

func buildChange(rel, taskID string, front *frontmatter.Document) *Change {
	c := &Change{
		Document: buildDocument(rel, schema.KindChange, front),
		TaskID:   taskID,
	}
	c.ClarityScore, _ = front.GetInt("clarity_score")
	risk, _ := front.GetString("risk_level")
	c.RiskLevel = RiskLevel(risk)
	c.SpecRefs, _ = front.GetStringList("spec_refs")
	return c
}

func buildPlan(rel, taskID string, front *frontmatter.Document) *Plan {
	p := &Plan{
		Document: buildDocument(rel, schema.KindPlan, front),
		TaskID:   taskID,
	}
	p.ReadinessScore, _ = front.GetInt("readiness_score")
	p.SpecRefs, _ = front.GetStringList("spec_refs")
	return p
}

func buildRun(rel, taskID string, front *frontmatter.Document) *Run {
	r := &Run{
		Document: buildDocument(rel, schema.KindRun, front),
		TaskID:   taskID,
		Name:     strings.TrimSuffix(path.Base(rel), ".md"),
	}
	r.Revision, _ = front.GetString("revision")
	r.CodeRefs, _ = front.GetStringList("code_refs")
	risk, _ := front.GetString("risk_level")
	r.RiskLevel = RiskLevel(risk)
	r.Evidence = r.Sections["Evidence"]
	return r
}
