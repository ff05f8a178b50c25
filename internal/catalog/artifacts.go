package catalog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/specgate/specgate/internal/document"
	"github.com/specgate/specgate/internal/issue"
)

// Artifact is one generated file with its freshly compiled content.
type Artifact struct {
	Path    string // relative to the workspace root
	Content []byte
}

// Artifacts compiles every derived artifact for the tree.
func Artifacts(tree *document.Tree, specsDir, tasksDir, catalogPath string) ([]Artifact, error) {
	snapshot, err := CompileJSON(tree)
	if err != nil {
		return nil, err
	}
	return []Artifact{
		{Path: filepath.ToSlash(filepath.Join(specsDir, "INDEX.md")), Content: SpecsIndex(tree)},
		{Path: filepath.ToSlash(filepath.Join(tasksDir, "INDEX.md")), Content: TasksIndex(tree)},
		{Path: catalogPath, Content: snapshot},
	}, nil
}

// WriteArtifacts regenerates the derived artifacts on disk. Each file is
// replaced whole; there is no partial-write protection beyond that.
func WriteArtifacts(root string, artifacts []Artifact) error {
	for _, a := range artifacts {
		full := filepath.Join(root, filepath.FromSlash(a.Path))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(a.Path), err)
		}
		if err := os.WriteFile(full, a.Content, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", a.Path, err)
		}
	}
	return nil
}

// CheckArtifacts compares freshly compiled artifacts against what is
// persisted and reports every stale or missing file. The diff excerpt names
// the first divergence to make the fix obvious.
func CheckArtifacts(root string, artifacts []Artifact) *issue.Report {
	report := &issue.Report{}
	for _, a := range artifacts {
		persisted, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(a.Path)))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				report.Add(&issue.Issue{
					Code:    issue.CodeStaleArtifact,
					Doc:     a.Path,
					Message: "generated artifact is missing",
					Hint:    "run `specgate compile` to regenerate it",
				})
				continue
			}
			report.Add(&issue.Issue{
				Code:    issue.CodeStaleArtifact,
				Doc:     a.Path,
				Message: fmt.Sprintf("cannot read generated artifact: %v", err),
			})
			continue
		}
		if string(persisted) != string(a.Content) {
			report.Add(&issue.Issue{
				Code:    issue.CodeStaleArtifact,
				Doc:     a.Path,
				Message: "generated artifact is out of sync with the source documents",
				Hint:    "run `specgate compile` to regenerate it; first divergence:\n" + diffExcerpt(string(persisted), string(a.Content)),
			})
		}
	}
	return report
}

// diffExcerpt returns a short patch-style excerpt of the first difference.
func diffExcerpt(persisted, fresh string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(persisted, fresh, true)
	patches := dmp.PatchMake(persisted, diffs)
	if len(patches) == 0 {
		return ""
	}
	text := dmp.PatchToText(patches[:1])
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	const maxLines = 12
	if len(lines) > maxLines {
		lines = append(lines[:maxLines], "...")
	}
	return strings.Join(lines, "\n")
}
