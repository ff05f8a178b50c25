// Package archive copies finished work into the history tree: tasks whose
// change reached a terminal status, and deprecated specs. Archived
// directories are copied under history/<YYYY-MM-DD>/ keeping their relative
// layout; sources are never deleted, removal stays a human decision.
package archive

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/specgate/specgate/internal/document"
)

// Entry describes one directory selected for archiving.
type Entry struct {
	ID   string // spec id or task id
	From string // current directory relative to the workspace root
	To   string // destination under the history dir
}

// Selection is the archive plan for one tree scan.
type Selection struct {
	Specs []Entry
	Tasks []Entry
}

// Empty reports whether nothing qualifies for archiving.
func (s *Selection) Empty() bool {
	return len(s.Specs) == 0 && len(s.Tasks) == 0
}

// archivableChange reports whether a change status ends the task's life.
func archivableChange(status string) bool {
	switch status {
	case document.StatusDone, document.StatusRejected, document.StatusCanceled:
		return true
	}
	return false
}

// Select picks the archivable directories from the tree. Tasks qualify when
// the change is done, rejected, or canceled; specs when deprecated. The
// destination is dated with now, normally the wall clock.
func Select(tree *document.Tree, specsDir, tasksDir, historyDir string, now time.Time) *Selection {
	stamp := now.Format("2006-01-02")
	sel := &Selection{}

	for _, id := range tree.SpecIDs() {
		spec := tree.Specs[id]
		if spec.Status != document.StatusDeprecated {
			continue
		}
		from := filepath.ToSlash(filepath.Join(specsDir, spec.Domain, spec.Capability))
		sel.Specs = append(sel.Specs, Entry{
			ID:   id,
			From: from,
			To:   filepath.ToSlash(filepath.Join(historyDir, stamp, from)),
		})
	}

	for _, id := range tree.TaskIDs() {
		task := tree.Tasks[id]
		if task.Change == nil || !archivableChange(task.Change.Status) {
			continue
		}
		if task.Plan != nil && task.Change.Status == document.StatusDone && task.Plan.Status != document.StatusDone {
			// A done change with an unfinished plan is inconsistent; leave it
			// out for the gate check to flag.
			continue
		}
		from := filepath.ToSlash(filepath.Join(tasksDir, id))
		sel.Tasks = append(sel.Tasks, Entry{
			ID:   id,
			From: from,
			To:   filepath.ToSlash(filepath.Join(historyDir, stamp, from)),
		})
	}
	return sel
}

// Apply copies every selected directory into the history tree. Destinations
// that already exist abort before anything is copied, so a re-run never
// overwrites an earlier archive.
func Apply(root string, sel *Selection) error {
	entries := append(append([]Entry{}, sel.Specs...), sel.Tasks...)

	for _, e := range entries {
		dest := filepath.Join(root, filepath.FromSlash(e.To))
		if _, err := os.Stat(dest); err == nil {
			return fmt.Errorf("archive destination already exists: %s", e.To)
		}
	}

	for _, e := range entries {
		src := filepath.Join(root, filepath.FromSlash(e.From))
		dest := filepath.Join(root, filepath.FromSlash(e.To))
		if err := copyDir(src, dest); err != nil {
			return fmt.Errorf("archiving %s: %w", e.From, err)
		}
	}
	return nil
}

// copyDir copies a directory tree, preserving the relative layout.
func copyDir(src, dest string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dest, rel)

		if d.IsDir() {
			return os.MkdirAll(target, 0755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0644)
	})
}
