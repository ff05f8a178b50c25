// Package scaffold generates well-formed starter documents: workspace
// layout, spec skeletons, task directories pairing a change with its plan,
// and run records. Generated documents carry the latest schema version and
// enough placeholder structure to validate cleanly except where an author
// must supply real content.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"
	"time"

	"github.com/specgate/specgate/internal/document"
	"github.com/specgate/specgate/internal/schema"
)

var (
	namePattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

	taskTypes = map[string]bool{
		"feature": true, "fix": true, "refactor": true, "chore": true, "docs": true,
	}
)

// TaskDirName renders the canonical task directory name.
func TaskDirName(seq int, typ, slug string) string {
	return fmt.Sprintf("%06d_%s_%s", seq, typ, slug)
}

// RunFileName renders the timestamped run file stem.
func RunFileName(now time.Time) string {
	return "run_" + now.Format("20060102_150405")
}

// ValidateName checks a domain, capability, or slug against the naming
// convention: lowercase alphanumerics with single hyphens.
func ValidateName(kind, name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid %s %q: must be lowercase alphanumerics separated by hyphens", kind, name)
	}
	return nil
}

// ValidateTaskType checks a task type against the allowed set.
func ValidateTaskType(typ string) error {
	if !taskTypes[typ] {
		return fmt.Errorf("invalid task type %q: must be feature, fix, refactor, chore, or docs", typ)
	}
	return nil
}

var specTemplate = template.Must(template.New("spec").Parse(`---
schema_version: {{.Version}}
status: draft
title: {{.Title}}
created: {{.Date}}
owner: {{.Owner}}
---

## Overview

Describe what the {{.Capability}} capability of the {{.Domain}} domain does
and why it exists.

## Functional Requirements

- FR-001: TBD

## Non-Functional Requirements

- NFR-001: TBD

## Acceptance Criteria

- AC-001: TBD
`))

var changeTemplate = template.Must(template.New("change").Parse(`---
schema_version: {{.Version}}
status: draft
title: {{.Title}}
created: {{.Date}}
risk_level: medium
clarity_score: 0
spec_refs: []
---

## Why

## Impact

## Rollback
`))

var planTemplate = template.Must(template.New("plan").Parse(`---
schema_version: {{.Version}}
status: planned
title: Plan for {{.Title}}
created: {{.Date}}
readiness_score: 0
spec_refs: []
---

## Steps

1. TBD

## Verification
`))

var runTemplate = template.Must(template.New("run").Parse(`---
schema_version: {{.Version}}
status: {{.Status}}
title: {{.Title}}
created: {{.Date}}
risk_level: {{.RiskLevel}}
revision: ""
code_refs: []
---

## Evidence
`))

// Init creates the workspace skeleton: the document directories plus the
// state directory. Existing directories are left untouched.
func Init(root string, dirs ...string) error {
	for _, dir := range dirs {
		if err := os.MkdirAll(filepath.Join(root, filepath.FromSlash(dir)), 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	return nil
}

// NewSpec writes a spec skeleton for domain/capability. The path of the new
// document is returned relative to the root.
func NewSpec(root, specsDir, domain, capability, owner string, now time.Time) (string, error) {
	if err := ValidateName("domain", domain); err != nil {
		return "", err
	}
	if err := ValidateName("capability", capability); err != nil {
		return "", err
	}
	if owner == "" {
		owner = "TBD"
	}

	rel := filepath.ToSlash(filepath.Join(specsDir, domain, capability, "spec.md"))
	data := map[string]any{
		"Version":    schema.LatestVersion(schema.KindSpec),
		"Title":      fmt.Sprintf("%s %s", domain, capability),
		"Date":       now.Format("2006-01-02"),
		"Owner":      owner,
		"Domain":     domain,
		"Capability": capability,
	}
	if err := render(root, rel, specTemplate, data); err != nil {
		return "", err
	}
	return rel, nil
}

// NewTask writes the change and plan pair plus an empty runs directory for
// an allocated sequence number. The task directory name is returned.
func NewTask(root, tasksDir string, seq int, typ, slug, title string, now time.Time) (string, error) {
	if err := ValidateTaskType(typ); err != nil {
		return "", err
	}
	if err := ValidateName("slug", slug); err != nil {
		return "", err
	}
	if title == "" {
		title = strings.ReplaceAll(slug, "-", " ")
	}

	name := TaskDirName(seq, typ, slug)
	if _, _, _, ok := document.ParseTaskDirName(name); !ok {
		return "", fmt.Errorf("generated task name %q does not follow the convention", name)
	}

	date := now.Format("2006-01-02")
	changeRel := filepath.ToSlash(filepath.Join(tasksDir, name, "change.md"))
	if err := render(root, changeRel, changeTemplate, map[string]any{
		"Version": schema.LatestVersion(schema.KindChange),
		"Title":   title,
		"Date":    date,
	}); err != nil {
		return "", err
	}

	planRel := filepath.ToSlash(filepath.Join(tasksDir, name, "plan.md"))
	if err := render(root, planRel, planTemplate, map[string]any{
		"Version": schema.LatestVersion(schema.KindPlan),
		"Title":   title,
		"Date":    date,
	}); err != nil {
		return "", err
	}

	runsDir := filepath.Join(root, filepath.FromSlash(tasksDir), name, "runs")
	if err := os.MkdirAll(runsDir, 0755); err != nil {
		return "", fmt.Errorf("creating runs dir for %s: %w", name, err)
	}
	return name, nil
}

// NewRun writes a run record skeleton for the task. The run inherits the
// change's risk level so the evidence requirement is visible from the start.
func NewRun(root, tasksDir, taskID, status string, riskLevel document.RiskLevel, now time.Time) (string, error) {
	valid := false
	for _, s := range []string{document.StatusSuccess, document.StatusPartial, document.StatusFailure} {
		if status == s {
			valid = true
		}
	}
	if !valid {
		return "", fmt.Errorf("invalid run status %q: must be success, partial, or failure", status)
	}
	if riskLevel == "" {
		riskLevel = document.RiskMedium
	}

	name := RunFileName(now)
	rel := filepath.ToSlash(filepath.Join(tasksDir, taskID, "runs", name+".md"))
	if err := render(root, rel, runTemplate, map[string]any{
		"Version":   schema.LatestVersion(schema.KindRun),
		"Status":    status,
		"Title":     fmt.Sprintf("Run %s", name),
		"Date":      now.Format("2006-01-02"),
		"RiskLevel": string(riskLevel),
	}); err != nil {
		return "", err
	}
	return rel, nil
}

// render executes the template into a new file, refusing to overwrite.
func render(root, rel string, tmpl *template.Template, data any) error {
	full := filepath.Join(root, filepath.FromSlash(rel))
	if _, err := os.Stat(full); err == nil {
		return fmt.Errorf("%s already exists", rel)
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("creating parent of %s: %w", rel, err)
	}
	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", rel, err)
	}
	defer f.Close()
	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("rendering %s: %w", rel, err)
	}
	return nil
}
