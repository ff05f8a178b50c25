// Package testutil provides test fixture helpers for specgate tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

// Workspace is a temporary document tree for tests. Cleanup is handled by
// t.TempDir.
type Workspace struct {
	t    *testing.T
	Root string
}

// NewWorkspace creates a temp workspace with empty specs/ and tasks/ dirs.
func NewWorkspace(t *testing.T) *Workspace {
	t.Helper()
	root := t.TempDir()
	for _, dir := range []string{"specs", "tasks", ".specgate"} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			t.Fatalf("failed to create %s: %v", dir, err)
		}
	}
	return &Workspace{t: t, Root: root}
}

// Write writes a file at a path relative to the workspace root, creating
// parent directories as needed.
func (w *Workspace) Write(rel, content string) {
	w.t.Helper()
	full := filepath.Join(w.Root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		w.t.Fatalf("failed to create parent of %s: %v", rel, err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		w.t.Fatalf("failed to write %s: %v", rel, err)
	}
}

// Read returns the content of a file relative to the workspace root.
func (w *Workspace) Read(rel string) string {
	w.t.Helper()
	data, err := os.ReadFile(filepath.Join(w.Root, filepath.FromSlash(rel)))
	if err != nil {
		w.t.Fatalf("failed to read %s: %v", rel, err)
	}
	return string(data)
}

// AddSpec writes a well-formed v1 spec document for domain/capability.
func (w *Workspace) AddSpec(domain, capability, status string) {
	w.t.Helper()
	doc := fmt.Sprintf(`---
schema_version: 1
status: %s
title: %s %s
created: 2026-01-10
---

## Overview

Capability %s in domain %s.

## Functional Requirements

- FR-001: The system does the primary thing.
- FR-002: The system does the secondary thing.

## Non-Functional Requirements

- NFR-001: The primary thing completes within a second.

## Acceptance Criteria

- AC-001: Primary thing observable.
- AC-002: Secondary thing observable.
`, status, domain, capability, capability, domain)
	w.Write(fmt.Sprintf("specs/%s/%s/spec.md", domain, capability), doc)
}

// AddChange writes a well-formed v1 change document in the given task dir.
func (w *Workspace) AddChange(taskID, status string, clarity int, risk string, specRefs []string) {
	w.t.Helper()
	refs := ""
	for _, r := range specRefs {
		refs += fmt.Sprintf("\n  - %s", r)
	}
	if refs == "" {
		refs = " []"
	}
	doc := fmt.Sprintf(`---
schema_version: 1
status: %s
title: Change for %s
created: 2026-01-12
risk_level: %s
clarity_score: %d
spec_refs:%s
---

## Why

The current behavior is insufficient.

## Impact

One endpoint changes shape.

## Rollback

Revert the deploy and restore the previous config.
`, status, taskID, risk, clarity, refs)
	w.Write(fmt.Sprintf("tasks/%s/change.md", taskID), doc)
}

// AddPlan writes a well-formed v1 plan document in the given task dir.
func (w *Workspace) AddPlan(taskID, status string, readiness int, specRefs []string) {
	w.t.Helper()
	refs := ""
	for _, r := range specRefs {
		refs += fmt.Sprintf("\n  - %s", r)
	}
	if refs == "" {
		refs = " []"
	}
	doc := fmt.Sprintf(`---
schema_version: 1
status: %s
title: Plan for %s
created: 2026-01-12
readiness_score: %d
spec_refs:%s
---

## Steps

1. Implement the change.
2. Ship it behind a flag.

## Verification

Run the integration suite against staging.
`, status, taskID, readiness, refs)
	w.Write(fmt.Sprintf("tasks/%s/plan.md", taskID), doc)
}

// AddRun writes a run record for the given task.
func (w *Workspace) AddRun(taskID, name, status, risk, revision string, codeRefs []string, evidence string) {
	w.t.Helper()
	refs := ""
	for _, r := range codeRefs {
		refs += fmt.Sprintf("\n  - %s", r)
	}
	if refs == "" {
		refs = " []"
	}
	doc := fmt.Sprintf(`---
schema_version: 1
status: %s
title: Run %s
created: 2026-01-13
risk_level: %s
revision: %q
code_refs:%s
---

## Evidence

%s
`, status, name, risk, revision, refs, evidence)
	w.Write(fmt.Sprintf("tasks/%s/runs/%s.md", taskID, name), doc)
}
