package migrate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specgate/specgate/internal/document"
	"github.com/specgate/specgate/internal/testutil"
)

func loadTree(t *testing.T, w *testutil.Workspace) *document.Tree {
	t.Helper()
	tree, err := document.Load(w.Root, "specs", "tasks")
	require.NoError(t, err)
	return tree
}

func TestDryRunReportsWithoutWriting(t *testing.T) {
	t.Parallel()

	w := testutil.NewWorkspace(t)
	w.AddSpec("payment", "refund", "draft")
	before := w.Read("specs/payment/refund/spec.md")

	results, err := Tree(loadTree(t, w), false)
	require.NoError(t, err)

	// v1 spec upgrades to v2 and gains the owner field.
	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, "specs/payment/refund/spec.md", r.Doc)
	assert.Equal(t, 1, r.FromVersion)
	assert.Equal(t, 2, r.ToVersion)
	assert.Equal(t, []string{"owner"}, r.AddedFields)
	assert.Empty(t, r.AddedSections)

	assert.Equal(t, before, w.Read("specs/payment/refund/spec.md"), "dry run must not modify files")
}

func TestApplyUpgradesSpec(t *testing.T) {
	t.Parallel()

	w := testutil.NewWorkspace(t)
	w.AddSpec("payment", "refund", "draft")

	results, err := Tree(loadTree(t, w), true)
	require.NoError(t, err)
	require.Len(t, results, 1)

	after := w.Read("specs/payment/refund/spec.md")
	assert.Contains(t, after, "schema_version: 2")
	assert.Contains(t, after, "owner: TBD")

	// A second pass finds nothing left to migrate.
	results, err = Tree(loadTree(t, w), false)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestApplyBackfillsMissingSections(t *testing.T) {
	t.Parallel()

	w := testutil.NewWorkspace(t)
	w.Write("tasks/000001_feature_x/change.md", `---
schema_version: 1
status: draft
title: Partial change
created: 2026-01-12
risk_level: high
clarity_score: 3
spec_refs: []
---

## Why

Because.
`)
	w.AddPlan("000001_feature_x", "planned", 5, nil)

	results, err := Tree(loadTree(t, w), true)
	require.NoError(t, err)

	var changeResult *Result
	for _, r := range results {
		if r.Doc == "tasks/000001_feature_x/change.md" {
			changeResult = r
		}
	}
	require.NotNil(t, changeResult)
	// High risk at v2 also demands the Release and Migration sections.
	assert.Equal(t, []string{"Impact", "Rollback", "Release", "Migration"}, changeResult.AddedSections)

	after := w.Read("tasks/000001_feature_x/change.md")
	assert.Contains(t, after, "schema_version: 2")
	assert.True(t, strings.Contains(after, "## Impact"), "missing section heading appended")
	assert.True(t, strings.Contains(after, "## Rollback"), "missing section heading appended")
	assert.True(t, strings.Contains(after, "## Release"), "risk section heading appended")
	assert.True(t, strings.Contains(after, "## Migration"), "risk section heading appended")
	// Existing content survives in place.
	assert.Less(t, strings.Index(after, "## Why"), strings.Index(after, "## Impact"))
}

func TestApplySkipsRiskSectionsAtLowRisk(t *testing.T) {
	t.Parallel()

	w := testutil.NewWorkspace(t)
	w.Write("tasks/000001_feature_x/change.md", `---
schema_version: 1
status: draft
title: Partial change
created: 2026-01-12
risk_level: medium
clarity_score: 3
spec_refs: []
---

## Why

Because.
`)
	w.AddPlan("000001_feature_x", "planned", 5, nil)

	results, err := Tree(loadTree(t, w), true)
	require.NoError(t, err)

	var changeResult *Result
	for _, r := range results {
		if r.Doc == "tasks/000001_feature_x/change.md" {
			changeResult = r
		}
	}
	require.NotNil(t, changeResult)
	assert.Equal(t, []string{"Impact", "Rollback"}, changeResult.AddedSections)
	assert.NotContains(t, w.Read("tasks/000001_feature_x/change.md"), "## Release")
}

func TestUpToDateDocumentsUntouched(t *testing.T) {
	t.Parallel()

	w := testutil.NewWorkspace(t)
	w.Write("specs/payment/refund/spec.md", `---
schema_version: 2
status: draft
title: Refund
created: 2026-01-10
owner: payments-team
---

## Overview

x

## Functional Requirements

- FR-001: a

## Non-Functional Requirements

- NFR-001: b

## Acceptance Criteria

- AC-001: c
`)
	before := w.Read("specs/payment/refund/spec.md")

	results, err := Tree(loadTree(t, w), true)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, before, w.Read("specs/payment/refund/spec.md"))
}

func TestRunMigrationIsNoOpAtLatest(t *testing.T) {
	t.Parallel()

	w := testutil.NewWorkspace(t)
	w.AddChange("000001_feature_x", "draft", 5, "low", nil)
	w.AddPlan("000001_feature_x", "planned", 5, nil)
	w.AddRun("000001_feature_x", "run_20260114_090000", "success", "low", "abc1234", nil, "Green.")

	results, err := Tree(loadTree(t, w), false)
	require.NoError(t, err)

	for _, r := range results {
		assert.NotContains(t, r.Doc, "runs/", "run documents are already at the latest version")
	}
}
