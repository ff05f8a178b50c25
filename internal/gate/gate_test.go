package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specgate/specgate/internal/document"
	"github.com/specgate/specgate/internal/issue"
	"github.com/specgate/specgate/internal/schema"
	"github.com/specgate/specgate/internal/testutil"
)

func loadTree(t *testing.T, w *testutil.Workspace) *document.Tree {
	t.Helper()
	tree, err := document.Load(w.Root, "specs", "tasks")
	require.NoError(t, err)
	return tree
}

func TestAllowedTransitions(t *testing.T) {
	tests := map[string]struct {
		kind schema.Kind
		from string
		to   string
		want bool
	}{
		"spec draft to active":          {schema.KindSpec, "draft", "active", true},
		"spec active to deprecated":     {schema.KindSpec, "active", "deprecated", true},
		"spec draft to deprecated":      {schema.KindSpec, "draft", "deprecated", false},
		"spec deprecated to active":     {schema.KindSpec, "deprecated", "active", false},
		"change draft to review":        {schema.KindChange, "draft", "review", true},
		"change draft to rejected":      {schema.KindChange, "draft", "rejected", true},
		"change draft to approved":      {schema.KindChange, "draft", "approved", false},
		"change review to approved":     {schema.KindChange, "review", "approved", true},
		"change approved to canceled":   {schema.KindChange, "approved", "canceled", true},
		"change canceled mid-execution": {schema.KindChange, "in_progress", "canceled", true},
		"change review to canceled":     {schema.KindChange, "review", "canceled", false},
		"change done is terminal":       {schema.KindChange, "done", "draft", false},
		"plan planned to in_progress":   {schema.KindPlan, "planned", "in_progress", true},
		"plan blocked resumes":          {schema.KindPlan, "blocked", "in_progress", true},
		"plan planned straight to done": {schema.KindPlan, "planned", "done", false},
		"run failure to success":        {schema.KindRun, "failure", "success", true},
		"run self transition":           {schema.KindRun, "success", "success", false},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got := allowedTransition(test.kind, test.from, test.to)
			assert.Equal(t, test.want, got)
		})
	}
}

func TestChangeApprovalDeniedBelowThreshold(t *testing.T) {
	t.Parallel()

	w := testutil.NewWorkspace(t)
	w.AddSpec("payment", "refund", "active")
	w.AddChange("000001_feature_refund-api", "review", 6, "medium", []string{"payment/refund"})
	w.AddPlan("000001_feature_refund-api", "planned", 4, []string{"payment/refund"})

	tree := loadTree(t, w)
	change := tree.Tasks["000001_feature_refund-api"].Change

	decision := EvaluateChange(tree, change, "approved")
	require.False(t, decision.Allowed)

	found := false
	for _, v := range decision.Violations {
		if v.Code == issue.CodeGate && v.Field == "clarity_score" {
			found = true
			assert.Contains(t, v.Message, "clarity_score 6 is below the approval threshold 7")
		}
	}
	assert.True(t, found, "expected clarity_score violation, got: %v", decision.Violations)
}

func TestChangeApprovalAllowed(t *testing.T) {
	t.Parallel()

	w := testutil.NewWorkspace(t)
	w.AddSpec("payment", "refund", "active")
	w.AddChange("000001_feature_refund-api", "review", 8, "medium", []string{"payment/refund"})
	w.AddPlan("000001_feature_refund-api", "planned", 7, []string{"payment/refund"})

	tree := loadTree(t, w)
	change := tree.Tasks["000001_feature_refund-api"].Change

	decision := EvaluateChange(tree, change, "approved")
	assert.True(t, decision.Allowed, "violations: %v", decision.Violations)
	assert.Empty(t, decision.Violations)
}

func TestChangeApprovalCollectsAllViolations(t *testing.T) {
	t.Parallel()

	w := testutil.NewWorkspace(t)
	// Low clarity, dangling ref, and the wrong starting status all at once.
	w.AddChange("000001_feature_refund-api", "draft", 3, "medium", []string{"payment/refund"})
	w.AddPlan("000001_feature_refund-api", "planned", 4, nil)

	tree := loadTree(t, w)
	change := tree.Tasks["000001_feature_refund-api"].Change

	decision := EvaluateChange(tree, change, "approved")
	require.False(t, decision.Allowed)

	codes := make(map[issue.Code]bool)
	for _, v := range decision.Violations {
		codes[v.Code] = true
	}
	assert.True(t, codes[issue.CodeGate], "transition and score violations")
	assert.True(t, codes[issue.CodeDanglingRef], "dangling spec ref reported in the same pass")
}

func TestChangeApprovalEmptySpecRefs(t *testing.T) {
	t.Parallel()

	w := testutil.NewWorkspace(t)
	w.AddChange("000001_feature_refund-api", "review", 9, "low", nil)
	w.AddPlan("000001_feature_refund-api", "planned", 4, nil)

	tree := loadTree(t, w)
	decision := EvaluateChange(tree, tree.Tasks["000001_feature_refund-api"].Change, "approved")
	require.False(t, decision.Allowed)

	found := false
	for _, v := range decision.Violations {
		if v.Field == "spec_refs" {
			found = true
		}
	}
	assert.True(t, found, "expected spec_refs violation")
}

func TestHighRiskChangeNeedsReleaseAndMigration(t *testing.T) {
	t.Parallel()

	w := testutil.NewWorkspace(t)
	w.AddSpec("payment", "refund", "active")
	w.Write("tasks/000002_feature_migration/change.md", `---
schema_version: 2
status: review
title: Big migration
created: 2026-01-10
risk_level: high
clarity_score: 9
spec_refs:
  - payment/refund
---

## Why

Schema change.

## Impact

All rows rewritten.

## Rollback

Restore from backup.

## Release

N/A

## Migration

Backfill with the online tool.
`)
	w.AddPlan("000002_feature_migration", "planned", 4, []string{"payment/refund"})

	tree := loadTree(t, w)
	decision := EvaluateChange(tree, tree.Tasks["000002_feature_migration"].Change, "approved")
	require.False(t, decision.Allowed)

	// Release is marked N/A without justification; Migration is populated.
	require.Len(t, decision.Violations, 1)
	assert.Equal(t, "Release", decision.Violations[0].Field)
	assert.Contains(t, decision.Violations[0].Message, "without justification")
}

func TestRiskSectionNotApplicableWithJustification(t *testing.T) {
	assert.Equal(t, "", riskSectionSatisfied("N/A — feature flag only, nothing ships separately"))
	assert.NotEqual(t, "", riskSectionSatisfied("N/A"))
	assert.NotEqual(t, "", riskSectionSatisfied("  "))
	assert.Equal(t, "", riskSectionSatisfied("Ship behind the beta flag."))
}

func TestPlanInProgressRequiresReadiness(t *testing.T) {
	t.Parallel()

	w := testutil.NewWorkspace(t)
	w.AddChange("000001_feature_x", "approved", 8, "low", nil)
	w.AddPlan("000001_feature_x", "planned", 6, nil)

	tree := loadTree(t, w)
	decision := EvaluatePlan(tree, tree.Tasks["000001_feature_x"].Plan, "in_progress")
	require.False(t, decision.Allowed)
	assert.Contains(t, decision.Violations[0].Message, "readiness_score 6 is below")
}

func TestPlanDoneRequiresSuccessfulRun(t *testing.T) {
	t.Parallel()

	w := testutil.NewWorkspace(t)
	w.AddChange("000001_feature_x", "in_progress", 8, "low", nil)
	w.AddPlan("000001_feature_x", "in_progress", 8, nil)
	// No runs at all.

	tree := loadTree(t, w)
	decision := EvaluatePlan(tree, tree.Tasks["000001_feature_x"].Plan, "done")
	require.False(t, decision.Allowed)
	assert.Contains(t, decision.Violations[0].Message, "successful run with recorded evidence")
}

func TestPlanDoneIgnoresFailedRuns(t *testing.T) {
	t.Parallel()

	w := testutil.NewWorkspace(t)
	w.AddChange("000001_feature_x", "in_progress", 8, "low", nil)
	w.AddPlan("000001_feature_x", "in_progress", 8, nil)
	w.AddRun("000001_feature_x", "run_20260114_090000", "failure", "low", "abc1234", nil, "Failed in CI.")

	tree := loadTree(t, w)
	decision := EvaluatePlan(tree, tree.Tasks["000001_feature_x"].Plan, "done")
	assert.False(t, decision.Allowed)
}

func TestPlanDoneSatisfied(t *testing.T) {
	t.Parallel()

	w := testutil.NewWorkspace(t)
	w.AddChange("000001_feature_x", "in_progress", 8, "low", nil)
	w.AddPlan("000001_feature_x", "in_progress", 8, nil)
	w.AddRun("000001_feature_x", "run_20260114_090000", "success", "low", "abc1234", nil, "Suite green on staging.")

	tree := loadTree(t, w)
	decision := EvaluatePlan(tree, tree.Tasks["000001_feature_x"].Plan, "done")
	assert.True(t, decision.Allowed, "violations: %v", decision.Violations)
}

func TestRunSuccessRequiresTarget(t *testing.T) {
	t.Parallel()

	w := testutil.NewWorkspace(t)
	w.AddChange("000001_feature_x", "in_progress", 8, "low", nil)
	w.AddPlan("000001_feature_x", "in_progress", 8, nil)
	w.AddRun("000001_feature_x", "run_20260114_090000", "partial", "low", "", nil, "Half done.")

	tree := loadTree(t, w)
	run := tree.Tasks["000001_feature_x"].Runs[0]

	decision := EvaluateRun(run, "success")
	require.False(t, decision.Allowed)
	assert.Equal(t, issue.CodeMissingField, decision.Violations[0].Code)
}

func TestRunSuccessHighRiskRequiresEvidence(t *testing.T) {
	t.Parallel()

	w := testutil.NewWorkspace(t)
	w.AddChange("000001_feature_x", "in_progress", 8, "critical", nil)
	w.AddPlan("000001_feature_x", "in_progress", 8, nil)
	w.AddRun("000001_feature_x", "run_20260114_090000", "partial", "critical", "abc1234", nil, "")

	tree := loadTree(t, w)
	run := tree.Tasks["000001_feature_x"].Runs[0]

	decision := EvaluateRun(run, "success")
	require.False(t, decision.Allowed)
	assert.Equal(t, issue.CodeGate, decision.Violations[0].Code)
	assert.Contains(t, decision.Violations[0].Message, "critical risk require evidence")
}

func TestSpecActivationRequiresNumberedEntries(t *testing.T) {
	t.Parallel()

	w := testutil.NewWorkspace(t)
	w.Write("specs/payment/refund/spec.md", `---
schema_version: 1
status: draft
title: Refund
created: 2026-01-10
---

## Overview

x

## Functional Requirements

- FR-001: a

## Non-Functional Requirements

## Acceptance Criteria
`)

	tree := loadTree(t, w)
	decision := EvaluateSpec(tree.Specs["payment/refund"], "active")
	require.False(t, decision.Allowed)

	fields := make(map[string]bool)
	for _, v := range decision.Violations {
		fields[v.Field] = true
	}
	assert.True(t, fields["Non-Functional Requirements"])
	assert.True(t, fields["Acceptance Criteria"])
	assert.False(t, fields["Functional Requirements"])
}

func TestCheckFlagsDocumentsAtUnearnedStatus(t *testing.T) {
	t.Parallel()

	w := testutil.NewWorkspace(t)
	w.AddSpec("payment", "refund", "active")
	// Already approved, but the clarity score never reached the gate.
	w.AddChange("000001_feature_x", "approved", 6, "low", []string{"payment/refund"})
	// Already done, but there is no successful run.
	w.AddPlan("000001_feature_x", "done", 8, []string{"payment/refund"})

	report := Check(loadTree(t, w))
	require.True(t, report.HasIssues())

	var clarity, evidence bool
	for _, i := range report.Issues {
		if i.Field == "clarity_score" {
			clarity = true
		}
		if i.Doc == "tasks/000001_feature_x/plan.md" && i.Code == issue.CodeGate && i.Field == "status" {
			evidence = true
		}
	}
	assert.True(t, clarity, "approved change below threshold must be flagged, got:\n%s", report.Format())
	assert.True(t, evidence, "done plan without successful run must be flagged, got:\n%s", report.Format())
}
