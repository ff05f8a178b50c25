package refs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specgate/specgate/internal/document"
	"github.com/specgate/specgate/internal/issue"
	"github.com/specgate/specgate/internal/testutil"
)

func loadTree(t *testing.T, w *testutil.Workspace) *document.Tree {
	t.Helper()
	tree, err := document.Load(w.Root, "specs", "tasks")
	require.NoError(t, err)
	return tree
}

func TestSpecRefsResolved(t *testing.T) {
	t.Parallel()

	w := testutil.NewWorkspace(t)
	w.AddSpec("payment", "refund", "active")
	w.AddChange("000001_feature_refund-api", "draft", 5, "medium", []string{"payment/refund"})
	w.AddPlan("000001_feature_refund-api", "planned", 4, []string{"payment/refund"})

	report := NewResolver(loadTree(t, w)).All()
	assert.False(t, report.HasIssues(), "got:\n%s", report.Format())
}

func TestDanglingSpecRef(t *testing.T) {
	t.Parallel()

	w := testutil.NewWorkspace(t)
	// No spec exists at specs/payment/refund/spec.md.
	w.AddChange("000001_feature_refund-api", "draft", 5, "medium", []string{"payment/refund"})
	w.AddPlan("000001_feature_refund-api", "planned", 4, nil)

	report := NewResolver(loadTree(t, w)).All()
	require.Len(t, report.Issues, 1)

	i := report.Issues[0]
	assert.Equal(t, issue.CodeDanglingRef, i.Code)
	assert.Contains(t, i.Message, `"payment/refund"`)
	assert.Contains(t, i.Hint, "specs/payment/refund/spec.md")
}

func TestCollectsEveryDanglingRef(t *testing.T) {
	t.Parallel()

	w := testutil.NewWorkspace(t)
	w.AddSpec("auth", "login", "active")
	w.AddChange("000001_feature_x", "draft", 5, "low", []string{"auth/login", "auth/logout", "billing/invoice"})
	w.AddPlan("000001_feature_x", "planned", 4, []string{"billing/invoice"})

	report := NewResolver(loadTree(t, w)).All()

	// Two dangling refs on the change, one on the plan: all reported at once.
	count := 0
	for _, i := range report.Issues {
		if i.Code == issue.CodeDanglingRef {
			count++
		}
	}
	assert.Equal(t, 3, count, "got:\n%s", report.Format())
}

func TestMalformedSpecRef(t *testing.T) {
	t.Parallel()

	w := testutil.NewWorkspace(t)
	w.AddChange("000001_feature_x", "draft", 5, "low", []string{"Payment/Refund"})
	w.AddPlan("000001_feature_x", "planned", 4, nil)

	report := NewResolver(loadTree(t, w)).All()
	require.Len(t, report.Issues, 1)
	assert.Equal(t, issue.CodePattern, report.Issues[0].Code)
}

func TestRunTargetMissing(t *testing.T) {
	t.Parallel()

	w := testutil.NewWorkspace(t)
	w.AddChange("000001_feature_x", "draft", 5, "low", nil)
	w.AddPlan("000001_feature_x", "planned", 4, nil)
	w.AddRun("000001_feature_x", "run_20260114_090000", "success", "low", "", nil, "Looks fine.")

	report := NewResolver(loadTree(t, w)).All()
	require.Len(t, report.Issues, 1)
	assert.Equal(t, issue.CodeMissingField, report.Issues[0].Code)
	assert.Contains(t, report.Issues[0].Message, "revision or code_refs")
}

func TestRunTargetNotRequiredOnFailure(t *testing.T) {
	t.Parallel()

	w := testutil.NewWorkspace(t)
	w.AddChange("000001_feature_x", "draft", 5, "low", nil)
	w.AddPlan("000001_feature_x", "planned", 4, nil)
	w.AddRun("000001_feature_x", "run_20260114_090000", "failure", "low", "", nil, "Broke in CI.")

	report := NewResolver(loadTree(t, w)).All()
	assert.False(t, report.HasIssues(), "got:\n%s", report.Format())
}

func TestRunTargetSatisfiedByCodeRefs(t *testing.T) {
	t.Parallel()

	w := testutil.NewWorkspace(t)
	w.AddChange("000001_feature_x", "draft", 5, "low", nil)
	w.AddPlan("000001_feature_x", "planned", 4, nil)
	w.AddRun("000001_feature_x", "run_20260114_090000", "success", "low", "", []string{"internal/payments/refund.go"}, "Diff reviewed.")

	report := NewResolver(loadTree(t, w)).All()
	assert.False(t, report.HasIssues(), "got:\n%s", report.Format())
}
