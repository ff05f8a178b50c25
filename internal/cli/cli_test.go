package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specgate/specgate/internal/document"
	"github.com/specgate/specgate/internal/testutil"
)

// execute runs the root command against a workspace root. Shared command
// state means CLI tests never run in parallel.
func execute(t *testing.T, root string, args ...string) (string, error) {
	t.Helper()
	resetFlags()
	t.Setenv("HOME", t.TempDir()) // isolate from any real global config

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(append([]string{"--root", root, "--no-color"}, args...))
	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags() {
	flagRoot = "."
	flagConfig = ".specgate/config.json"
	flagNoColor = false
	validateRefsOnly = false
	compileCheckOnly = false
	migrateApply = false
	archiveApply = false
	newTaskTitle = ""
	newSpecOwner = ""
	newRunStatus = document.StatusPartial
}

func TestExitCodes(t *testing.T) {
	tests := map[string]struct {
		err  error
		code int
	}{
		"nil error":               {nil, ExitSuccess},
		"bare exit error":         {NewExitError(ExitGateViolation), ExitGateViolation},
		"exit error with message": {NewExitErrorf(ExitIOError, "disk full"), ExitIOError},
		"plain error":             {errors.New("unknown flag"), ExitInvalidArguments},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.code, ExitCode(tt.err))
		})
	}
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "", UserMessage(NewExitError(ExitStale)))
	assert.Equal(t, "disk full", UserMessage(NewExitErrorf(ExitIOError, "disk full")))
	assert.Equal(t, "boom", UserMessage(errors.New("boom")))
}

func TestInitScaffoldValidateFlow(t *testing.T) {
	root := t.TempDir()

	out, err := execute(t, root, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "workspace initialized")

	out, err = execute(t, root, "new-spec", "payment", "refund", "--owner", "payments-team")
	require.NoError(t, err)
	assert.Contains(t, out, "created specs/payment/refund/spec.md")

	out, err = execute(t, root, "new", "feature", "dark-mode")
	require.NoError(t, err)
	assert.Contains(t, out, "task 000001_feature_dark-mode ready")

	// A second task gets the next sequence number.
	out, err = execute(t, root, "new", "fix", "leak")
	require.NoError(t, err)
	assert.Contains(t, out, "task 000002_fix_leak ready")

	// Scaffolded documents validate cleanly.
	out, err = execute(t, root, "validate")
	require.NoError(t, err, out)
	assert.Contains(t, out, "all documents valid")

	out, err = execute(t, root, "new-run", "000001_feature_dark-mode")
	require.NoError(t, err)
	assert.Contains(t, out, "run recorded")
}

func TestValidateFailsOnDanglingRef(t *testing.T) {
	w := testutil.NewWorkspace(t)
	w.AddChange("000001_feature_x", "draft", 5, "low", []string{"payment/refund"})
	w.AddPlan("000001_feature_x", "planned", 5, nil)

	out, err := execute(t, w.Root, "validate")
	require.Error(t, err)
	assert.Equal(t, ExitValidationFailed, ExitCode(err))
	assert.Contains(t, out, "dangling-ref")
	assert.Contains(t, out, `"payment/refund" does not resolve`)
}

func TestCompileThenCheckIsFresh(t *testing.T) {
	w := testutil.NewWorkspace(t)
	w.AddSpec("payment", "refund", "active")
	w.AddChange("000001_feature_x", "draft", 5, "low", []string{"payment/refund"})
	w.AddPlan("000001_feature_x", "planned", 5, []string{"payment/refund"})

	out, err := execute(t, w.Root, "compile")
	require.NoError(t, err, out)
	assert.Contains(t, out, "wrote specs/INDEX.md")
	assert.Contains(t, out, "wrote tasks/INDEX.md")
	assert.Contains(t, out, "wrote .specgate/catalog.json")

	out, err = execute(t, w.Root, "compile", "--check")
	require.NoError(t, err, out)
	assert.Contains(t, out, "all generated artifacts are fresh")

	out, err = execute(t, w.Root, "check")
	require.NoError(t, err, out)
	assert.Contains(t, out, "workspace is consistent")
}

func TestCompileCheckDetectsStaleness(t *testing.T) {
	w := testutil.NewWorkspace(t)
	w.AddSpec("payment", "refund", "active")

	_, err := execute(t, w.Root, "compile")
	require.NoError(t, err)

	// The tree changes without recompiling.
	w.AddSpec("auth", "login", "draft")

	out, err := execute(t, w.Root, "compile", "--check")
	require.Error(t, err)
	assert.Equal(t, ExitStale, ExitCode(err))
	assert.Contains(t, out, "stale-artifact")
}

func TestCheckReportsGateViolation(t *testing.T) {
	w := testutil.NewWorkspace(t)
	w.AddSpec("payment", "refund", "active")
	// Approved without earning it: clarity below threshold.
	w.AddChange("000001_feature_x", "approved", 5, "low", []string{"payment/refund"})
	w.AddPlan("000001_feature_x", "planned", 5, []string{"payment/refund"})

	_, err := execute(t, w.Root, "compile")
	require.NoError(t, err)

	out, err := execute(t, w.Root, "check")
	require.Error(t, err)
	assert.Equal(t, ExitGateViolation, ExitCode(err))
	assert.Contains(t, out, "clarity_score 5 is below the approval threshold 7")
}

func TestCheckStrictGatesOff(t *testing.T) {
	w := testutil.NewWorkspace(t)
	w.AddSpec("payment", "refund", "active")
	w.AddChange("000001_feature_x", "approved", 5, "low", []string{"payment/refund"})
	w.AddPlan("000001_feature_x", "planned", 5, []string{"payment/refund"})
	w.Write(".specgate/config.json", `{"strict_gates": false}`)

	_, err := execute(t, w.Root, "compile")
	require.NoError(t, err)

	// Gate findings alone are advisory when strict gates are off.
	out, err := execute(t, w.Root, "check")
	require.NoError(t, err, out)
	assert.Contains(t, out, "clarity_score 5 is below the approval threshold 7")
}

func TestAssessListsGaps(t *testing.T) {
	w := testutil.NewWorkspace(t)
	w.AddChange("000001_feature_x", "draft", 5, "low", nil)
	w.AddPlan("000001_feature_x", "planned", 5, nil)

	out, err := execute(t, w.Root, "assess", "000001_feature_x")
	require.NoError(t, err)
	assert.Contains(t, out, "clarity_score")
	assert.Contains(t, out, "readiness_score")
	assert.Contains(t, out, "no spec_refs")
}

func TestMigrateDryRunAndApply(t *testing.T) {
	w := testutil.NewWorkspace(t)
	w.AddSpec("payment", "refund", "draft")

	out, err := execute(t, w.Root, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "would migrate specs/payment/refund/spec.md: v1 -> v2")

	out, err = execute(t, w.Root, "migrate", "--apply")
	require.NoError(t, err)
	assert.Contains(t, out, "migrated specs/payment/refund/spec.md")
	assert.Contains(t, w.Read("specs/payment/refund/spec.md"), "schema_version: 2")
}

func TestArchiveDryRunAndApply(t *testing.T) {
	w := testutil.NewWorkspace(t)
	w.AddChange("000001_feature_done", "done", 8, "low", nil)
	w.AddPlan("000001_feature_done", "done", 8, nil)

	out, err := execute(t, w.Root, "archive")
	require.NoError(t, err)
	assert.Contains(t, out, "would archive tasks/000001_feature_done")

	out, err = execute(t, w.Root, "archive", "--apply")
	require.NoError(t, err)
	assert.Contains(t, out, "archived 1 directories")

	// Copied, not moved.
	assert.Contains(t, w.Read("tasks/000001_feature_done/change.md"), "status: done")
}

func TestStatusSummarizesTree(t *testing.T) {
	w := testutil.NewWorkspace(t)
	w.AddSpec("payment", "refund", "active")
	w.AddSpec("auth", "login", "draft")
	w.AddChange("000001_feature_x", "review", 8, "low", []string{"payment/refund"})
	w.AddPlan("000001_feature_x", "planned", 8, []string{"payment/refund"})
	w.AddRun("000001_feature_x", "run_20260114_090000", "failure", "low", "abc1234", nil, "Flaky.")

	out, err := execute(t, w.Root, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "specs: 2")
	assert.Contains(t, out, "tasks: 1 (1 runs)")
	assert.Contains(t, out, "review")
}

func TestDoctorOnFreshWorkspace(t *testing.T) {
	w := testutil.NewWorkspace(t)

	out, err := execute(t, w.Root, "doctor")
	require.NoError(t, err, out)
	assert.Contains(t, out, "✓ Registry")
}

func TestDoctorFailsOnUninitializedDir(t *testing.T) {
	root := t.TempDir()

	out, err := execute(t, root, "doctor")
	require.Error(t, err)
	assert.Equal(t, ExitIOError, ExitCode(err))
	assert.Contains(t, out, "✗ Specs directory")
}

func TestNewRejectsBadArguments(t *testing.T) {
	w := testutil.NewWorkspace(t)

	_, err := execute(t, w.Root, "new", "epic", "dark-mode")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))

	_, err = execute(t, w.Root, "new", "feature", "Dark_Mode")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
}

func TestNewRunRejectsUnknownTask(t *testing.T) {
	w := testutil.NewWorkspace(t)

	_, err := execute(t, w.Root, "new-run", "000009_feature_ghost")
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArguments, ExitCode(err))
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "specgate dev")
}

func TestCommandsCarryGroups(t *testing.T) {
	groups := make(map[string]bool)
	for _, g := range rootCmd.Groups() {
		groups[g.ID] = true
	}
	var walk func(*cobra.Command)
	walk = func(cmd *cobra.Command) {
		for _, sub := range cmd.Commands() {
			if sub.Name() == "help" || sub.Name() == "completion" {
				continue
			}
			assert.True(t, groups[sub.GroupID], "command %s has no display group", sub.Name())
		}
	}
	walk(rootCmd)
}

func TestWorkspaceRootFlag(t *testing.T) {
	// Sanity: --root resolves relative workspace paths.
	root := t.TempDir()
	_, err := execute(t, root, "init")
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(root, "specs"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
