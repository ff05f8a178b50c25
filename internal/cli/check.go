package cli

import (
	"github.com/spf13/cobra"

	"github.com/specgate/specgate/internal/catalog"
	"github.com/specgate/specgate/internal/gate"
	"github.com/specgate/specgate/internal/issue"
	"github.com/specgate/specgate/internal/progress"
	"github.com/specgate/specgate/internal/refs"
	"github.com/specgate/specgate/internal/validate"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run every check: validation, references, gates, staleness",
	Long: `Run the full check suite over the workspace:

  - frontmatter schema and section validation
  - cross-reference resolution
  - status gate requirements for every declared status
  - generated artifact freshness

The exit code reflects the most severe finding: gate violations beat
staleness, staleness beats plain validation failures.`,
	Example: `  # Full workspace check, suitable for CI
  specgate check`,
	RunE: runCheck,
}

func init() {
	checkCmd.GroupID = GroupChecks
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, tree, err := loadWorkspace()
	if err != nil {
		return err
	}

	indicator := progress.NewIndicator(progress.DetectTerminalCapabilities(), cfg.ShowProgress)
	indicator.Start("checking workspace")

	report := validate.All(tree)
	report.Merge(refs.NewResolver(tree).All())
	report.Merge(gate.Check(tree))

	artifacts, err := catalog.Artifacts(tree, cfg.SpecsDir, cfg.TasksDir, cfg.CatalogPath)
	if err != nil {
		indicator.Fail("check aborted")
		return NewExitErrorf(ExitIOError, "compiling artifacts: %v", err)
	}
	report.Merge(catalog.CheckArtifacts(flagRoot, artifacts))

	out := cmd.OutOrStdout()
	if !report.HasIssues() {
		indicator.Done("workspace checked")
		printOK(out, "workspace is consistent", cfg.NoColor)
		return nil
	}

	indicator.Fail("workspace has issues")
	printReport(out, report, cfg.NoColor)

	onlyGate := true
	for _, i := range report.Issues {
		if i.Code != issue.CodeGate {
			onlyGate = false
		}
	}
	switch {
	case report.HasCode(issue.CodeGate) && cfg.StrictGates:
		return NewExitError(ExitGateViolation)
	case onlyGate:
		// strict_gates is off: gate findings alone are advisory.
		return nil
	case report.HasCode(issue.CodeStaleArtifact):
		return NewExitError(ExitStale)
	default:
		return NewExitError(ExitValidationFailed)
	}
}
