package cli

import (
	"github.com/spf13/cobra"

	"github.com/specgate/specgate/internal/refs"
	"github.com/specgate/specgate/internal/validate"
)

var validateRefsOnly bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate every document against its schema",
	Long: `Validate every document in the tree: frontmatter schema, required
sections, identifier numbering, and spec reference resolution.

All problems are collected and reported in one pass; validation never stops
at the first finding.`,
	Example: `  # Validate the whole tree
  specgate validate

  # Only check cross-references
  specgate validate --refs-only`,
	RunE: runValidate,
}

func init() {
	validateCmd.GroupID = GroupChecks
	validateCmd.Flags().BoolVar(&validateRefsOnly, "refs-only", false, "Only resolve spec references")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg, tree, err := loadWorkspace()
	if err != nil {
		return err
	}

	report := refs.NewResolver(tree).All()
	if !validateRefsOnly {
		full := validate.All(tree)
		full.Merge(report)
		report = full
	}

	out := cmd.OutOrStdout()
	if report.HasIssues() {
		printReport(out, report, cfg.NoColor)
		return NewExitError(ExitValidationFailed)
	}
	printOK(out, "all documents valid", cfg.NoColor)
	return nil
}
