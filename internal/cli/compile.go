package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/specgate/specgate/internal/catalog"
)

var compileCheckOnly bool

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Regenerate the indexes and the machine-readable catalog",
	Long: `Compile the derived artifacts from the document tree: the per-area
index files and the machine-readable catalog JSON. Compilation is
deterministic, so an unchanged tree always produces identical bytes.`,
	Example: `  # Rewrite all generated artifacts
  specgate compile

  # Only report which artifacts are stale (CI freshness gate)
  specgate compile --check`,
	RunE: runCompile,
}

// indexCmd is an alias scoped to the human-readable index files; it exists
// so `specgate index` reads naturally in docs and scripts.
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Regenerate the human-readable index files",
	Long: `Regenerate specs/INDEX.md and tasks/INDEX.md from the document
tree. The catalog JSON is rewritten too, keeping all derived artifacts in
lockstep.`,
	RunE: runCompile,
}

func init() {
	compileCmd.GroupID = GroupArtifacts
	compileCmd.Flags().BoolVar(&compileCheckOnly, "check", false, "Report stale artifacts without writing")
	rootCmd.AddCommand(compileCmd)

	indexCmd.GroupID = GroupArtifacts
	rootCmd.AddCommand(indexCmd)
}

func runCompile(cmd *cobra.Command, _ []string) error {
	cfg, tree, err := loadWorkspace()
	if err != nil {
		return err
	}

	artifacts, err := catalog.Artifacts(tree, cfg.SpecsDir, cfg.TasksDir, cfg.CatalogPath)
	if err != nil {
		return NewExitErrorf(ExitIOError, "compiling artifacts: %v", err)
	}

	out := cmd.OutOrStdout()
	if compileCheckOnly {
		report := catalog.CheckArtifacts(flagRoot, artifacts)
		if report.HasIssues() {
			printReport(out, report, cfg.NoColor)
			return NewExitError(ExitStale)
		}
		printOK(out, "all generated artifacts are fresh", cfg.NoColor)
		return nil
	}

	if err := catalog.WriteArtifacts(flagRoot, artifacts); err != nil {
		return NewExitErrorf(ExitIOError, "writing artifacts: %v", err)
	}
	for _, a := range artifacts {
		fmt.Fprintf(out, "wrote %s\n", a.Path)
	}
	return nil
}
